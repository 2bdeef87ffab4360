package player

import (
	"encoding/json/jsontext"
	"errors"

	"github.com/douglampe/mqtt-media-player/discovery"
)

// MarshalDiscoveryTo marshals the media player's discovery configuration to
// the provided encoder: the schema marker, every configured topic, the source
// list, the enabled feature names, and any payload that differs from the
// built-in defaults. Fields share the encoder's enclosing object; the caller
// owns the object tokens.
func (m *MediaPlayer) MarshalDiscoveryTo(e *jsontext.Encoder) error {
	return errors.Join(
		discovery.MarshalStdComparable("schema", e, discovery.FieldSchema, discovery.SchemaState),

		discovery.MaybeMarshalTopic(e, discovery.FieldStateTopic, m.stateTopic),
		discovery.MaybeMarshalTopic(e, discovery.FieldCommandTopic, m.commandTopic),
		discovery.MaybeMarshalTopic(e, discovery.FieldSetVolumeTopic, m.setVolumeTopic),
		discovery.MaybeMarshalTopic(e, discovery.FieldSendCommandTopic, m.sendCommandTopic),

		discovery.MaybeMarshalStdSlice(e, discovery.FieldSourceList, m.sources),
		discovery.MaybeMarshalStdSlice(e, discovery.FieldSupportedFeatures, FeaturesToStrings(m.features)),

		m.marshalPayloadOverrides(e),
	)
}

// marshalPayloadOverrides emits payload_<feature> fields for every payload
// that differs from the built-in table, in feature bit order.
func (m *MediaPlayer) marshalPayloadOverrides(e *jsontext.Encoder) error {
	var err error

	for _, fn := range featureNames {
		payload, ok := m.payloads.For(fn.feature)
		if !ok || payload == defaultPayloads[fn.feature] {
			continue
		}

		err = errors.Join(
			err,
			discovery.MaybeMarshalStdComparable(e, discovery.PayloadFieldPrefix+fn.name, payload),
		)
	}

	return err
}
