package mediaplayer

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/douglampe/mqtt-media-player/discovery"
	"github.com/douglampe/mqtt-media-player/mqtt"
)

// ErrInvalidDevice is the error returned by Device.Configure and Device.Valid
// if the device is not properly configured.
var ErrInvalidDevice = errors.New("device must have at least one identifying value in 'identifiers' and/or 'connections'")

// DeviceConnection maps this Device to the outside world. For example:
//
//	DeviceConnection{
//	    Kind: "mac",
//	    Value: "02:5b:26:a8:dc:12",
//	}
//
// It implements fmt.Stringer and slog.LogValuer.
type DeviceConnection struct {
	Kind  string
	Value string
}

func (d DeviceConnection) String() string {
	return fmt.Sprintf("[%q,%q]", d.Kind, d.Value)
}

func (d DeviceConnection) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", d.Kind),
		slog.String("value", d.Value),
	)
}

func (d DeviceConnection) MarshalJSONTo(e *jsontext.Encoder) error {
	return errors.Join(
		e.WriteToken(jsontext.BeginArray),
		e.WriteToken(jsontext.String(d.Kind)),
		e.WriteToken(jsontext.String(d.Value)),
		e.WriteToken(jsontext.EndArray),
	)
}

// Device represents an MQTT-based Home Assistant device: a collection of
// components (entities) announced together in one discovery payload. For a
// typical media player, the Device describes the physical appliance and holds
// a single media_player component, possibly alongside auxiliary sensors.
//
// See https://www.home-assistant.io/integrations/mqtt/#device-discovery-payload
type Device struct {
	// The ID to use for discovery. If empty, an ID is calculated from other
	// fields; see Device.ID.
	DiscoveryID string `json:"-"`

	// The name of the device.
	Name string `json:"name,omitempty"`

	// The serial number of the device.
	Serial string `json:"sn,omitempty"`

	// The manufacturer of the device.
	Manufacturer string `json:"mf,omitempty"`

	// The model of the device.
	Model string `json:"mdl,omitempty"`

	// The model identifier of the device.
	ModelID string `json:"mdl_id,omitempty"`

	// A link to the webpage that can manage the configuration of this device.
	// Can be either a http://, https:// or an internal homeassistant:// URL.
	ConfigurationURL *url.URL `json:"cu,omitempty"`

	// A list of connections of the device to the outside world.
	Connections []DeviceConnection `json:"cns,omitempty"`

	// The hardware version of the device.
	HardwareVersion string `json:"hw,omitempty"`

	// The firmware version of the device.
	FirmwareVersion string `json:"sw,omitempty"`

	// A list of IDs that uniquely identify the device, for example a serial
	// number.
	Identifiers []string `json:"ids,omitempty"`

	// Suggest an area if the device isn't in one yet.
	SuggestedArea string `json:"sa,omitempty"`

	// Origin of the MQTT entities, logged by Home Assistant when an item is
	// discovered or updated. Home Assistant requires origin information when
	// using device-based discovery; DefaultOrigin is used when unset.
	Origin *Origin `json:"-"`

	// Identifier of a device that routes messages between this device and
	// Home Assistant, such as a hub. Used to show device topology.
	ViaDevice string `json:"via_device,omitempty"`
}

// ID calculates an identifier for this device. If Device.DiscoveryID is set,
// that value is used. Otherwise the ID is assembled from the identifying
// fields that are set (all Identifiers, then Name, Serial, Manufacturer,
// Model, and ModelID), sanitized and joined with discovery.IDSep.
func (d *Device) ID() string {
	if d.DiscoveryID != "" {
		return d.DiscoveryID
	}

	parts := make([]string, 0, len(d.Identifiers)+5)
	parts = append(parts, d.Identifiers...)

	for _, field := range []string{d.Name, d.Serial, d.Manufacturer, d.Model, d.ModelID} {
		if field != "" {
			parts = append(parts, field)
		}
	}

	for i, part := range parts {
		parts[i] = discovery.IDSanitizer.Replace(part)
	}

	return strings.Join(parts, discovery.IDSep)
}

// Valid checks that this Device is configured appropriately. Home Assistant
// requires at least one value in Device.Identifiers or Device.Connections.
func (d *Device) Valid() error {
	if len(d.Identifiers) == 0 && len(d.Connections) == 0 {
		return ErrInvalidDevice
	}

	return nil
}

// Configure publishes the device discovery payload for this device and the
// provided components. To remove a component from the device, replace it in
// the map with a RemoveComponent and call Configure again.
//
// The device must pass validation performed by Device.Valid.
func (d *Device) Configure(ctx context.Context, w mqtt.Writer, discoveryPrefix string, components map[string]json.MarshalerTo) error {
	if err := d.Valid(); err != nil {
		return err
	}

	var buf bytes.Buffer
	e := jsontext.NewEncoder(
		&buf,
		jsontext.CanonicalizeRawInts(true),
		jsontext.CanonicalizeRawFloats(true),
	)

	err := errors.Join(
		e.WriteToken(jsontext.BeginObject),

		discovery.MarshalStd("device", e, discovery.FieldDevice, d),
		discovery.MarshalStd("origin", e, discovery.FieldOrigin, cmp.Or(d.Origin, &DefaultOrigin)),

		e.WriteToken(jsontext.String(discovery.FieldComponents)),
		e.WriteToken(jsontext.BeginObject),

		discovery.MaybeInlineMarshalStd(e, components),

		e.WriteToken(jsontext.EndObject),
		e.WriteToken(jsontext.EndObject),
	)

	if err != nil {
		return fmt.Errorf("configure: marshal discovery config: %w", err)
	}

	topic := fmt.Sprintf("%s/device/%s/config", discoveryPrefix, d.ID())
	return w.WriteTopic(ctx, topic, mqtt.WriteOptions{Retain: true}, buf.Bytes())
}
