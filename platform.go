// Package mediaplayer integrates MQTT media player devices with Home
// Assistant. The player package holds the entity logic; this package supplies
// the device discovery envelope (Device, Component, Origin) that announces a
// configured player to Home Assistant over MQTT.
package mediaplayer

import (
	"encoding/json/jsontext"

	"github.com/douglampe/mqtt-media-player/mqtt"
)

// Platform is the interface implemented by every MQTT entity platform type.
type Platform interface {
	mqtt.Handler

	// MarshalDiscoveryTo marshals the platform's MQTT device discovery fields
	// to the specified jsontext.Encoder.
	MarshalDiscoveryTo(e *jsontext.Encoder) error

	// PlatformName returns the value for the `platform` field when
	// configuring a component using this platform for MQTT device discovery.
	PlatformName() string

	// Subscriptions returns the subscriptions for configured topics of this
	// component. Only topics that are actually configured are included.
	Subscriptions() []mqtt.Subscription
}
