package mediaplayer

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"

	"net/url"

	"github.com/douglampe/mqtt-media-player/discovery"
	"github.com/douglampe/mqtt-media-player/hass"
	"github.com/douglampe/mqtt-media-player/mqtt"
)

var (
	// ErrComponentAlreadySubscribed is the error returned by
	// Component.Subscribe when it has already been subscribed. Call
	// Component.Unsubscribe first.
	ErrComponentAlreadySubscribed = errors.New("component already subscribed")

	// ErrNoAvailabilityTopic is the error returned by
	// Component.PublishAvailability when no availability topic is configured.
	ErrNoAvailabilityTopic = errors.New("component has no availability topic")
)

// Component associates a Platform with the entity metadata Home Assistant
// needs to discover it. It implements json.MarshalerTo by encoding the
// component for a Home Assistant device discovery payload.
type Component[TPlatform Platform] struct {
	Platform TPlatform

	// The name of the entity. Set to the empty string if only the device name
	// is relevant.
	Name string

	// The category of the entity. See
	// https://developers.home-assistant.io/docs/core/entity/#generic-properties
	EntityCategory string

	// The icon to use in the frontend for this entity.
	Icon string

	// Picture URL for the entity.
	Picture *url.URL

	// AvailabilityTopic is the topic the entity's availability is published
	// on. Required; use PublishAvailability to write to it.
	AvailabilityTopic string

	// Custom payload values to use for available and unavailable states.
	CustomAvailabilityValues hass.CustomAvailability

	// Use this value instead of Name for automatic generation of the entity
	// ID, for example `media_player.living_room`. When set together with
	// UniqueID it is only applied when the entity is first added.
	DefaultEntityID string

	// An ID that uniquely identifies this entity. Home Assistant raises an
	// exception when two entities share one. Required for device-based
	// discovery.
	UniqueID string

	// MQTT options to use when publishing availability for this component.
	WriteOptions mqtt.WriteOptions

	subscribedTopics []string
}

// ForRemoval returns the RemoveComponent that unregisters this component from
// device discovery.
func (c *Component[TPlatform]) ForRemoval() RemoveComponent {
	return RemoveComponent{Platform: c.Platform.PlatformName()}
}

// PublishAvailability writes the provided availability to the component's
// availability topic, retained so late subscribers see it.
func (c *Component[TPlatform]) PublishAvailability(ctx context.Context, w mqtt.Writer, availability hass.Availability) error {
	if c.AvailabilityTopic == "" {
		return ErrNoAvailabilityTopic
	}

	opts := c.WriteOptions
	opts.Retain = true

	return w.WriteTopic(ctx, c.AvailabilityTopic, opts, []byte(availability))
}

// Subscribe registers the platform's MQTT subscriptions using the provided
// mqtt.Subscriber. The subscriptions can be removed by calling Unsubscribe.
func (c *Component[TPlatform]) Subscribe(ctx context.Context, s mqtt.Subscriber) error {
	if len(c.subscribedTopics) != 0 {
		return ErrComponentAlreadySubscribed
	}

	subscriptions := c.Platform.Subscriptions()
	c.subscribedTopics = make([]string, len(subscriptions))
	for i, subscription := range subscriptions {
		c.subscribedTopics[i] = subscription.Topic
	}

	return s.Subscribe(ctx, c.Platform, subscriptions...)
}

// Unsubscribe removes the platform's MQTT subscriptions from the provided
// mqtt.Subscriber.
func (c *Component[TPlatform]) Unsubscribe(ctx context.Context, s mqtt.Subscriber) error {
	if len(c.subscribedTopics) == 0 {
		return nil
	}

	topics := c.subscribedTopics
	c.subscribedTopics = nil

	return s.Unsubscribe(ctx, topics...)
}

func (c *Component[TPlatform]) MarshalJSONTo(e *jsontext.Encoder) error {
	// Home Assistant expects a literal null name when only the device name is
	// relevant.
	nameToken := jsontext.Null
	if c.Name != "" {
		nameToken = jsontext.String(c.Name)
	}

	return errors.Join(
		e.WriteToken(jsontext.BeginObject),

		discovery.MarshalStdComparable("platform", e, discovery.FieldPlatform, c.Platform.PlatformName()),

		e.WriteToken(jsontext.String("name")),
		e.WriteToken(nameToken),

		discovery.MaybeMarshalStdComparable(e, discovery.FieldEntityCategory, c.EntityCategory),
		discovery.MaybeMarshalStdComparable(e, discovery.FieldIcon, c.Icon),
		discovery.MaybeMarshalStd(e, discovery.FieldPicture, c.Picture),

		discovery.MarshalRequiredTopic("availability", e, discovery.FieldAvailabilityTopic, c.AvailabilityTopic),
		discovery.MaybeMarshalStdComparable(e, discovery.FieldPayloadAvailable, c.CustomAvailabilityValues.Available),
		discovery.MaybeMarshalStdComparable(e, discovery.FieldPayloadNotAvailable, c.CustomAvailabilityValues.Unavailable),

		discovery.MaybeMarshalStdComparable(e, discovery.FieldDefaultEntityID, c.DefaultEntityID),
		discovery.MaybeMarshalStdComparable(e, discovery.FieldUniqueID, c.UniqueID),
		discovery.MaybeMarshalStdComparable(e, discovery.FieldQualityOfService, c.WriteOptions.QoS),
		discovery.MaybeMarshalStdComparable(e, discovery.FieldRetain, c.WriteOptions.Retain),

		c.Platform.MarshalDiscoveryTo(e),

		e.WriteToken(jsontext.EndObject),
	)
}

// RemoveComponent is used to remove a Component from device discovery.
// Construct one with the appropriate platform name manually or use
// Component.ForRemoval.
type RemoveComponent struct {
	Platform string `json:"platform"`
}

func (r RemoveComponent) MarshalJSONTo(e *jsontext.Encoder) error {
	return json.MarshalEncode(e, &r)
}
