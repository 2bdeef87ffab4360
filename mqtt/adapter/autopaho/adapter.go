// Package autopaho adapts the eclipse paho.golang autopaho connection manager
// to the mqtt.Writer and mqtt.Subscriber interfaces used by this module.
package autopaho

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	mplog "github.com/douglampe/mqtt-media-player/log"
	"github.com/douglampe/mqtt-media-player/mqtt"
)

// Conn wraps an autopaho.ConnectionManager. It tracks active subscriptions so
// they can be re-established after a reconnect, and routes inbound publishes
// to the handlers registered via Subscribe.
type Conn struct {
	mu sync.Mutex

	manager *autopaho.ConnectionManager
	router  paho.Router

	subscriptions map[string]paho.SubscribeOptions

	log *slog.Logger
}

var (
	_ mqtt.Writer     = &Conn{}
	_ mqtt.Subscriber = &Conn{}
)

// Dial connects to the broker described by the provided client config and
// blocks until the connection is ready. Close the connection with
// Conn.Disconnect.
func Dial(ctx context.Context, config autopaho.ClientConfig) (*Conn, error) {
	c := &Conn{
		router: paho.NewStandardRouter(),

		subscriptions: map[string]paho.SubscribeOptions{},

		log: mplog.ForComponent("autopaho"),
	}

	// Wrap OnConnectionUp so subscriptions survive reconnects.
	originalOnConnUp := config.OnConnectionUp
	config.OnConnectionUp = func(manager *autopaho.ConnectionManager, connack *paho.Connack) {
		c.onReconnect(ctx)

		if originalOnConnUp != nil {
			originalOnConnUp(manager, connack)
		}
	}

	// Hold the lock while connecting so the first OnConnectionUp callback
	// (which calls c.onReconnect) blocks until c.manager is assigned.
	c.mu.Lock()
	c.log.Info("Connecting to mqtt broker")
	manager, err := autopaho.NewConnection(ctx, config)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.manager = manager
	c.mu.Unlock()

	c.log.Debug("Waiting for connection to be ready")
	if err = manager.AwaitConnection(ctx); err != nil {
		return nil, fmt.Errorf("mqtt: wait for connection: %w", err)
	}

	c.log.Debug("Connected to mqtt broker")
	manager.AddOnPublishReceived(func(rx autopaho.PublishReceived) (bool, error) {
		c.router.Route(rx.Packet.Packet())
		return true, nil
	})

	return c, nil
}

// Disconnect cleanly shuts down the underlying connection.
func (c *Conn) Disconnect(ctx context.Context) error {
	return c.manager.Disconnect(ctx)
}

func (c *Conn) onReconnect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.subscriptions) == 0 {
		return
	}

	sub := &paho.Subscribe{
		Subscriptions: make([]paho.SubscribeOptions, 0, len(c.subscriptions)),
	}

	for _, s := range c.subscriptions {
		sub.Subscriptions = append(sub.Subscriptions, s)
	}

	c.log.Debug("Reconnected to mqtt. Re-sending subscriptions.")
	if _, err := c.manager.Subscribe(ctx, sub); err != nil {
		c.log.With(mplog.Error(err)).Error("Failed to re-subscribe to mqtt topics")
	}
}

func (c *Conn) WriteTopic(ctx context.Context, topic string, options mqtt.WriteOptions, payload []byte) error {
	c.log.With(slog.String("topic", topic), slog.Any("options", options), slog.String("payload", string(payload))).Debug("Publishing payload")

	_, err := c.manager.Publish(ctx, &paho.Publish{
		QoS:     uint8(options.QoS),
		Retain:  options.Retain,
		Topic:   topic,
		Payload: payload,
	})

	return err
}

func (c *Conn) Subscribe(ctx context.Context, handler mqtt.Handler, subscriptions ...mqtt.Subscription) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(subscriptions) == 0 {
		return nil
	}

	sub := &paho.Subscribe{
		Subscriptions: make([]paho.SubscribeOptions, len(subscriptions)),
	}

	for i, s := range subscriptions {
		opts := paho.SubscribeOptions{
			Topic:             s.Topic,
			QoS:               uint8(s.Options.QoS),
			RetainHandling:    uint8(s.Options.RetainHandling),
			NoLocal:           s.Options.NoLocal,
			RetainAsPublished: s.Options.RetainAsPublished,
		}

		c.subscriptions[s.Topic] = opts
		sub.Subscriptions[i] = opts

		c.router.RegisterHandler(s.Topic, func(publish *paho.Publish) {
			handler.ServeMQTT(c, publish.Topic, publish.Payload)
		})
	}

	c.log.With(slog.Any("subscriptions", subscriptions)).Debug("Subscribing to mqtt topic(s)")
	_, err := c.manager.Subscribe(ctx, sub)
	return err
}

func (c *Conn) Unsubscribe(ctx context.Context, topics ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range topics {
		delete(c.subscriptions, t)
	}

	c.log.With(slog.Any("topics", topics)).Debug("Unsubscribing from mqtt topic(s)")
	_, err := c.manager.Unsubscribe(ctx, &paho.Unsubscribe{
		Topics: topics,
	})

	return err
}
