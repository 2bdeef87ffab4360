package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/douglampe/mqtt-media-player/discovery"
	mplog "github.com/douglampe/mqtt-media-player/log"
	adapter "github.com/douglampe/mqtt-media-player/mqtt/adapter/autopaho"
)

func configureMQTT(ctx context.Context, brokerURL *url.URL) (*adapter.Conn, *discovery.StatusWatcher, error) {
	log := mplog.ForComponent("mqtt")

	mqttConfig := autopaho.ClientConfig{
		ServerUrls: []*url.URL{brokerURL},
		KeepAlive:  20,

		// SessionExpiryInterval - Seconds that a session will survive after disconnection. It is important to set this
		// because otherwise, any queued messages will be lost if the connection drops and the server will not queue
		// messages while it is down. The specific setting will depend upon your needs (60 = 1 minute, 3600 = 1 hour,
		// 86400 = one day, 0xFFFFFFFE = 136 years, 0xFFFFFFFF = don't expire)
		SessionExpiryInterval: 60,

		OnConnectionUp: func(cm *autopaho.ConnectionManager, connAck *paho.Connack) {
			log.Info("mqtt connected")
		},
		OnConnectError: func(err error) {
			slog.With(mplog.Error(err)).Error("mqtt connection error")
		},

		ClientConfig: paho.ClientConfig{
			ClientID: "mqtt-media-player:example:fake_player",
			OnClientError: func(err error) {
				log.With(mplog.Error(err)).Error("mqtt client error")
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				log := log.With(slog.Int("reason", int(d.ReasonCode)))

				if d.Properties != nil {
					log = log.With(
						slog.Group(
							"properties",
							slog.String("reference", d.Properties.ServerReference),
							slog.String("reason", d.Properties.ReasonString),
							slog.Any("user", d.Properties.User),
						),
					)
				}

				log.Warn("Disconnected from server")
			},
		},
	}

	log.With(slog.String("broker", brokerURL.String())).Info("Connecting to mqtt")
	conn, err := adapter.Dial(ctx, mqttConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("mqtt: connect: %w", err)
	}

	log.With(slog.String("broker", brokerURL.String())).Info("Connected to mqtt")

	status := discovery.HomeAssistantStatus(discovery.DefaultPrefix)
	if err = conn.Subscribe(ctx, status, status.Subscription()); err != nil {
		return nil, nil, fmt.Errorf("subscribe to home assistant status: %w", err)
	}

	return conn, status, nil
}
