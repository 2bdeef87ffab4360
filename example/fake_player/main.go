package main

import (
	"context"
	"encoding/json/v2"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"time"

	mediaplayer "github.com/douglampe/mqtt-media-player"
	"github.com/douglampe/mqtt-media-player/discovery"
	"github.com/douglampe/mqtt-media-player/hass"
	mplog "github.com/douglampe/mqtt-media-player/log"
	"github.com/douglampe/mqtt-media-player/mqtt"
	"github.com/douglampe/mqtt-media-player/player"
)

// defaultConfig is used when no config file is passed on the command line.
const defaultConfig = `
name: Fake Player
state_topic: mqtt-media-player/example/fake_player/state
command_topic: mqtt-media-player/example/fake_player/command
set_volume_topic: mqtt-media-player/example/fake_player/set_volume
send_command_topic: mqtt-media-player/example/fake_player/send_command
source_list:
  - HDMI 1
  - Radio
`

func main() {
	mplog.To(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	brokerURL, err := url.Parse("mqtt://0.0.0.0:1883")
	if err != nil {
		panic(err)
	}

	conn, status, err := configureMQTT(ctx, brokerURL)
	if err != nil {
		panic(err)
	}

	log := mplog.ForComponent("example")
	log.Info("Starting Up")

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		log.Info("Disconnecting from mqtt")
		if err := conn.Disconnect(shutdownCtx); err != nil {
			log.With(mplog.Error(err)).Error("Failed to disconnect from mqtt")
		}
	}()

	// Wait for Home Assistant to be available
	if err = status.AwaitAvailable(ctx); err != nil {
		panic(err)
	}

	log.Info("Home Assistant is now available")

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	p, err := player.New(cfg)
	if err != nil {
		panic(err)
	}

	p.OnStateWrite(func(changed []player.Attribute) {
		log.With(slog.Any("changed", changed), slog.Any("playback", p.Playback())).Info("Player state updated")
	})

	// Setup Discovery
	log.Info("Setting up device")
	c := mediaplayer.Component[*player.MediaPlayer]{
		Platform: p,

		Name:     p.Name(),
		UniqueID: "example.fake_player",

		DefaultEntityID: "media_player.fake_player",
		Icon:            "mdi:speaker",

		AvailabilityTopic: "mqtt-media-player/example/fake_player/available",

		WriteOptions: mqtt.WriteOptions{Retain: true},
	}
	if err = c.Subscribe(ctx, conn); err != nil {
		panic(err)
	}

	d := &mediaplayer.Device{
		Name:        "Example Device",
		Identifiers: []string{"mqtt-media-player/example/fake_player"},
	}

	// Pretend to be the appliance: acknowledge transport commands by
	// publishing the matching status back on the state topic.
	log.Info("Simulating the device firmware")
	simulator := mqtt.HandlerFunc(func(w mqtt.Writer, topic string, payload []byte) {
		var state string
		switch string(payload) {
		case "play":
			state = "playing"
		case "pause":
			state = "paused"
		case "stop":
			state = "off"
		default:
			return
		}

		encoded, err := json.Marshal(map[string]any{"state": state})
		if err != nil {
			panic(err)
		}

		if err := w.WriteTopic(ctx, cfg.StateTopic, mqtt.WriteOptions{}, encoded); err != nil {
			log.With(mplog.Error(err)).Error("Failed to publish simulated state")
		}
	})
	if err = conn.Subscribe(ctx, simulator, mqtt.Subscription{Topic: cfg.CommandTopic}); err != nil {
		panic(err)
	}

	components := map[string]json.MarshalerTo{
		c.UniqueID: &c,
	}

	rediscover := func() error {
		log.Info("Re-sending discovery info")
		return d.Configure(ctx, conn, discovery.DefaultPrefix, components)
	}

	republish := func() error {
		log.Info("Republishing availability")
		return c.PublishAvailability(ctx, conn, hass.Available)
	}

	log.Info("Watching Home Assistant state")
	status.Watch(func(availability hass.Availability) {
		log.With("availability", availability).Info("Home Assistant state changed")
		if availability == hass.Available {
			if err := errors.Join(rediscover(), republish()); err != nil {
				panic(err)
			}
		}
	})

	if err = errors.Join(rediscover(), republish()); err != nil {
		panic(err)
	}

	// Toggle playback so there is always something to watch in the frontend.
	go func() {
		playing := false

		t := time.NewTicker(15 * time.Second)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}

			var err error
			if playing {
				err = p.Pause(ctx, conn)
			} else {
				err = p.Play(ctx, conn)
			}

			if err != nil {
				log.With(mplog.Error(err)).Error("Failed to publish transport command")
				continue
			}

			playing = !playing
		}
	}()

	<-ctx.Done()
	log.Info("Goodbye!")
}

func loadConfig() (player.Config, error) {
	if len(os.Args) > 1 {
		return player.LoadConfig(os.Args[1])
	}

	return player.ParseConfig([]byte(defaultConfig))
}
