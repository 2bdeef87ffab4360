package discovery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/douglampe/mqtt-media-player/hass"
	"github.com/douglampe/mqtt-media-player/log"
	"github.com/douglampe/mqtt-media-player/mqtt"
)

const (
	// DefaultPrefix is the MQTT topic prefix that Home Assistant looks for
	// discovery payloads under.
	DefaultPrefix = "homeassistant"
	// StatusTopic is the topic Home Assistant publishes its own
	// hass.Availability state to (birth and last-will messages).
	StatusTopic = "status"
)

// StatusWatcher tracks Home Assistant's availability from its birth/will
// topic. Watch it to re-send discovery payloads when Home Assistant restarts.
//
// See https://www.home-assistant.io/integrations/mqtt/#birth-and-last-will-messages.
type StatusWatcher struct {
	topic string

	mu sync.Mutex

	watchers []func(hass.Availability)

	v           hass.Availability
	initialized bool

	log *slog.Logger
}

// HomeAssistantStatus constructs a StatusWatcher for the status topic under
// the provided discovery prefix. Register it with a mqtt.Subscriber using
// StatusWatcher.Subscription.
func HomeAssistantStatus(discoveryPrefix string) *StatusWatcher {
	topic := mqtt.JoinTopic(discoveryPrefix, StatusTopic)

	return &StatusWatcher{
		topic: topic,

		log: log.ForComponent("discovery.status").With(slog.String("topic", topic)),
	}
}

// Subscription returns the subscription for the watched status topic.
func (s *StatusWatcher) Subscription() mqtt.Subscription {
	return mqtt.Subscription{Topic: s.topic}
}

// ServeMQTT implements mqtt.Handler by recording the availability payload and
// invoking watcher callbacks. Messages for other topics are ignored.
func (s *StatusWatcher) ServeMQTT(_ mqtt.Writer, topic string, payload []byte) {
	if topic != s.topic {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v, s.initialized = hass.Availability(payload), true

	s.log.With(slog.String("availability", string(s.v))).Debug("Home Assistant availability changed")
	for _, w := range s.watchers {
		w(s.v)
	}
}

// Get returns the most recent availability received. The second return value
// is false before the first message arrives.
func (s *StatusWatcher) Get() (hass.Availability, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.v, s.initialized
}

// Watch registers a callback invoked serially for every availability message.
// Watchers should not block; long operations belong in a new goroutine.
func (s *StatusWatcher) Watch(callback func(hass.Availability)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchers = append(s.watchers, callback)
}

// AwaitAvailable blocks until Home Assistant reports itself available, or the
// context is cancelled.
func (s *StatusWatcher) AwaitAvailable(ctx context.Context) error {
	done := make(chan struct{})
	var once sync.Once

	s.Watch(func(a hass.Availability) {
		if a == hass.Available {
			once.Do(func() { close(done) })
		}
	})

	if v, ok := s.Get(); ok && v == hass.Available {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
