package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglampe/mqtt-media-player/hass"
)

func TestHomeAssistantStatus(t *testing.T) {
	t.Run("Default Prefix", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		assert.Equal(t, "homeassistant/status", sut.Subscription().Topic)
	})

	t.Run("Custom Prefix", func(t *testing.T) {
		sut := HomeAssistantStatus("custom/discovery")

		assert.Equal(t, "custom/discovery/status", sut.Subscription().Topic)
	})
}

func TestStatusWatcher(t *testing.T) {
	t.Run("Get Before First Message", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		_, ok := sut.Get()
		require.False(t, ok)
	})

	t.Run("Tracks Availability", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		sut.ServeMQTT(nil, "homeassistant/status", []byte(hass.Available))

		v, ok := sut.Get()
		require.True(t, ok)
		assert.Equal(t, hass.Available, v)

		sut.ServeMQTT(nil, "homeassistant/status", []byte(hass.Unavailable))

		v, ok = sut.Get()
		require.True(t, ok)
		assert.Equal(t, hass.Unavailable, v)
	})

	t.Run("Ignores Other Topics", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		sut.ServeMQTT(nil, "homeassistant/other", []byte(hass.Available))

		_, ok := sut.Get()
		require.False(t, ok)
	})

	t.Run("Notifies Watchers", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		var seen []hass.Availability
		sut.Watch(func(a hass.Availability) {
			seen = append(seen, a)
		})

		sut.ServeMQTT(nil, "homeassistant/status", []byte(hass.Available))
		sut.ServeMQTT(nil, "homeassistant/status", []byte(hass.Unavailable))

		assert.Equal(t, []hass.Availability{hass.Available, hass.Unavailable}, seen)
	})
}

func TestStatusWatcherAwaitAvailable(t *testing.T) {
	t.Run("Already Available", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)
		sut.ServeMQTT(nil, "homeassistant/status", []byte(hass.Available))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		require.NoError(t, sut.AwaitAvailable(ctx))
	})

	t.Run("Becomes Available", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		done := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			done <- sut.AwaitAvailable(ctx)
		}()

		// Let the waiter register its watcher before publishing.
		require.Eventually(t, func() bool {
			sut.mu.Lock()
			defer sut.mu.Unlock()

			return len(sut.watchers) > 0
		}, time.Second, 5*time.Millisecond)

		sut.ServeMQTT(nil, "homeassistant/status", []byte(hass.Available))

		require.NoError(t, <-done)
	})

	t.Run("Context Cancelled", func(t *testing.T) {
		sut := HomeAssistantStatus(DefaultPrefix)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.ErrorIs(t, sut.AwaitAvailable(ctx), context.Canceled)
	})
}
