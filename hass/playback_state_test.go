package hass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaybackState(t *testing.T) {
	t.Run("Known States", func(t *testing.T) {
		for _, want := range []PlaybackState{PlaybackOn, PlaybackOff, PlaybackPlaying, PlaybackPaused} {
			t.Run(string(want), func(t *testing.T) {
				got, ok := ParsePlaybackState(string(want))

				require.True(t, ok)
				require.Equal(t, want, got)
			})
		}
	})

	t.Run("Outside Vocabulary", func(t *testing.T) {
		for _, s := range []string{"", "bogus", "unknown", "ON", "Playing"} {
			t.Run(s, func(t *testing.T) {
				got, ok := ParsePlaybackState(s)

				assert.False(t, ok)
				assert.Equal(t, PlaybackUnknown, got)
			})
		}
	})
}
