package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayloads(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		sut, err := NewPayloads(nil)
		require.NoError(t, err)

		for feature, want := range map[Feature]string{
			FeaturePause:         "pause",
			FeaturePreviousTrack: "previous",
			FeatureNextTrack:     "next",
			FeatureStop:          "stop",
			FeatureClearPlaylist: "clear_playlist",
			FeaturePlay:          "play",
			FeatureBrowseMedia:   "browse",
			FeatureMediaAnnounce: "media_announce",
		} {
			got, ok := sut.For(feature)

			require.True(t, ok, feature.String())
			require.Equal(t, want, got)
		}
	})

	t.Run("Override Wins", func(t *testing.T) {
		sut, err := NewPayloads(map[Feature]string{
			FeaturePlay:   "PLAY",
			FeatureTurnOn: "ON",
		})
		require.NoError(t, err)

		got, ok := sut.For(FeaturePlay)
		require.True(t, ok)
		assert.Equal(t, "PLAY", got)

		got, ok = sut.For(FeatureTurnOn)
		require.True(t, ok)
		assert.Equal(t, "ON", got)

		// Defaults not overridden stay in place.
		got, ok = sut.For(FeatureStop)
		require.True(t, ok)
		assert.Equal(t, "stop", got)
	})

	t.Run("Unknown Feature", func(t *testing.T) {
		for feature, label := range map[Feature]string{
			Feature(1 << 30):           "unassigned bit",
			FeaturePlay | FeaturePause: "multiple bits",
			Feature(0):                 "zero",
		} {
			t.Run(label, func(t *testing.T) {
				_, err := NewPayloads(map[Feature]string{feature: "x"})

				require.ErrorIs(t, err, ErrUnknownFeature)
			})
		}
	})

	t.Run("Does Not Share Defaults", func(t *testing.T) {
		a, err := NewPayloads(map[Feature]string{FeaturePlay: "custom"})
		require.NoError(t, err)

		b, err := NewPayloads(nil)
		require.NoError(t, err)

		got, ok := b.For(FeaturePlay)
		require.True(t, ok)
		require.Equal(t, "play", got)

		got, ok = a.For(FeaturePlay)
		require.True(t, ok)
		require.Equal(t, "custom", got)
	})
}

func TestPayloadsFor(t *testing.T) {
	sut, err := NewPayloads(nil)
	require.NoError(t, err)

	// Absent is a valid outcome: turn_on has no built-in payload.
	_, ok := sut.For(FeatureTurnOn)
	require.False(t, ok)
}
