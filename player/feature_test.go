package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringsToFeatures(t *testing.T) {
	t.Run("Resolves Names", func(t *testing.T) {
		got, err := StringsToFeatures([]string{"play", "pause", "turn_on"})

		require.NoError(t, err)
		assert.True(t, got.Has(FeaturePlay))
		assert.True(t, got.Has(FeaturePause))
		assert.True(t, got.Has(FeatureTurnOn))
		assert.False(t, got.Has(FeatureStop))
	})

	t.Run("Duplicates Collapse", func(t *testing.T) {
		once, err := StringsToFeatures([]string{"play"})
		require.NoError(t, err)

		twice, err := StringsToFeatures([]string{"play", "play", "play"})
		require.NoError(t, err)

		require.Equal(t, once, twice)
	})

	t.Run("Order Irrelevant", func(t *testing.T) {
		a, err := StringsToFeatures([]string{"stop", "next_track", "volume_mute"})
		require.NoError(t, err)

		b, err := StringsToFeatures([]string{"volume_mute", "stop", "next_track"})
		require.NoError(t, err)

		require.Equal(t, a, b)
	})

	t.Run("Unknown Name", func(t *testing.T) {
		_, err := StringsToFeatures([]string{"play", "warp_speed"})

		require.ErrorIs(t, err, ErrUnknownFeature)
		require.ErrorContains(t, err, "warp_speed")
	})
}

func TestFeaturesRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name  string
		names []string
	}{
		{name: "Empty", names: []string{}},
		{name: "Single", names: []string{"pause"}},
		{name: "Defaults", names: FeaturesToStrings(DefaultFeatures)},
		{name: "Scattered", names: []string{"media_enqueue", "seek", "grouping", "turn_off"}},
		{name: "Duplicates", names: []string{"play", "stop", "play"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			first, err := StringsToFeatures(tt.names)
			require.NoError(t, err)

			again, err := StringsToFeatures(FeaturesToStrings(first))
			require.NoError(t, err)

			require.Equal(t, first, again)
		})
	}
}

func TestFeaturesToStrings(t *testing.T) {
	// Names come out in feature bit order regardless of how the set was
	// built, so round-trip serialization of a configuration is stable.
	features, err := StringsToFeatures([]string{"turn_off", "pause", "select_source"})
	require.NoError(t, err)

	require.Equal(t, []string{"pause", "turn_off", "select_source"}, FeaturesToStrings(features))
}

func TestFeatureString(t *testing.T) {
	assert.Equal(t, "pause", FeaturePause.String())
	assert.Equal(t, "send_command", FeatureSendCommand.String())
	assert.Equal(t, "feature(0x3)", (FeaturePause | FeatureSeek).String())
	assert.Equal(t, "feature(0x0)", Feature(0).String())
}
