// Package player implements an MQTT-backed media player: a feature/payload
// registry describing what the player can do, and a state adapter that decodes
// status messages from the device and publishes command payloads back to it.
package player

import (
	"errors"
	"fmt"
	"math/bits"
)

// Feature identifies one controllable or observable capability of a media
// player (pause, volume-set, source selection, ...). Features are bit flags so
// the set of enabled features for a player fits in a single Features value.
type Feature uint32

const (
	FeaturePause Feature = 1 << iota
	FeatureSeek
	FeatureVolumeSet
	FeatureVolumeMute
	FeaturePreviousTrack
	FeatureNextTrack
	FeatureTurnOn
	FeatureTurnOff
	FeaturePlayMedia
	FeatureVolumeStep
	FeatureSelectSource
	FeatureStop
	FeatureClearPlaylist
	FeaturePlay
	FeatureShuffleSet
	FeatureSelectSoundMode
	FeatureBrowseMedia
	FeatureRepeatSet
	FeatureGrouping
	FeatureMediaAnnounce
	FeatureMediaEnqueue
	FeatureSendCommand
)

// Features is the set of features enabled for one media player.
type Features uint32

// DefaultFeatures is the feature set used when the configuration does not
// list supported features explicitly.
const DefaultFeatures = Features(FeatureTurnOn | FeatureTurnOff | FeaturePlay | FeaturePause |
	FeatureStop | FeatureVolumeSet | FeatureVolumeMute | FeatureSelectSource)

// ErrUnknownFeature is the error returned when a configuration names a feature
// that is not part of the fixed feature table.
var ErrUnknownFeature = errors.New("unknown media player feature")

// featureNames maps each feature bit to its configuration string. The slice is
// in bit order so FeaturesToStrings produces a stable ordering.
var featureNames = []struct {
	feature Feature
	name    string
}{
	{FeaturePause, "pause"},
	{FeatureSeek, "seek"},
	{FeatureVolumeSet, "volume_set"},
	{FeatureVolumeMute, "volume_mute"},
	{FeaturePreviousTrack, "previous_track"},
	{FeatureNextTrack, "next_track"},
	{FeatureTurnOn, "turn_on"},
	{FeatureTurnOff, "turn_off"},
	{FeaturePlayMedia, "play_media"},
	{FeatureVolumeStep, "volume_step"},
	{FeatureSelectSource, "select_source"},
	{FeatureStop, "stop"},
	{FeatureClearPlaylist, "clear_playlist"},
	{FeaturePlay, "play"},
	{FeatureShuffleSet, "shuffle_set"},
	{FeatureSelectSoundMode, "select_sound_mode"},
	{FeatureBrowseMedia, "browse_media"},
	{FeatureRepeatSet, "repeat_set"},
	{FeatureGrouping, "grouping"},
	{FeatureMediaAnnounce, "media_announce"},
	{FeatureMediaEnqueue, "media_enqueue"},
	{FeatureSendCommand, "send_command"},
}

var nameToFeature = func() map[string]Feature {
	m := make(map[string]Feature, len(featureNames))
	for _, fn := range featureNames {
		m[fn.name] = fn.feature
	}
	return m
}()

// name returns the configuration string for a single feature bit. ok is false
// for values that are not exactly one known bit.
func (f Feature) name() (string, bool) {
	if bits.OnesCount32(uint32(f)) != 1 {
		return "", false
	}

	for _, fn := range featureNames {
		if fn.feature == f {
			return fn.name, true
		}
	}

	return "", false
}

// String returns the configuration string for this feature, or a hex
// representation for values outside the feature table.
func (f Feature) String() string {
	if name, ok := f.name(); ok {
		return name
	}

	return fmt.Sprintf("feature(%#x)", uint32(f))
}

// Has reports whether the specified feature bit is enabled in this set.
func (f Features) Has(feature Feature) bool {
	return Feature(f)&feature != 0
}

// StringsToFeatures resolves configuration strings to the feature set they
// name. Input order is irrelevant and duplicates collapse. It fails with an
// error wrapping ErrUnknownFeature naming the first unrecognized string.
func StringsToFeatures(names []string) (Features, error) {
	var result Features

	for _, name := range names {
		feature, ok := nameToFeature[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}
		result |= Features(feature)
	}

	return result, nil
}

// FeaturesToStrings is the inverse of StringsToFeatures. Names are produced in
// feature bit order, so converting the result back always yields the same set.
func FeaturesToStrings(features Features) []string {
	var result []string

	for _, fn := range featureNames {
		if features.Has(fn.feature) {
			result = append(result, fn.name)
		}
	}

	return result
}
