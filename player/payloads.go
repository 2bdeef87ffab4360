package player

import "fmt"

// Payloads maps features to the wire payload published when that feature's
// command is invoked. A feature may intentionally have no payload; invoking it
// is then a no-op.
type Payloads map[Feature]string

// defaultPayloads is the built-in payload table. It is process-wide static
// data; NewPayloads copies it so instances never share mutable state.
var defaultPayloads = Payloads{
	FeaturePause:         "pause",
	FeaturePreviousTrack: "previous",
	FeatureNextTrack:     "next",
	FeatureStop:          "stop",
	FeatureClearPlaylist: "clear_playlist",
	FeaturePlay:          "play",
	FeatureBrowseMedia:   "browse",
	FeatureMediaAnnounce: "media_announce",
}

// NewPayloads merges the built-in default payload table with the provided
// overrides, with overrides winning. It fails with an error wrapping
// ErrUnknownFeature if an override is keyed by anything other than a single
// known feature bit.
func NewPayloads(overrides map[Feature]string) (Payloads, error) {
	result := make(Payloads, len(defaultPayloads)+len(overrides))
	for feature, payload := range defaultPayloads {
		result[feature] = payload
	}

	for feature, payload := range overrides {
		if _, ok := feature.name(); !ok {
			return nil, fmt.Errorf("payload override: %w: %s", ErrUnknownFeature, feature)
		}
		result[feature] = payload
	}

	return result, nil
}

// For looks up the payload for the specified feature. The second return value
// is false for features with no configured payload.
func (p Payloads) For(feature Feature) (string, bool) {
	payload, ok := p[feature]
	return payload, ok
}
