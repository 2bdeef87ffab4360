package player

import "github.com/douglampe/mqtt-media-player/hass"

// Recognized top-level keys in status payloads.
const (
	keyState    = "state"
	keyFanSpeed = "fan_speed"
	keyBattery  = "battery_level"
)

// Attribute identifies an entity attribute recomputed from inbound status
// payloads. The state-write callback reports which of them changed.
type Attribute string

const (
	AttrState    Attribute = keyState
	AttrFanSpeed Attribute = keyFanSpeed
	AttrBattery  Attribute = keyBattery
)

// State is the live view of the remote device. It is created empty when the
// player is constructed and mutated only by inbound status messages: new keys
// overwrite, keys absent from a payload persist.
type State struct {
	// Playback is the playback status axis. It only moves when a status
	// payload carries a state field with a value from the closed vocabulary.
	Playback hass.PlaybackState

	// FanSpeed mirrors the "fan_speed" extra, defaulting to 0 when absent.
	FanSpeed float64

	// Battery mirrors the "battery_level" extra, clamped to [0,100].
	Battery int

	// Extras holds every status payload key except "state", carried through
	// verbatim for the host to render or persist. FanSpeed and Battery are
	// derived from their Extras entries.
	Extras map[string]any
}

// clone returns a copy of the state safe to hand to callers while the
// original keeps being mutated by inbound messages.
func (s State) clone() State {
	out := s
	if s.Extras != nil {
		out.Extras = make(map[string]any, len(s.Extras))
		for k, v := range s.Extras {
			out.Extras[k] = v
		}
	}

	return out
}

// number coerces a decoded JSON value to a float64, returning 0 for anything
// that is not a number.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
