package hass

// PlaybackState is the playback status axis of a media player entity. The
// vocabulary is closed: devices report one of the four literal states below,
// or an explicit null to indicate the state is unknown. Anything else is a
// protocol violation and must not be accepted as a new state.
type PlaybackState string

const (
	PlaybackOn      PlaybackState = "on"
	PlaybackOff     PlaybackState = "off"
	PlaybackPlaying PlaybackState = "playing"
	PlaybackPaused  PlaybackState = "paused"

	// PlaybackUnknown is the state of a player before its first status
	// message and after a device reports a null state. It is never a valid
	// wire value.
	PlaybackUnknown PlaybackState = "unknown"
)

// ParsePlaybackState maps a wire value to its PlaybackState. The second return
// value is false for values outside the closed vocabulary, including the
// empty string and "unknown".
func ParsePlaybackState(s string) (PlaybackState, bool) {
	switch state := PlaybackState(s); state {
	case PlaybackOn, PlaybackOff, PlaybackPlaying, PlaybackPaused:
		return state, true
	default:
		return PlaybackUnknown, false
	}
}
