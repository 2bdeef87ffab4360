package player

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/douglampe/mqtt-media-player/hass"
	"github.com/douglampe/mqtt-media-player/log"
	"github.com/douglampe/mqtt-media-player/mqtt"
)

// ErrUnknownSource is the error returned by MediaPlayer.SelectSource for a
// source that is not in the configured source list.
var ErrUnknownSource = fmt.Errorf("unknown input source")

// StateWriteFunc is invoked when the host should persist or re-render entity
// state. changed lists the attributes recomputed by an inbound status update;
// it is empty when a successful command publish requests the write.
type StateWriteFunc func(changed []Attribute)

// MediaPlayer bridges a network-attached media player and MQTT. It owns the
// device's live State, decodes JSON status payloads received on the state
// topic, and publishes configured payload strings to the command topics when
// features are invoked.
//
// A MediaPlayer is an mqtt.Handler for its state topic; the inbound and
// outbound paths may run on different goroutines, so State access is guarded
// by a single mutex.
type MediaPlayer struct {
	name     string
	features Features
	payloads Payloads
	sources  []string

	stateTopic       string
	commandTopic     string
	setVolumeTopic   string
	sendCommandTopic string

	writeOpts mqtt.WriteOptions
	readOpts  mqtt.ReadOptions
	encoding  string

	notify StateWriteFunc

	mu    sync.Mutex
	state State

	log *slog.Logger
}

// New validates the provided Config and constructs a MediaPlayer from it.
// Configuration errors (an unknown feature name in SupportedFeatures or
// Payloads, an unknown encoding) are fatal to setup: no player is returned.
func New(cfg Config) (*MediaPlayer, error) {
	features := DefaultFeatures
	if cfg.SupportedFeatures != nil {
		f, err := StringsToFeatures(cfg.SupportedFeatures)
		if err != nil {
			return nil, fmt.Errorf("supported_features: %w", err)
		}
		features = f
	}

	overrides := make(map[Feature]string, len(cfg.Payloads))
	for name, payload := range cfg.Payloads {
		feature, ok := nameToFeature[name]
		if !ok {
			return nil, fmt.Errorf("payloads: %w: %q", ErrUnknownFeature, name)
		}
		overrides[feature] = payload
	}

	payloads, err := NewPayloads(overrides)
	if err != nil {
		return nil, err
	}

	encoding := cfg.Encoding
	switch encoding {
	case "":
		encoding = EncodingUTF8
	case EncodingUTF8, EncodingRaw:
	default:
		return nil, fmt.Errorf("unknown encoding: %q", cfg.Encoding)
	}

	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	return &MediaPlayer{
		name:     name,
		features: features,
		payloads: payloads,
		sources:  slices.Clone(cfg.SourceList),

		stateTopic:       cfg.StateTopic,
		commandTopic:     cfg.CommandTopic,
		setVolumeTopic:   cfg.SetVolumeTopic,
		sendCommandTopic: cfg.SendCommandTopic,

		writeOpts: mqtt.WriteOptions{QoS: cfg.QoS, Retain: cfg.Retain},
		readOpts:  mqtt.ReadOptions{QoS: cfg.QoS},
		encoding:  encoding,

		state: State{Playback: hass.PlaybackUnknown},

		log: log.ForComponent("player").With(slog.String("name", name)),
	}, nil
}

// OnStateWrite registers the host callback invoked after state changes and
// successful command publishes. Register before subscribing; the callback is
// not guarded by the state mutex and must not be swapped while messages flow.
func (m *MediaPlayer) OnStateWrite(fn StateWriteFunc) {
	m.notify = fn
}

// PlatformName returns the Home Assistant platform name for this entity.
func (m *MediaPlayer) PlatformName() string {
	return "media_player"
}

// Subscriptions returns the subscription for the state topic, if one is
// configured.
func (m *MediaPlayer) Subscriptions() []mqtt.Subscription {
	if m.stateTopic == "" {
		return nil
	}

	return []mqtt.Subscription{{Topic: m.stateTopic, Options: m.readOpts}}
}

// ServeMQTT implements mqtt.Handler by decoding status payloads received on
// the state topic. Messages for other topics are ignored.
func (m *MediaPlayer) ServeMQTT(_ mqtt.Writer, topic string, payload []byte) {
	if topic != m.stateTopic {
		return
	}

	m.HandleStatus(payload)
}

// HandleStatus merges one status payload into the player's State. The payload
// must be a JSON object; anything else is dropped and logged without mutating
// state. A "state" key moves the playback axis through the closed vocabulary
// (JSON null resets it to unknown); a state value outside the vocabulary is a
// protocol violation and is dropped, but the rest of the payload is still
// processed. Remaining keys merge into Extras with overwrite semantics, then
// fan speed and battery level are recomputed. The state-write callback fires
// with the set of changed attributes, if any changed.
func (m *MediaPlayer) HandleStatus(payload []byte) {
	if m.encoding == EncodingUTF8 && !utf8.Valid(payload) {
		m.log.Warn("Dropping status payload that is not valid UTF-8")
		return
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		m.log.With(log.Error(err)).Warn("Dropping undecodable status payload")
		return
	}

	if decoded == nil {
		m.log.Warn("Dropping status payload that is not a JSON object")
		return
	}

	m.mu.Lock()
	var changed []Attribute

	if raw, ok := decoded[keyState]; ok {
		if playback, ok := decodePlayback(raw); ok {
			if playback != m.state.Playback {
				m.state.Playback = playback
				changed = append(changed, AttrState)
			}
		} else {
			m.log.With(slog.Any("value", raw)).Warn("Ignoring state value outside the playback vocabulary")
		}

		// The state key never reaches Extras, valid or not.
		delete(decoded, keyState)
	}

	if m.state.Extras == nil {
		m.state.Extras = make(map[string]any, len(decoded))
	}
	for k, v := range decoded {
		m.state.Extras[k] = v
	}

	if fanSpeed := number(m.state.Extras[keyFanSpeed]); fanSpeed != m.state.FanSpeed {
		m.state.FanSpeed = fanSpeed
		changed = append(changed, AttrFanSpeed)
	}

	if battery := clamp(int(number(m.state.Extras[keyBattery])), 0, 100); battery != m.state.Battery {
		m.state.Battery = battery
		changed = append(changed, AttrBattery)
	}
	m.mu.Unlock()

	if len(changed) > 0 && m.notify != nil {
		m.notify(changed)
	}
}

// decodePlayback maps the raw state field value through the closed playback
// vocabulary. JSON null means the device no longer knows its state.
func decodePlayback(raw any) (hass.PlaybackState, bool) {
	switch v := raw.(type) {
	case nil:
		return hass.PlaybackUnknown, true
	case string:
		return hass.ParsePlaybackState(v)
	default:
		return hass.PlaybackUnknown, false
	}
}

// publishTopics routes each feature to the topic its payload is published on.
// Dispatch stays data-driven: a new feature gets a row here, not a branch.
var publishTopics = map[Feature]func(*MediaPlayer) string{
	FeaturePause:           commandTopic,
	FeatureSeek:            commandTopic,
	FeatureVolumeSet:       setVolumeTopic,
	FeatureVolumeMute:      commandTopic,
	FeaturePreviousTrack:   commandTopic,
	FeatureNextTrack:       commandTopic,
	FeatureTurnOn:          commandTopic,
	FeatureTurnOff:         commandTopic,
	FeaturePlayMedia:       commandTopic,
	FeatureVolumeStep:      commandTopic,
	FeatureSelectSource:    commandTopic,
	FeatureStop:            commandTopic,
	FeatureClearPlaylist:   commandTopic,
	FeaturePlay:            commandTopic,
	FeatureShuffleSet:      commandTopic,
	FeatureSelectSoundMode: commandTopic,
	FeatureBrowseMedia:     commandTopic,
	FeatureRepeatSet:       commandTopic,
	FeatureGrouping:        commandTopic,
	FeatureMediaAnnounce:   commandTopic,
	FeatureMediaEnqueue:    commandTopic,
	FeatureSendCommand:     sendCommandTopic,
}

func commandTopic(m *MediaPlayer) string     { return m.commandTopic }
func setVolumeTopic(m *MediaPlayer) string   { return m.setVolumeTopic }
func sendCommandTopic(m *MediaPlayer) string { return m.sendCommandTopic }

// Invoke publishes the configured payload for the specified feature to its
// routed topic. It is a silent no-op when the topic is unconfigured or the
// feature has no payload: the capability is simply not wired, which is not a
// failure. After a successful publish the host state-write callback fires so
// the host's cached representation reflects that a command was issued.
func (m *MediaPlayer) Invoke(ctx context.Context, w mqtt.Writer, feature Feature) error {
	topicFor, ok := publishTopics[feature]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFeature, feature)
	}

	topic := topicFor(m)
	if topic == "" {
		return nil
	}

	payload, ok := m.payloads.For(feature)
	if !ok {
		m.log.With(slog.Any("feature", feature.String())).Debug("No payload configured, skipping publish")
		return nil
	}

	if err := w.WriteTopic(ctx, topic, m.writeOpts, []byte(payload)); err != nil {
		return fmt.Errorf("publish %s: %w", feature, err)
	}

	m.requestStateWrite()
	return nil
}

func (m *MediaPlayer) requestStateWrite() {
	if m.notify != nil {
		m.notify(nil)
	}
}

// TurnOn publishes the turn_on payload to the command topic.
func (m *MediaPlayer) TurnOn(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureTurnOn)
}

// TurnOff publishes the turn_off payload to the command topic.
func (m *MediaPlayer) TurnOff(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureTurnOff)
}

// Play publishes the play payload to the command topic.
func (m *MediaPlayer) Play(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeaturePlay)
}

// Pause publishes the pause payload to the command topic.
func (m *MediaPlayer) Pause(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeaturePause)
}

// Stop publishes the stop payload to the command topic.
func (m *MediaPlayer) Stop(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureStop)
}

// PreviousTrack publishes the previous_track payload to the command topic.
func (m *MediaPlayer) PreviousTrack(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeaturePreviousTrack)
}

// NextTrack publishes the next_track payload to the command topic.
func (m *MediaPlayer) NextTrack(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureNextTrack)
}

// ClearPlaylist publishes the clear_playlist payload to the command topic.
func (m *MediaPlayer) ClearPlaylist(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureClearPlaylist)
}

// Seek publishes the seek payload to the command topic. The position argument
// is not transmitted: only the configured payload string goes out. This
// mirrors the long-standing wire behavior; devices that need the position
// should use SendCommand.
func (m *MediaPlayer) Seek(ctx context.Context, w mqtt.Writer, position float64) error {
	return m.Invoke(ctx, w, FeatureSeek)
}

// SetVolume publishes the volume_set payload to the set-volume topic. Note
// that the level argument is not transmitted: the configured payload string
// is published as-is regardless of the requested level, preserving the
// established wire behavior.
func (m *MediaPlayer) SetVolume(ctx context.Context, w mqtt.Writer, level float64) error {
	return m.Invoke(ctx, w, FeatureVolumeSet)
}

// Mute publishes the volume_mute payload to the command topic. The same
// payload is published for both mute and unmute: the configuration has a
// single volume_mute payload, so the boolean only exists for interface
// symmetry with hosts that track mute state themselves.
func (m *MediaPlayer) Mute(ctx context.Context, w mqtt.Writer, mute bool) error {
	return m.Invoke(ctx, w, FeatureVolumeMute)
}

// VolumeUp publishes the volume_step payload to the command topic.
func (m *MediaPlayer) VolumeUp(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureVolumeStep)
}

// VolumeDown publishes the volume_step payload to the command topic.
func (m *MediaPlayer) VolumeDown(ctx context.Context, w mqtt.Writer) error {
	return m.Invoke(ctx, w, FeatureVolumeStep)
}

// PlayMedia publishes the play_media payload to the command topic. Like Seek
// and SetVolume, the media type and id arguments are not transmitted.
func (m *MediaPlayer) PlayMedia(ctx context.Context, w mqtt.Writer, mediaType, mediaID string) error {
	return m.Invoke(ctx, w, FeaturePlayMedia)
}

// SelectSource publishes the select_source payload to the command topic after
// validating that source is a member of the configured source list. It
// returns an error wrapping ErrUnknownSource, and publishes nothing, for any
// other source.
func (m *MediaPlayer) SelectSource(ctx context.Context, w mqtt.Writer, source string) error {
	if !slices.Contains(m.sources, source) {
		return fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	return m.Invoke(ctx, w, FeatureSelectSource)
}

// SendCommand publishes a free-form command to the send-command topic. With
// nil params the raw command string is published; otherwise the payload is a
// JSON object holding the command under "command" with the params merged in
// (params win on a key collision). SendCommand is a no-op unless both the
// send-command topic is configured and FeatureSendCommand is enabled. Unlike
// the fixed-payload commands it does not request a host state write.
func (m *MediaPlayer) SendCommand(ctx context.Context, w mqtt.Writer, command string, params map[string]any) error {
	if m.sendCommandTopic == "" || !m.features.Has(FeatureSendCommand) {
		return nil
	}

	payload := []byte(command)
	if params != nil {
		message := make(map[string]any, len(params)+1)
		message["command"] = command
		for k, v := range params {
			message[k] = v
		}

		encoded, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("send command: %w", err)
		}
		payload = encoded
	}

	if err := w.WriteTopic(ctx, m.sendCommandTopic, m.writeOpts, payload); err != nil {
		return fmt.Errorf("publish send_command: %w", err)
	}

	return nil
}

// Name returns the configured entity name.
func (m *MediaPlayer) Name() string {
	return m.name
}

// Features returns the enabled feature set.
func (m *MediaPlayer) Features() Features {
	return m.features
}

// Sources returns a copy of the configured source list.
func (m *MediaPlayer) Sources() []string {
	return slices.Clone(m.sources)
}

// State returns a copy of the device's current state.
func (m *MediaPlayer) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.clone()
}

// Playback returns the current playback status.
func (m *MediaPlayer) Playback() hass.PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Playback
}

// FanSpeed returns the current fan speed metric.
func (m *MediaPlayer) FanSpeed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.FanSpeed
}

// Battery returns the current battery level, clamped to [0,100].
func (m *MediaPlayer) Battery() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Battery
}
