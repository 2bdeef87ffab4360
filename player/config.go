package player

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/douglampe/mqtt-media-player/mqtt"
)

// DefaultName is the entity name used when the configuration does not set one.
const DefaultName = "MQTT Media Player"

// Supported values for Config.Encoding.
const (
	// EncodingUTF8 requires inbound status payloads to be valid UTF-8. This
	// is the default.
	EncodingUTF8 = "utf-8"
	// EncodingRaw disables payload encoding validation.
	EncodingRaw = "raw"
)

// Config describes one MQTT media player. Every topic is optional
// independently; leaving a topic unset disables the operations that publish
// or subscribe to it, regardless of the supported feature set.
type Config struct {
	// Name of the entity. Defaults to DefaultName.
	Name string `yaml:"name"`

	// StateTopic is the topic the device publishes JSON status objects to.
	StateTopic string `yaml:"state_topic"`
	// CommandTopic receives the payload strings for power, transport, and
	// source selection commands.
	CommandTopic string `yaml:"command_topic"`
	// SetVolumeTopic receives the volume_set payload.
	SetVolumeTopic string `yaml:"set_volume_topic"`
	// SendCommandTopic receives free-form commands from SendCommand.
	SendCommandTopic string `yaml:"send_command_topic"`

	// SupportedFeatures lists enabled feature names. Nil means
	// DefaultFeatures; an explicit empty list means no features.
	SupportedFeatures []string `yaml:"supported_features"`

	// SourceList names the input sources SelectSource accepts.
	SourceList []string `yaml:"source_list"`

	// Payloads overrides the built-in payload table, keyed by feature name.
	Payloads map[string]string `yaml:"payloads"`

	// QoS and Retain apply to every publish. Retain defaults to disabled.
	QoS    mqtt.QualityOfService `yaml:"qos"`
	Retain bool                  `yaml:"retain"`

	// Encoding of inbound payloads, EncodingUTF8 or EncodingRaw. Defaults to
	// EncodingUTF8.
	Encoding string `yaml:"encoding"`
}

// LoadConfig reads and parses a YAML config file. The result is not validated
// here; New performs validation once at construction.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
