package discovery

// Fields for the media_player platform, spelled out in full (see the package
// doc). Topics here are configured absolute, never relative to a prefix: the
// device firmware owns its topic layout and the discovery payload repeats it
// verbatim.
const (
	FieldSchema           = "schema"
	FieldStateTopic       = "state_topic"
	FieldCommandTopic     = "command_topic"
	FieldSetVolumeTopic   = "set_volume_topic"
	FieldSendCommandTopic = "send_command_topic"

	FieldSourceList        = "source_list"
	FieldSupportedFeatures = "supported_features"

	// PayloadFieldPrefix prefixes per-feature payload override fields, e.g.
	// "payload_turn_on".
	PayloadFieldPrefix = "payload_"

	// SchemaState is the media player schema implemented by this module.
	SchemaState = "state"
)
