package discovery

import (
	"strings"

	"github.com/douglampe/mqtt-media-player/mqtt"
)

// Constants for device fields and other fields shared by all platforms.
const (
	FieldDevice           = "dev"
	FieldOrigin           = "o"
	FieldComponents       = "cmps"
	FieldPlatform         = "p"
	FieldEntityCategory   = "ent_cat"
	FieldIcon             = "ic"
	FieldPicture          = "picture"
	FieldDefaultEntityID  = "def_ent_id"
	FieldUniqueID         = "uniq_id"
	FieldQualityOfService = "qos"
	FieldRetain           = "ret"

	FieldAvailabilityTopic   = "avty_t"
	FieldPayloadAvailable    = "pl_avail"
	FieldPayloadNotAvailable = "pl_not_avail"

	// IDSep separates the parts of a generated device ID. It doubles as the
	// replacement for tokens that are not allowed in an ID string.
	IDSep = "__"
)

// IDSanitizer is a strings.Replacer that makes a device ID safe for use in an
// MQTT topic.
var IDSanitizer = strings.NewReplacer(
	" ", IDSep,
	":", IDSep,
	".", IDSep,
	"!", IDSep,
	"?", IDSep,
	mqtt.TopicSeparator, IDSep,
)
