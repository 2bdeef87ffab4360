// Package discovery contains constants and utilities for constructing Home
// Assistant MQTT device discovery payloads. Field names shared by every
// platform use the abbreviated forms from the Home Assistant abbreviation
// table to keep retained discovery payloads small; media player fields are
// spelled out in full because the platform is a custom component whose keys
// the table does not cover.
//
// See https://www.home-assistant.io/integrations/mqtt/#supported-abbreviations-in-mqtt-discovery-messages.
package discovery
