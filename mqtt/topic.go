package mqtt

import "strings"

const TopicSeparator = "/"

// TrimTopic trims TopicSeparator from the start and end of the specified topic.
func TrimTopic(topic string) string {
	return strings.Trim(topic, TopicSeparator)
}

// JoinTopic joins the non-empty parts with TopicSeparator. Each part is
// trimmed first, so joining absolute and relative fragments never doubles a
// separator.
func JoinTopic(parts ...string) string {
	trimmed := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = TrimTopic(part); part != "" {
			trimmed = append(trimmed, part)
		}
	}

	return strings.Join(trimmed, TopicSeparator)
}
