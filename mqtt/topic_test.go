package mqtt

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrimTopic(t *testing.T) {
	for _, tt := range []struct {
		topic string
		want  string
	}{
		{topic: "", want: ""},
		{topic: "/", want: ""},
		{topic: "/media", want: "media"},
		{topic: "media/", want: "media"},
		{topic: "/media/", want: "media"},
		{topic: "/media/player", want: "media/player"},
		{topic: "media/player/", want: "media/player"},
		{topic: "media/player", want: "media/player"},
		{topic: "/media/player/", want: "media/player"},
	} {
		t.Run(tt.topic, func(t *testing.T) {
			require.Equal(t, tt.want, TrimTopic(tt.topic))
		})
	}
}

func TestJoinTopic(t *testing.T) {
	for i, tt := range []struct {
		parts []string
		want  string
	}{
		// JoinTopic should drop empty parts
		{parts: []string{""}, want: ""},
		{parts: []string{"", ""}, want: ""},
		{parts: []string{"", "media"}, want: "media"},
		{parts: []string{"media", ""}, want: "media"},
		{parts: []string{"", "media", "", "state"}, want: "media/state"},

		// JoinTopic should trim each individual part
		{parts: []string{"media", "/", "state"}, want: "media/state"},
		{parts: []string{"/media", "state"}, want: "media/state"},
		{parts: []string{"media/", "state"}, want: "media/state"},
		{parts: []string{"/media/", "state"}, want: "media/state"},
		{parts: []string{"/media/player", "state"}, want: "media/player/state"},
		{parts: []string{"media/player/", "state"}, want: "media/player/state"},
		{parts: []string{"media/player", "state"}, want: "media/player/state"},
		{parts: []string{"/media/player/", "state"}, want: "media/player/state"},
	} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			require.Equal(t, tt.want, JoinTopic(tt.parts...))
		})
	}
}
