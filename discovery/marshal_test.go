package discovery

import (
	"bytes"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardEncoder() *jsontext.Encoder {
	return jsontext.NewEncoder(io.Discard)
}

func capturingEncoder() (*jsontext.Encoder, *bytes.Buffer) {
	b := &bytes.Buffer{}
	return jsontext.NewEncoder(
		b,
		jsontext.AllowDuplicateNames(false),
		jsontext.AllowInvalidUTF8(false),
		jsontext.SpaceAfterComma(false),
		jsontext.SpaceAfterColon(false),
		jsontext.Multiline(false),
	), b
}

func TestDefaultMarshalers(t *testing.T) {
	t.Run("URL as string", func(t *testing.T) {
		e, b := capturingEncoder()

		u, err := url.Parse("http://example.com")
		require.NoError(t, err)

		require.NoError(t, json.MarshalEncode(e, map[string]*url.URL{"sut": u}, json.WithMarshalers(Marshalers)))

		assert.Equal(t, `{"sut":"http://example.com"}`, strings.TrimSpace(b.String()))
	})
}

func TestMarshalRequiredTopic(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		require.ErrorIs(
			t,
			MarshalRequiredTopic("sut", discardEncoder(), "", ""),
			ErrTopicRequired,
		)
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MarshalRequiredTopic("", e, "state_topic", "theater/av/state"))
		require.EqualValues(t, "\"state_topic\"\n\"theater/av/state\"\n", b.String())
	})
}

func TestMaybeMarshalTopic(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalTopic(e, "", ""))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalTopic(e, "command_topic", "theater/av/cmd"))
		require.EqualValues(t, "\"command_topic\"\n\"theater/av/cmd\"\n", b.String())
	})
}

func TestMarshalStd(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		e, b := capturingEncoder()

		require.ErrorIs(
			t,
			MarshalStd[int]("sut", e, "foo", nil),
			ErrValueRequired,
		)
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		v := 123
		require.NoError(t, MarshalStd[int]("sut", e, "foo", &v))
		require.EqualValues(t, `"foo"
123
`, b.String())
	})
}

func TestMaybeMarshalStd(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStd[int](e, "foo", nil))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		v := 123
		require.NoError(t, MaybeMarshalStd[int](e, "foo", &v))
		require.EqualValues(t, `"foo"
123
`, b.String())
	})
}

func TestMaybeMarshalStdSlice(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		t.Run("no elements", func(t *testing.T) {
			e, b := capturingEncoder()

			require.NoError(t, MaybeMarshalStdSlice[string](e, "source_list", []string{}))
			require.Empty(t, b.Bytes())
		})

		t.Run("nil", func(t *testing.T) {
			e, b := capturingEncoder()

			require.NoError(t, MaybeMarshalStdSlice[string](e, "source_list", nil))
			require.Empty(t, b.Bytes())
		})
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdSlice(e, "source_list", []string{"HDMI 1", "Radio"}))
		require.EqualValues(t, `"source_list"
["HDMI 1","Radio"]
`, b.String())
	})
}

func TestMarshalStdComparable(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		e, b := capturingEncoder()

		var v int

		require.ErrorIs(
			t,
			MarshalStdComparable("sut", e, "foo", v),
			ErrValueRequired,
		)
		require.Empty(t, b.Bytes())
	})

	t.Run("Not Default", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MarshalStdComparable("sut", e, "foo", 123))
		require.EqualValues(t, `"foo"
123
`, b.String())
	})
}

func TestMaybeMarshalStdComparable(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		e, b := capturingEncoder()

		var v int

		require.NoError(t, MaybeMarshalStdComparable(e, "foo", v))
		require.Empty(t, b.Bytes())
	})

	t.Run("Not Default", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdComparable(e, "foo", 123))
		require.EqualValues(t, `"foo"
123
`, b.String())
	})
}

func TestMaybeInlineMarshalStd(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeInlineMarshalStd(e, map[string]string{}))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeInlineMarshalStd(e, map[string]string{"payload_play": "play", "payload_stop": "stop"}))

		result := b.String()

		assert.Contains(t, result, `"payload_play"
"play"
`)
		assert.Contains(t, result, `"payload_stop"
"stop"
`)
	})
}
