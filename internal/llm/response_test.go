package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with padding", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"unterminated fence kept", "```json\n{\"a\":1}", "```json\n{\"a\":1}"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in, "json"))
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		SQL        string  `json:"sql"`
		Confidence float64 `json:"confidence"`
	}

	t.Run("plain json", func(t *testing.T) {
		got, err := Decode[payload](`{"sql":"SELECT 1","confidence":0.95}`)
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", got.SQL)
		assert.InDelta(t, 0.95, got.Confidence, 1e-9)
	})

	t.Run("fenced json", func(t *testing.T) {
		got, err := Decode[payload]("```json\n{\"sql\":\"SELECT 1\",\"confidence\":0.5}\n```")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", got.SQL)
	})

	t.Run("malformed is an error, not a panic", func(t *testing.T) {
		_, err := Decode[payload]("Sure! Here is your SQL:")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode model response")
	})
}
