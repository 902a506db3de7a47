package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFence removes a surrounding ```marker ... ``` block from model
// output. Models frequently wrap JSON answers in a fence even when told not
// to; text without a fence is returned unchanged.
func StripCodeFence(text, marker string) string {
	trimmed := strings.TrimSpace(text)
	prefix := "```" + marker
	if strings.HasPrefix(trimmed, prefix) && strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, prefix)
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return text
}

// Decode unmarshals a model response into T. The error wraps the offending
// payload prefix so diagnostics show what the model actually returned.
func Decode[T any](raw string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(StripCodeFence(raw, "json")), &out); err != nil {
		return out, fmt.Errorf("decode model response %q: %w", truncate(raw, 120), err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
