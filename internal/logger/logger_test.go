package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"session_token", "3f2a9c1e-8b7d-4c55-9e0a-1b2c3d4e5f60",
		"candidate_id", 12,
		"password", 42,
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"session_token", "3f2a9c1e…",
		"candidate_id", 12,
		"password", "[REDACTED]",
		"dangling",
	}, out)
}

func TestNopLoggerIsUsable(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "token", "abc")
	l.Sync()
}
