package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRoomID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateRoomID()
		assert.True(t, strings.HasPrefix(id, "session_"))
		assert.False(t, seen[id], "room IDs must be unique")
		seen[id] = true
	}
}
