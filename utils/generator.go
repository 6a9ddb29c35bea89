package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateRoomID mints the opaque identifier handed to the video-call
// provider. It is assigned once per booking and never rotated.
func GenerateRoomID() string {
	return fmt.Sprintf("session_%s", uuid.New().String())
}
