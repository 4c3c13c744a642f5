package utils

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable run id.
// Format: {prefix}-{width}x{height}-{8charHexUUID}, e.g. "sim-90x15-a3f8e2b1"
func GenerateRunID(prefix string, width, height int) string {
	return prefix + "-" + strconv.Itoa(width) + "x" + strconv.Itoa(height) + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
