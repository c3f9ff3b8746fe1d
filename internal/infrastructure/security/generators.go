// Package security provides id, token and password utilities
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateComponentID returns an id for a new palette component.
func GenerateComponentID() string {
	return "comp-" + strings.ToLower(GenerateULID())
}

// GenerateFieldSuffix returns four random lowercase characters taken from
// the entropy part of a ULID.
func GenerateFieldSuffix() string {
	id := strings.ToLower(GenerateULID())
	return id[len(id)-4:]
}

// GenerateSecureKey creates a cryptographically secure random key and returns it as a hex string.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
