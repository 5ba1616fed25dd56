package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a random v4 UUID.
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateShortID returns the first 8 hex digits of a new UUID.
func GenerateShortID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RequestIDKey is the gin context key and RequestIDHeader the header
// carrying the request ID.
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)
