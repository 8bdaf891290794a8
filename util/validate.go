package util

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID checks that value is a UUID and returns it in canonical form.
func ValidateUUID(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s cannot be empty", field)
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%s: invalid UUID format: %w", field, err)
	}
	return id.String(), nil
}

// NewID returns a fresh random identifier for a stored record.
func NewID() string {
	return uuid.NewString()
}
