package util

import "github.com/google/uuid"

// NewID returns a new unique entity identifier.
func NewID() string {
	return uuid.NewString()
}
