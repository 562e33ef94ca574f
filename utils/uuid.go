package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateOrderedID returns a time-ordered unique identifier (UUIDv7).
// IDs generated by one process sort in creation order, including within the same millisecond.
func GenerateOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return GenerateID()
	}
	return id.String()
}
