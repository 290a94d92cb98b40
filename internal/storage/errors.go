package storage

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned on unique constraint violations.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidID is returned when an identifier is not a valid UUID.
	ErrInvalidID = errors.New("malformed identifier")

	// ErrUnavailable is returned when the backend cannot be reached or is
	// temporarily busy. It is the only error class worth retrying.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrConnectionLost accompanies ErrUnavailable when the connection broke
	// after the statement may have reached the server. The write may or may
	// not have been applied.
	ErrConnectionLost = errors.New("connection lost mid-request")
)

// ParseID validates an identifier and returns its canonical string form.
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}
