package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrCafeNotFound is returned when no cafe has the requested id.
	ErrCafeNotFound = errors.New("cafe not found")
	// ErrDuplicateName is returned when a cafe with the same name exists.
	ErrDuplicateName = errors.New("cafe name already exists")
	// ErrAdminNotFound is returned when no admin has the requested username.
	ErrAdminNotFound = errors.New("admin not found")
)

// isDuplicate reports a unique-constraint violation. TranslateError covers
// both drivers; the string checks catch connections opened without it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
