package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/studytrack/internal/models"
)

var (
	// ErrNotFound means no row matched the id.
	ErrNotFound = errors.New("not found")

	// ErrConstraint means a uniqueness or foreign key constraint rejected the write.
	ErrConstraint = errors.New("constraint violation")

	// ErrConflict means a session is already active.
	ErrConflict = errors.New("an active session already exists")

	// ErrCorruptTimestamp means a stored timestamp could not be parsed.
	ErrCorruptTimestamp = models.ErrCorruptTimestamp
)

// classify maps driver errors onto the package's error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, activeSessionIndexName):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case strings.Contains(msg, "constraint failed"):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
