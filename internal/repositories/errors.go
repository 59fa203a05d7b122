package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every lookup that finds nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped when a unique constraint rejects a write.
	ErrDuplicate = errors.New("already exists")
)

// translate maps gorm errors onto the package sentinels, adding context.
func translate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
