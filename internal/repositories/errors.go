package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict is returned when a conditional update matched no row
	ErrConflict = errors.New("conflicting update")
	// ErrDirectoryUnavailable covers every failure talking to the external
	// directory: network, authorization, unexpected status or payload.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDirectoryError(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
