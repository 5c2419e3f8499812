package graph

import (
	"fmt"

	"github.com/achievers-club/mentoring-service/internal/repositories"
)

// DirectoryError describes a failed directory call. StatusCode is zero when
// no response was received.
type DirectoryError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *DirectoryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("directory %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("directory %s: %v", e.Op, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// Is makes every DirectoryError match repositories.ErrDirectoryUnavailable
func (e *DirectoryError) Is(target error) bool {
	return target == repositories.ErrDirectoryUnavailable
}

// graphErrorBody is the error envelope Graph returns on non-2xx responses
type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
