package services

import (
	"errors"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrGuardianNotFound  = errors.New("guardian not found")
	ErrTeacherNotFound   = errors.New("teacher not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrMentorNotAssigned = errors.New("mentor is not assigned to this student")
	ErrIdentityNotFound  = errors.New("no local user is linked to this identity")

	ErrDuplicateEmail       = errors.New("a user with this email already exists")
	ErrDuplicateChapterName = errors.New("a chapter with this name already exists")
	ErrMentorAlreadyBooked  = errors.New("mentor already has a session on this day")
	ErrSessionCompleted     = errors.New("session is already completed")
	ErrSessionNotCompleted  = errors.New("session must be completed before it is signed off")
	ErrUserArchived         = errors.New("user is archived")

	// ErrPreconditionViolation is returned when an operation is attempted on
	// a record in the wrong state, e.g. granting access to a user that is
	// already linked to the directory.
	ErrPreconditionViolation = errors.New("precondition violated")
	// ErrProvisioningInProgress means another request holds the provisioning
	// claim for the user.
	ErrProvisioningInProgress = errors.New("provisioning already in progress")
	// ErrPersistenceFailure means the directory was updated but the local
	// record could not be.
	ErrPersistenceFailure = errors.New("failed to persist directory link")
)

// IsConflictError reports whether err should be answered with 409
func IsConflictError(err error) bool {
	return errors.Is(err, ErrPreconditionViolation) ||
		errors.Is(err, ErrProvisioningInProgress) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateChapterName) ||
		errors.Is(err, ErrMentorAlreadyBooked) ||
		errors.Is(err, ErrSessionCompleted) ||
		errors.Is(err, ErrSessionNotCompleted) ||
		errors.Is(err, ErrUserArchived)
}

// IsNotFound reports whether err names a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrChapterNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrGuardianNotFound) ||
		errors.Is(err, ErrTeacherNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrMentorNotAssigned) ||
		errors.Is(err, ErrIdentityNotFound)
}
