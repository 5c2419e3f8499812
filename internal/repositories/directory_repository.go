package repositories

import (
	"context"

	"github.com/achievers-club/mentoring-service/internal/models"
)

// DirectoryRepository is the external identity directory. Every method
// fails with an error matching ErrDirectoryUnavailable.
type DirectoryRepository interface {
	ListRoles(ctx context.Context) ([]models.AppRole, error)
	// GetUserWithRoles returns the identity with assignments resolved
	// against the current role catalog
	GetUserWithRoles(ctx context.Context, id string) (*models.ExternalIdentity, error)
	ListUsersWithRoles(ctx context.Context) ([]*models.ExternalIdentity, error)
	InviteUser(ctx context.Context, email, redirectURL string) (*models.Invitation, error)
	AssignRole(ctx context.Context, identityID, roleID string) (*models.AssignmentResult, error)
	RemoveRole(ctx context.Context, assignmentID string) error
}
