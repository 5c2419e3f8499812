package repositories

import (
	"context"
	"time"

	"github.com/achievers-club/mentoring-service/internal/models"
)

// UserRepository persists mentors and their directory link
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAzureADID(ctx context.Context, azureADID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Archive(ctx context.Context, id uint, endDate time.Time) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ListOptions(ctx context.Context, chapterID uint) ([]models.Option, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uint) (bool, error)

	SignVolunteerAgreement(ctx context.Context, id uint, signedOn time.Time) error
	UpsertWWCCheck(ctx context.Context, check *models.WWCCheck) error
	UpsertPoliceCheck(ctx context.Context, check *models.PoliceCheck) error

	// ClaimProvisioning atomically marks the user as being provisioned. It
	// fails with ErrConflict when the user already has a directory id or a
	// claim younger than ttl exists.
	ClaimProvisioning(ctx context.Context, id uint, now time.Time, ttl time.Duration) error
	// ReleaseProvisioning drops the claim so a later attempt can start at once
	ReleaseProvisioning(ctx context.Context, id uint) error
	// SavePendingExternalID records the directory id of an invited user
	// before the role assignment.
	SavePendingExternalID(ctx context.Context, id uint, externalID string) error
	// SaveExternalID links the user to its directory id and clears the
	// pending id and the claim.
	SaveExternalID(ctx context.Context, id uint, externalID string) error
}
