package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/achievers-club/mentoring-service/internal/events"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

// DefaultProvisioningClaimTTL bounds how long an abandoned claim blocks a retry
const DefaultProvisioningClaimTTL = 2 * time.Minute

type ProvisioningConfig struct {
	RoleIDs models.RoleIDs
	// RedirectURL is where an invited user lands after redeeming the invitation
	RedirectURL string
	ClaimTTL    time.Duration
}

type provisioningService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	config    ProvisioningConfig
	now       func() time.Time
}

func NewProvisioningService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, config ProvisioningConfig) ProvisioningService {
	if config.ClaimTTL <= 0 {
		config.ClaimTTL = DefaultProvisioningClaimTTL
	}
	return &provisioningService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *provisioningService) GiveAccess(ctx context.Context, userID uint) (*models.User, error) {
	log := s.logger.With("user_id", userID)
	log.Info("Giving directory access")

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasExternalIdentity() {
		return nil, fmt.Errorf("%w: user %d already has directory access", ErrPreconditionViolation, userID)
	}

	if err := s.repo.User().ClaimProvisioning(ctx, userID, s.now(), s.config.ClaimTTL); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, s.claimConflict(ctx, userID)
		}
		return nil, fmt.Errorf("failed to claim provisioning: %w", err)
	}

	// Read again under the claim: an earlier run may have left a pending id
	user, err = s.getUser(ctx, userID)
	if err != nil {
		s.release(ctx, log, userID)
		return nil, err
	}

	externalID, err := s.provision(ctx, log, user)
	if err != nil {
		log.Error("Directory provisioning failed", "error", err)
		s.release(ctx, log, userID)
		return nil, err
	}

	if err := s.repo.User().SaveExternalID(ctx, userID, externalID); err != nil {
		log.Error("Failed to link user to directory identity",
			"external_id", externalID,
			"error", err)
		if errors.Is(err, repositories.ErrConflict) {
			// Another run took over the stale claim and linked the user first
			return nil, fmt.Errorf("%w: user %d was linked during provisioning", ErrPreconditionViolation, userID)
		}
		// The pending id stays behind so a retry resumes at the role check
		s.release(ctx, log, userID)
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	user.AzureADID = &externalID
	user.PendingAzureADID = nil
	user.ProvisioningStartedAt = nil

	log.Info("Directory access granted", "external_id", externalID)
	return user, nil
}

// provision invites the user, or resumes a previous invitation, and makes
// sure the identity holds the Mentor role. It returns the external id.
func (s *provisioningService) provision(ctx context.Context, log *slog.Logger, user *models.User) (string, error) {
	directory := s.repo.Directory()

	resumed := user.PendingAzureADID != nil && *user.PendingAzureADID != ""
	var externalID string

	if resumed {
		externalID = *user.PendingAzureADID
		log.Info("Resuming provisioning of invited user", "external_id", externalID)

		identity, err := directory.GetUserWithRoles(ctx, externalID)
		if err != nil {
			return "", err
		}
		if s.config.RoleIDs.Classify(identity.RoleIDs()).Mentor {
			log.Info("Identity already holds the mentor role", "external_id", externalID)
			return externalID, nil
		}
	} else {
		invitation, err := directory.InviteUser(ctx, user.Email, s.config.RedirectURL)
		if err != nil {
			return "", err
		}
		externalID = invitation.InvitedUserID()

		s.publish(ctx, events.EventUserInvited, events.UserInvitedEvent{
			UserID:       user.ID,
			Email:        user.Email,
			ExternalID:   externalID,
			InvitationID: invitation.ID,
		})

		// Without the pending id a retry would invite again, so stop here
		if err := s.repo.User().SavePendingExternalID(ctx, user.ID, externalID); err != nil {
			return "", fmt.Errorf("%w: record pending external id %s: %w", ErrPersistenceFailure, externalID, err)
		}
	}

	assignment, err := directory.AssignRole(ctx, externalID, s.config.RoleIDs.Mentor)
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.EventRoleAssigned, events.RoleAssignedEvent{
		UserID:       user.ID,
		ExternalID:   externalID,
		RoleID:       s.config.RoleIDs.Mentor,
		AssignmentID: assignment.ID,
	})

	return externalID, nil
}

func (s *provisioningService) getUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// claimConflict tells a concurrent link apart from a claim held elsewhere
func (s *provisioningService) claimConflict(ctx context.Context, userID uint) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasExternalIdentity() {
		return fmt.Errorf("%w: user %d already has directory access", ErrPreconditionViolation, userID)
	}
	return ErrProvisioningInProgress
}

func (s *provisioningService) release(ctx context.Context, log *slog.Logger, userID uint) {
	if err := s.repo.User().ReleaseProvisioning(context.WithoutCancel(ctx), userID); err != nil {
		log.Warn("Failed to release provisioning claim", "error", err)
	}
}

func (s *provisioningService) publish(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event",
			"event_type", eventType,
			"error", err)
	}
}
