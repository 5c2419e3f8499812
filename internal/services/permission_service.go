package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/achievers-club/mentoring-service/internal/events"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

type permissionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	roleIDs   models.RoleIDs
}

func NewPermissionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, roleIDs models.RoleIDs) PermissionService {
	return &permissionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		roleIDs:   roleIDs,
	}
}

func (s *permissionService) ListDirectoryUsers(ctx context.Context) ([]*DirectoryUserResponse, error) {
	identities, err := s.repo.Directory().ListUsersWithRoles(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*DirectoryUserResponse, 0, len(identities))
	for _, identity := range identities {
		result = append(result, s.toResponse(identity))
	}
	return result, nil
}

func (s *permissionService) GetDirectoryUser(ctx context.Context, azureID string) (*DirectoryUserResponse, error) {
	identity, err := s.repo.Directory().GetUserWithRoles(ctx, azureID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(identity), nil
}

func (s *permissionService) ListRoles(ctx context.Context) ([]models.AppRole, error) {
	return s.repo.Directory().ListRoles(ctx)
}

// AssignRole grants one of the application's roles. Role ids outside the
// current catalog are rejected before anything is sent to the directory.
func (s *permissionService) AssignRole(ctx context.Context, azureID string, req *RoleAssignmentRequest) (*models.AssignmentResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	roles, err := s.repo.Directory().ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	known := slices.ContainsFunc(roles, func(role models.AppRole) bool {
		return role.ID == req.RoleID
	})
	if !known {
		return nil, validator.NewValidationError("role_id", "is not a role of this application", req.RoleID)
	}

	result, err := s.repo.Directory().AssignRole(ctx, azureID, req.RoleID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Role assigned",
		"azure_id", azureID,
		"role_id", req.RoleID,
		"assignment_id", result.ID)
	s.publish(ctx, events.EventRoleAssigned, events.RoleAssignedEvent{
		ExternalID:   azureID,
		RoleID:       req.RoleID,
		AssignmentID: result.ID,
	})

	return result, nil
}

func (s *permissionService) RemoveRole(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return validator.NewValidationError("assignment_id", "is required", assignmentID)
	}
	if err := s.repo.Directory().RemoveRole(ctx, assignmentID); err != nil {
		return err
	}

	s.logger.Info("Role removed", "assignment_id", assignmentID)
	s.publish(ctx, events.EventRoleRemoved, events.RoleRemovedEvent{AssignmentID: assignmentID})
	return nil
}

func (s *permissionService) toResponse(identity *models.ExternalIdentity) *DirectoryUserResponse {
	return &DirectoryUserResponse{
		ExternalIdentity: identity,
		Roles:            s.roleIDs.Classify(identity.RoleIDs()),
	}
}

func (s *permissionService) publish(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event",
			"event_type", eventType,
			"error", err)
	}
}
