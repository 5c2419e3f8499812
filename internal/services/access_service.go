package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

type accessService struct {
	repo    repositories.Repository
	logger  *slog.Logger
	roleIDs models.RoleIDs
}

func NewAccessService(repo repositories.Repository, logger *slog.Logger, roleIDs models.RoleIDs) AccessService {
	return &accessService{
		repo:    repo,
		logger:  logger,
		roleIDs: roleIDs,
	}
}

func (s *accessService) CurrentRoles(ctx context.Context, azureID string) (models.RoleSet, *models.ExternalIdentity, error) {
	identity, err := s.repo.Directory().GetUserWithRoles(ctx, azureID)
	if err != nil {
		return models.RoleSet{}, nil, err
	}
	return s.roleIDs.Classify(identity.RoleIDs()), identity, nil
}

// Landing decides where the identity enters the application. The local
// record is only consulted for identities that are neither Admin nor
// Student, since the agreement cannot change their outcome.
func (s *accessService) Landing(ctx context.Context, azureID string) (*LandingResponse, error) {
	roles, _, err := s.CurrentRoles(ctx, azureID)
	if err != nil {
		return nil, err
	}

	signed := false
	if !roles.Admin && !roles.Student {
		user, err := s.repo.User().GetByAzureADID(ctx, azureID)
		switch {
		case err == nil:
			signed = user.VolunteerAgreementSignedOn != nil
		case repositories.IsNotFoundError(err):
			s.logger.Debug("No local user linked to identity", "azure_id", azureID)
		default:
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
	}

	landing := models.DecideLanding(roles, signed)
	s.logger.Debug("Landing decided",
		"azure_id", azureID,
		"roles", roles.Roles(),
		"landing", landing)

	return &LandingResponse{Landing: landing, Redirect: landing.Path()}, nil
}

func (s *accessService) SignVolunteerAgreement(ctx context.Context, azureID string) (*models.User, error) {
	user, err := s.repo.User().GetByAzureADID(ctx, azureID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.VolunteerAgreementSignedOn != nil {
		return user, nil
	}

	signedOn := time.Now().UTC()
	if err := s.repo.User().SignVolunteerAgreement(ctx, user.ID, signedOn); err != nil {
		return nil, fmt.Errorf("failed to sign volunteer agreement: %w", err)
	}
	user.VolunteerAgreementSignedOn = &signedOn

	s.logger.Info("Volunteer agreement signed", "user_id", user.ID)
	return user, nil
}
