package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*models.PageResponse, error) {
	filters.Limit, filters.Offset = normalizePaging(filters.Limit, filters.Offset)

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return models.NewPageResponse(users, total, filters.Offset/filters.Limit+1, filters.Limit), nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	s.logger.Info("Creating user", "email", req.Email, "chapter_id", req.ChapterID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := s.checkEmailAvailable(ctx, email, nil); err != nil {
		return nil, err
	}
	if err := checkChapterExists(ctx, s.repo, req.ChapterID); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           email,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Mobile:          req.Mobile,
		AddressStreet:   req.AddressStreet,
		AddressSuburb:   req.AddressSuburb,
		AddressState:    req.AddressState,
		AddressPostcode: req.AddressPostcode,
		ChapterID:       req.ChapterID,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error) {
	s.logger.Info("Updating user", "user_id", id)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.checkEmailAvailable(ctx, email, &id); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.ChapterID != nil && *req.ChapterID != user.ChapterID {
		if err := checkChapterExists(ctx, s.repo, *req.ChapterID); err != nil {
			return nil, err
		}
		user.ChapterID = *req.ChapterID
		user.Chapter = nil
	}
	applyString(&user.FirstName, req.FirstName)
	applyString(&user.LastName, req.LastName)
	applyString(&user.Mobile, req.Mobile)
	applyString(&user.AddressStreet, req.AddressStreet)
	applyString(&user.AddressSuburb, req.AddressSuburb)
	applyString(&user.AddressState, req.AddressState)
	applyString(&user.AddressPostcode, req.AddressPostcode)

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Archive ends a mentor's involvement. The record and its history stay.
func (s *userService) Archive(ctx context.Context, id uint) error {
	if err := s.repo.User().Archive(ctx, id, time.Now().UTC()); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to archive user: %w", err)
	}
	s.logger.Info("User archived", "user_id", id)
	return nil
}

func (s *userService) UpdateWWCCheck(ctx context.Context, id uint, req *WWCCheckRequest) (*models.WWCCheck, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	expiry, err := validator.ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, validator.NewValidationError("expiry_date", "must be a date formatted as YYYY-MM-DD", req.ExpiryDate)
	}

	check := &models.WWCCheck{
		UserID:     id,
		WWCNumber:  strings.TrimSpace(req.WWCNumber),
		ExpiryDate: datatypes.Date(expiry),
		FilePath:   req.FilePath,
	}
	if err := s.repo.User().UpsertWWCCheck(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to save wwc check: %w", err)
	}

	s.logger.Info("WWC check updated", "user_id", id)
	return check, nil
}

func (s *userService) UpdatePoliceCheck(ctx context.Context, id uint, req *PoliceCheckRequest) (*models.PoliceCheck, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	expiry, err := validator.ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, validator.NewValidationError("expiry_date", "must be a date formatted as YYYY-MM-DD", req.ExpiryDate)
	}

	check := &models.PoliceCheck{
		UserID:     id,
		ExpiryDate: datatypes.Date(expiry),
		FilePath:   req.FilePath,
	}
	if err := s.repo.User().UpsertPoliceCheck(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to save police check: %w", err)
	}

	s.logger.Info("Police check updated", "user_id", id)
	return check, nil
}

func (s *userService) checkEmailAvailable(ctx context.Context, email string, excludeID *uint) error {
	exists, err := s.repo.User().ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return ErrDuplicateEmail
	}
	return nil
}

// ===== HELPERS =====

func checkChapterExists(ctx context.Context, repo repositories.Repository, chapterID uint) error {
	if _, err := repo.Chapter().GetByID(ctx, chapterID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("failed to get chapter: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func applyString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func normalizePaging(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
