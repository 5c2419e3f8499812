package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

type chapterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChapterService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ChapterService {
	return &chapterService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *chapterService) List(ctx context.Context) ([]*models.Chapter, error) {
	chapters, err := s.repo.Chapter().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

func (s *chapterService) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

func (s *chapterService) Create(ctx context.Context, req *ChapterRequest) (*models.Chapter, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkNameAvailable(ctx, name, nil); err != nil {
		return nil, err
	}

	chapter := &models.Chapter{Name: name, Address: strings.TrimSpace(req.Address)}
	if err := s.repo.Chapter().Create(ctx, chapter); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateChapterName
		}
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	s.logger.Info("Chapter created", "chapter_id", chapter.ID, "name", chapter.Name)
	return chapter, nil
}

func (s *chapterService) Update(ctx context.Context, id uint, req *ChapterRequest) (*models.Chapter, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if !strings.EqualFold(name, chapter.Name) {
		if err := s.checkNameAvailable(ctx, name, &id); err != nil {
			return nil, err
		}
	}
	chapter.Name = name
	chapter.Address = strings.TrimSpace(req.Address)

	if err := s.repo.Chapter().Update(ctx, chapter); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateChapterName
		}
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	s.logger.Info("Chapter updated", "chapter_id", id)
	return chapter, nil
}

func (s *chapterService) ListMentors(ctx context.Context, id uint) ([]models.Option, error) {
	if err := checkChapterExists(ctx, s.repo, id); err != nil {
		return nil, err
	}
	options, err := s.repo.User().ListOptions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	return options, nil
}

func (s *chapterService) ListStudents(ctx context.Context, id uint) ([]models.Option, error) {
	if err := checkChapterExists(ctx, s.repo, id); err != nil {
		return nil, err
	}
	options, err := s.repo.Student().ListOptions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return options, nil
}

func (s *chapterService) checkNameAvailable(ctx context.Context, name string, excludeID *uint) error {
	exists, err := s.repo.Chapter().ExistsByName(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check chapter name: %w", err)
	}
	if exists {
		return ErrDuplicateChapterName
	}
	return nil
}
