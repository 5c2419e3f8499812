package repositories

import (
	"context"
	"time"

	"github.com/achievers-club/mentoring-service/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.MentorSession) error
	GetByID(ctx context.Context, id uint) (*models.MentorSession, error)
	Update(ctx context.Context, session *models.MentorSession) error
	Delete(ctx context.Context, id uint) error

	// List returns one page of sessions, most recently completed first
	List(ctx context.Context, filters SessionFilters) ([]*models.MentorSession, error)
	Count(ctx context.Context, filters SessionFilters) (int64, error)
	// ListAll ignores paging
	ListAll(ctx context.Context, filters SessionFilters) ([]*models.MentorSession, error)

	// MentorBookedOn reports whether the mentor already has a session on the
	// given day in the chapter
	MentorBookedOn(ctx context.Context, chapterID, userID uint, day time.Time, excludeID *uint) (bool, error)
}
