package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (r *SessionPostgreSQL) Create(ctx context.Context, session *models.MentorSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return handleDBError(err, "create session")
	}
	return nil
}

func (r *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MentorSession, error) {
	var session models.MentorSession
	err := r.db.WithContext(ctx).
		Preload("Chapter").
		Preload("User").
		Preload("Student").
		First(&session, id).Error
	if err != nil {
		return nil, handleDBError(err, "get session by id")
	}
	return &session, nil
}

func (r *SessionPostgreSQL) Update(ctx context.Context, session *models.MentorSession) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(session).Error; err != nil {
		return handleDBError(err, "update session")
	}
	return nil
}

func (r *SessionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MentorSession{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete session")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete session")
	}
	return nil
}

func (r *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.MentorSession, error) {
	var sessions []*models.MentorSession
	if err := r.listQuery(r.db.WithContext(ctx), filters, true).Find(&sessions).Error; err != nil {
		return nil, handleDBError(err, "list sessions")
	}
	return sessions, nil
}

func (r *SessionPostgreSQL) ListAll(ctx context.Context, filters repositories.SessionFilters) ([]*models.MentorSession, error) {
	var sessions []*models.MentorSession
	if err := r.listQuery(r.db.WithContext(ctx), filters, false).Find(&sessions).Error; err != nil {
		return nil, handleDBError(err, "list all sessions")
	}
	return sessions, nil
}

func (r *SessionPostgreSQL) Count(ctx context.Context, filters repositories.SessionFilters) (int64, error) {
	var count int64
	query := applySessionFilters(r.db.WithContext(ctx).Model(&models.MentorSession{}), filters)
	if err := query.Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count sessions")
	}
	return count, nil
}

func (r *SessionPostgreSQL) MentorBookedOn(ctx context.Context, chapterID, userID uint, day time.Time, excludeID *uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.MentorSession{}).
		Where("chapter_id = ? AND user_id = ? AND attended_on = ?", chapterID, userID, day.Format(time.DateOnly))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check mentor booking")
	}
	return count > 0, nil
}

func (r *SessionPostgreSQL) listQuery(db *gorm.DB, filters repositories.SessionFilters, paged bool) *gorm.DB {
	query := applySessionFilters(db.Model(&models.MentorSession{}), filters).
		Preload("User").
		Preload("Student").
		Order("mentor_sessions.completed_on DESC").
		Order("mentor_sessions.attended_on DESC")

	if paged {
		limit, offset := filters.Pagination()
		query = query.Limit(limit).Offset(offset)
	}
	return query
}

// applySessionFilters narrows sessions to the chapter and the optional
// criteria. Flags filter only when set and the date range needs both bounds.
func applySessionFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	query = query.Where("mentor_sessions.chapter_id = ?", filters.ChapterID)

	if filters.MentorID != nil {
		query = query.Where("mentor_sessions.user_id = ?", *filters.MentorID)
	}
	if filters.StudentID != nil {
		query = query.Where("mentor_sessions.student_id = ?", *filters.StudentID)
	}
	if filters.StartDate != nil && filters.EndDate != nil {
		query = query.Where("mentor_sessions.attended_on BETWEEN ? AND ?",
			filters.StartDate.Format(time.DateOnly), filters.EndDate.Format(time.DateOnly))
	}
	if filters.IsCompleted {
		query = query.Where("mentor_sessions.completed_on IS NOT NULL")
	}
	if filters.IsSignedOff {
		query = query.Where("mentor_sessions.signed_off_on IS NOT NULL")
	}
	return query
}
