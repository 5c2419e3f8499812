package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

const exportSheetName = "Sessions"

var exportHeader = []interface{}{
	"Session ID", "Attended On", "Mentor", "Student", "Completed On", "Signed Off On", "Cancelled", "Report",
}

type sessionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ===== QUERIES =====

func (s *sessionService) List(ctx context.Context, filters repositories.SessionFilters) (*models.PageResponse, error) {
	if err := checkSessionFilters(filters); err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	total, err := s.repo.Session().Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	limit, _ := filters.Pagination()
	return models.NewPageResponse(sessions, total, filters.Page(), limit), nil
}

func (s *sessionService) Count(ctx context.Context, filters repositories.SessionFilters) (int64, error) {
	if err := checkSessionFilters(filters); err != nil {
		return 0, err
	}
	total, err := s.repo.Session().Count(ctx, filters)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return total, nil
}

func (s *sessionService) GetByID(ctx context.Context, id uint) (*models.MentorSession, error) {
	session, err := s.repo.Session().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ===== BOOKING =====

// Create books a mentor on a chapter day. A mentor attends at most one
// session per day in a chapter.
func (s *sessionService) Create(ctx context.Context, req *CreateSessionRequest) (*models.MentorSession, error) {
	s.logger.Info("Creating session",
		"chapter_id", req.ChapterID,
		"mentor_id", req.MentorID,
		"attended_on", req.AttendedOn)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	attendedOn, err := validator.ParseDate(req.AttendedOn)
	if err != nil {
		return nil, validator.NewValidationError("attended_on", "must be a date formatted as YYYY-MM-DD", req.AttendedOn)
	}

	if err := checkChapterExists(ctx, s.repo, req.ChapterID); err != nil {
		return nil, err
	}
	if err := s.checkParticipants(ctx, req.ChapterID, req.MentorID, req.StudentID); err != nil {
		return nil, err
	}
	if err := s.checkMentorFree(ctx, req.ChapterID, req.MentorID, attendedOn, nil); err != nil {
		return nil, err
	}

	session := &models.MentorSession{
		ChapterID:  req.ChapterID,
		UserID:     req.MentorID,
		StudentID:  req.StudentID,
		AttendedOn: datatypes.Date(attendedOn),
	}
	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session created", "session_id", session.ID)
	return session, nil
}

func (s *sessionService) UpdateAssignment(ctx context.Context, id uint, req *SessionAssignmentRequest) (*models.MentorSession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrSessionCompleted
	}

	studentID := req.StudentID
	if err := s.checkParticipants(ctx, session.ChapterID, req.MentorID, &studentID); err != nil {
		return nil, err
	}
	if req.MentorID != session.UserID {
		if err := s.checkMentorFree(ctx, session.ChapterID, req.MentorID, time.Time(session.AttendedOn), &id); err != nil {
			return nil, err
		}
	}

	session.UserID = req.MentorID
	session.StudentID = &studentID
	session.User = nil
	session.Student = nil

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("Session assignment updated", "session_id", id, "mentor_id", req.MentorID, "student_id", studentID)
	return session, nil
}

// Remove deletes a session that has not been completed yet
func (s *sessionService) Remove(ctx context.Context, id uint) error {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if session.IsCompleted() {
		return ErrSessionCompleted
	}

	if err := s.repo.Session().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("Session removed", "session_id", id)
	return nil
}

// ===== REPORTS =====

func (s *sessionService) Complete(ctx context.Context, id uint, req *CompleteSessionRequest) (*models.MentorSession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrSessionCompleted
	}
	if session.IsCancelled {
		return nil, fmt.Errorf("%w: session %d is cancelled", ErrPreconditionViolation, id)
	}
	if session.StudentID == nil {
		return nil, validator.NewValidationError("student_id", "a student must be assigned before the report is written", nil)
	}

	completedOn := s.now()
	report := strings.TrimSpace(req.Report)
	session.CompletedOn = &completedOn
	session.Report = &report

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	s.logger.Info("Session completed", "session_id", id)
	return session, nil
}

// SignOff records that the report was reviewed. Signing off twice keeps the
// first date.
func (s *sessionService) SignOff(ctx context.Context, id uint) (*models.MentorSession, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted() {
		return nil, ErrSessionNotCompleted
	}
	if session.IsSignedOff() {
		return session, nil
	}

	signedOffOn := s.now()
	session.SignedOffOn = &signedOffOn

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to sign off session: %w", err)
	}

	s.logger.Info("Session signed off", "session_id", id)
	return session, nil
}

// ===== OPTIONS =====

// MentorsForStudent lists the chapter's mentors, those assigned to the
// student first
func (s *sessionService) MentorsForStudent(ctx context.Context, chapterID, studentID uint) ([]MentorOption, error) {
	mentors, err := s.repo.User().ListOptions(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	assignedIDs, err := s.repo.Student().ListMentorIDs(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned mentors: %w", err)
	}

	assigned := make(map[uint]bool, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = true
	}

	result := make([]MentorOption, 0, len(mentors))
	for _, m := range mentors {
		if assigned[m.ID] {
			result = append(result, MentorOption{Option: m, IsAssigned: true})
		}
	}
	for _, m := range mentors {
		if !assigned[m.ID] {
			result = append(result, MentorOption{Option: m})
		}
	}
	return result, nil
}

func (s *sessionService) FilterOptions(ctx context.Context, chapterID uint, mentorID, studentID *uint) (*SessionFilterOptions, error) {
	if err := checkChapterExists(ctx, s.repo, chapterID); err != nil {
		return nil, err
	}

	mentors, err := s.repo.Student().ListAssignedMentorOptions(ctx, chapterID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	students, err := s.repo.Student().ListAssignedStudentOptions(ctx, chapterID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return &SessionFilterOptions{Mentors: mentors, Students: students}, nil
}

// ===== EXPORT =====

func (s *sessionService) Export(ctx context.Context, filters repositories.SessionFilters) ([]byte, error) {
	if err := checkSessionFilters(filters); err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session().ListAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(exportSheetName, 1, 1, style)
	}

	for i, session := range sessions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(session)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write session %d: %w", session.ID, err)
		}
	}
	_ = f.SetColWidth(exportSheetName, "B", "F", 18)
	_ = f.SetColWidth(exportSheetName, "H", "H", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Sessions exported", "chapter_id", filters.ChapterID, "count", len(sessions))
	return buf.Bytes(), nil
}

func exportRow(session *models.MentorSession) []interface{} {
	mentor := ""
	if session.User != nil {
		mentor = session.User.FullName()
	}
	student := ""
	if session.Student != nil {
		student = session.Student.FullName()
	}
	report := ""
	if session.Report != nil {
		report = *session.Report
	}
	cancelled := "No"
	if session.IsCancelled {
		cancelled = "Yes"
	}

	return []interface{}{
		session.ID,
		time.Time(session.AttendedOn).Format(validator.DateLayout),
		mentor,
		student,
		formatOptionalDate(session.CompletedOn),
		formatOptionalDate(session.SignedOffOn),
		cancelled,
		report,
	}
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(validator.DateLayout)
}

// ===== HELPERS =====

func checkSessionFilters(filters repositories.SessionFilters) error {
	if filters.ChapterID == 0 {
		return validator.NewValidationError("chapter_id", "is required", nil)
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return validator.NewValidationError("end_date", "must not be before start_date", filters.EndDate.Format(validator.DateLayout))
	}
	return nil
}

// checkParticipants makes sure the mentor, and the student when given,
// belong to the chapter
func (s *sessionService) checkParticipants(ctx context.Context, chapterID, mentorID uint, studentID *uint) error {
	mentor, err := s.repo.User().GetByID(ctx, mentorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get mentor: %w", err)
	}
	if mentor.IsArchived() {
		return ErrUserArchived
	}
	if mentor.ChapterID != chapterID {
		return validator.NewValidationError("mentor_id", "mentor belongs to a different chapter", mentorID)
	}

	if studentID == nil {
		return nil
	}
	student, err := s.repo.Student().GetByID(ctx, *studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student.ChapterID != chapterID {
		return validator.NewValidationError("student_id", "student belongs to a different chapter", *studentID)
	}
	return nil
}

func (s *sessionService) checkMentorFree(ctx context.Context, chapterID, mentorID uint, day time.Time, excludeID *uint) error {
	booked, err := s.repo.Session().MentorBookedOn(ctx, chapterID, mentorID, day, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check mentor availability: %w", err)
	}
	if booked {
		return ErrMentorAlreadyBooked
	}
	return nil
}
