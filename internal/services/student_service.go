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

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== STUDENTS =====

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) (*models.PageResponse, error) {
	filters.Limit, filters.Offset = normalizePaging(filters.Limit, filters.Offset)

	students, total, err := s.repo.Student().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return models.NewPageResponse(students, total, filters.Offset/filters.Limit+1, filters.Limit), nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error) {
	s.logger.Info("Creating student", "chapter_id", req.ChapterID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := checkChapterExists(ctx, s.repo, req.ChapterID); err != nil {
		return nil, err
	}

	dob, err := parseOptionalDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
		SchoolName:  req.SchoolName,
		ChapterID:   req.ChapterID,
	}
	if err := s.repo.Student().Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student created", "student_id", student.ID)
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ChapterID != nil && *req.ChapterID != student.ChapterID {
		if err := checkChapterExists(ctx, s.repo, *req.ChapterID); err != nil {
			return nil, err
		}
		student.ChapterID = *req.ChapterID
		student.Chapter = nil
	}
	if req.DateOfBirth != nil {
		dob, err := parseOptionalDate("date_of_birth", req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = dob
	}
	applyString(&student.FirstName, req.FirstName)
	applyString(&student.LastName, req.LastName)
	applyString(&student.Gender, req.Gender)
	applyString(&student.Address, req.Address)
	applyString(&student.SchoolName, req.SchoolName)

	// Associations are managed through their own endpoints
	student.Guardians = nil
	student.Teachers = nil

	if err := s.repo.Student().Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info("Student updated", "student_id", id)
	return student, nil
}

func (s *studentService) Archive(ctx context.Context, id uint) error {
	if err := s.repo.Student().Archive(ctx, id, time.Now().UTC()); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to archive student: %w", err)
	}
	s.logger.Info("Student archived", "student_id", id)
	return nil
}

// ===== GUARDIANS =====

func (s *studentService) AddGuardian(ctx context.Context, studentID uint, req *GuardianRequest) (*models.StudentGuardian, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	guardian := &models.StudentGuardian{StudentID: studentID}
	applyGuardian(guardian, req)

	if err := s.repo.Student().CreateGuardian(ctx, guardian); err != nil {
		return nil, fmt.Errorf("failed to create guardian: %w", err)
	}
	return guardian, nil
}

func (s *studentService) UpdateGuardian(ctx context.Context, studentID, guardianID uint, req *GuardianRequest) (*models.StudentGuardian, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	guardian, err := s.repo.Student().GetGuardian(ctx, studentID, guardianID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGuardianNotFound
		}
		return nil, fmt.Errorf("failed to get guardian: %w", err)
	}
	applyGuardian(guardian, req)

	if err := s.repo.Student().UpdateGuardian(ctx, guardian); err != nil {
		return nil, fmt.Errorf("failed to update guardian: %w", err)
	}
	return guardian, nil
}

func (s *studentService) RemoveGuardian(ctx context.Context, studentID, guardianID uint) error {
	if err := s.repo.Student().DeleteGuardian(ctx, studentID, guardianID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrGuardianNotFound
		}
		return fmt.Errorf("failed to delete guardian: %w", err)
	}
	return nil
}

func applyGuardian(guardian *models.StudentGuardian, req *GuardianRequest) {
	guardian.FullName = strings.TrimSpace(req.FullName)
	guardian.Relationship = strings.TrimSpace(req.Relationship)
	guardian.Phone = req.Phone
	guardian.Email = normalizeEmail(req.Email)
	guardian.Address = req.Address
}

// ===== TEACHERS =====

func (s *studentService) AddTeacher(ctx context.Context, studentID uint, req *TeacherRequest) (*models.StudentTeacher, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	teacher := &models.StudentTeacher{
		StudentID:  studentID,
		FullName:   strings.TrimSpace(req.FullName),
		Email:      normalizeEmail(req.Email),
		SchoolName: req.SchoolName,
	}
	if err := s.repo.Student().CreateTeacher(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}
	return teacher, nil
}

func (s *studentService) UpdateTeacher(ctx context.Context, studentID, teacherID uint, req *TeacherRequest) (*models.StudentTeacher, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Student().GetTeacher(ctx, studentID, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	teacher.FullName = strings.TrimSpace(req.FullName)
	teacher.Email = normalizeEmail(req.Email)
	teacher.SchoolName = req.SchoolName

	if err := s.repo.Student().UpdateTeacher(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to update teacher: %w", err)
	}
	return teacher, nil
}

func (s *studentService) RemoveTeacher(ctx context.Context, studentID, teacherID uint) error {
	if err := s.repo.Student().DeleteTeacher(ctx, studentID, teacherID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTeacherNotFound
		}
		return fmt.Errorf("failed to delete teacher: %w", err)
	}
	return nil
}

// ===== MENTOR ASSIGNMENTS =====

// AssignMentor links a mentor to a student of the same chapter. Assigning
// twice is a no-op.
func (s *studentService) AssignMentor(ctx context.Context, studentID, userID uint) error {
	student, err := s.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsArchived() {
		return ErrUserArchived
	}
	if user.ChapterID != student.ChapterID {
		return validator.NewValidationError("user_id", "mentor belongs to a different chapter", userID)
	}

	if err := s.repo.Student().AssignMentor(ctx, userID, studentID); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil
		}
		return fmt.Errorf("failed to assign mentor: %w", err)
	}

	s.logger.Info("Mentor assigned", "student_id", studentID, "user_id", userID)
	return nil
}

func (s *studentService) UnassignMentor(ctx context.Context, studentID, userID uint) error {
	if err := s.repo.Student().UnassignMentor(ctx, userID, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMentorNotAssigned
		}
		return fmt.Errorf("failed to unassign mentor: %w", err)
	}
	s.logger.Info("Mentor unassigned", "student_id", studentID, "user_id", userID)
	return nil
}

func (s *studentService) ListMentees(ctx context.Context, userID uint) ([]*models.Student, error) {
	if _, err := s.repo.User().GetByID(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	students, err := s.repo.Student().ListMentees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentees: %w", err)
	}
	return students, nil
}

func parseOptionalDate(field string, value *string) (*datatypes.Date, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := validator.ParseDate(*value)
	if err != nil {
		return nil, validator.NewValidationError(field, "must be a date formatted as YYYY-MM-DD", *value)
	}
	d := datatypes.Date(t)
	return &d, nil
}
