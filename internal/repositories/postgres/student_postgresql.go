package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

var studentSortColumns = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"created_at": "created_at",
	"id":         "id",
}

// ===== BASIC CRUD OPERATIONS =====

func (r *StudentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}
	return nil
}

func (r *StudentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("Chapter").
		Preload("Guardians", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Teachers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&student, id).Error
	if err != nil {
		return nil, handleDBError(err, "get student by id")
	}
	return &student, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(student).Error; err != nil {
		return handleDBError(err, "update student")
	}
	return nil
}

func (r *StudentPostgreSQL) Archive(ctx context.Context, id uint, endDate time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("end_date", endDate)
	if result.Error != nil {
		return handleDBError(result.Error, "archive student")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "archive student")
	}
	return nil
}

func (r *StudentPostgreSQL) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	var (
		students []*models.Student
		total    int64
	)

	query := r.db.WithContext(ctx).Model(&models.Student{})
	if filters.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filters.ChapterID)
	}
	if strings.TrimSpace(filters.Query) != "" {
		pattern := searchPattern(filters.Query)
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}
	if !filters.IncludeArchived {
		query = query.Where("end_date IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count students")
	}

	query = applyPaginationAndSort(query.Preload("Chapter"), studentSortColumns, "first_name",
		filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, handleDBError(err, "list students")
	}
	return students, total, nil
}

func (r *StudentPostgreSQL) ListOptions(ctx context.Context, chapterID uint) ([]models.Option, error) {
	var options []models.Option
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select(fullNameSelect).
		Where("chapter_id = ? AND end_date IS NULL", chapterID).
		Order("first_name ASC, last_name ASC").
		Scan(&options).Error
	if err != nil {
		return nil, handleDBError(err, "list student options")
	}
	return options, nil
}

// ===== GUARDIANS =====

func (r *StudentPostgreSQL) GetGuardian(ctx context.Context, studentID, guardianID uint) (*models.StudentGuardian, error) {
	var guardian models.StudentGuardian
	err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", guardianID, studentID).
		First(&guardian).Error
	if err != nil {
		return nil, handleDBError(err, "get guardian")
	}
	return &guardian, nil
}

func (r *StudentPostgreSQL) CreateGuardian(ctx context.Context, guardian *models.StudentGuardian) error {
	return handleDBError(r.db.WithContext(ctx).Create(guardian).Error, "create guardian")
}

func (r *StudentPostgreSQL) UpdateGuardian(ctx context.Context, guardian *models.StudentGuardian) error {
	return handleDBError(r.db.WithContext(ctx).Save(guardian).Error, "update guardian")
}

func (r *StudentPostgreSQL) DeleteGuardian(ctx context.Context, studentID, guardianID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", guardianID, studentID).
		Delete(&models.StudentGuardian{})
	if result.Error != nil {
		return handleDBError(result.Error, "delete guardian")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete guardian")
	}
	return nil
}

// ===== TEACHERS =====

func (r *StudentPostgreSQL) GetTeacher(ctx context.Context, studentID, teacherID uint) (*models.StudentTeacher, error) {
	var teacher models.StudentTeacher
	err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", teacherID, studentID).
		First(&teacher).Error
	if err != nil {
		return nil, handleDBError(err, "get teacher")
	}
	return &teacher, nil
}

func (r *StudentPostgreSQL) CreateTeacher(ctx context.Context, teacher *models.StudentTeacher) error {
	return handleDBError(r.db.WithContext(ctx).Create(teacher).Error, "create teacher")
}

func (r *StudentPostgreSQL) UpdateTeacher(ctx context.Context, teacher *models.StudentTeacher) error {
	return handleDBError(r.db.WithContext(ctx).Save(teacher).Error, "update teacher")
}

func (r *StudentPostgreSQL) DeleteTeacher(ctx context.Context, studentID, teacherID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", teacherID, studentID).
		Delete(&models.StudentTeacher{})
	if result.Error != nil {
		return handleDBError(result.Error, "delete teacher")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete teacher")
	}
	return nil
}

// ===== MENTOR ASSIGNMENTS =====

func (r *StudentPostgreSQL) AssignMentor(ctx context.Context, userID, studentID uint) error {
	assignment := &models.MentorAssignment{UserID: userID, StudentID: studentID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(assignment).Error
	return handleDBError(err, "assign mentor")
}

func (r *StudentPostgreSQL) UnassignMentor(ctx context.Context, userID, studentID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND student_id = ?", userID, studentID).
		Delete(&models.MentorAssignment{})
	if result.Error != nil {
		return handleDBError(result.Error, "unassign mentor")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "unassign mentor")
	}
	return nil
}

func (r *StudentPostgreSQL) ListMentees(ctx context.Context, userID uint) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.WithContext(ctx).
		Joins("JOIN mentor_assignments ON mentor_assignments.student_id = students.id").
		Where("mentor_assignments.user_id = ?", userID).
		Order("students.first_name ASC").
		Find(&students).Error
	if err != nil {
		return nil, handleDBError(err, "list mentees")
	}
	return students, nil
}

func (r *StudentPostgreSQL) ListAssignedMentorOptions(ctx context.Context, chapterID uint, studentID *uint) ([]models.Option, error) {
	var options []models.Option
	if err := assignedMentorsQuery(r.db.WithContext(ctx), chapterID, studentID).Scan(&options).Error; err != nil {
		return nil, handleDBError(err, "list assigned mentor options")
	}
	return options, nil
}

func (r *StudentPostgreSQL) ListAssignedStudentOptions(ctx context.Context, chapterID uint, mentorID *uint) ([]models.Option, error) {
	var options []models.Option
	if err := assignedStudentsQuery(r.db.WithContext(ctx), chapterID, mentorID).Scan(&options).Error; err != nil {
		return nil, handleDBError(err, "list assigned student options")
	}
	return options, nil
}

func assignedMentorsQuery(db *gorm.DB, chapterID uint, studentID *uint) *gorm.DB {
	assignments := db.Session(&gorm.Session{NewDB: true}).
		Table("mentor_assignments").
		Select("1").
		Where("mentor_assignments.user_id = users.id")
	if studentID != nil {
		assignments = assignments.Where("mentor_assignments.student_id = ?", *studentID)
	}
	return db.Model(&models.User{}).
		Select(fullNameSelect).
		Where("users.chapter_id = ? AND users.end_date IS NULL", chapterID).
		Where("EXISTS (?)", assignments).
		Order("first_name ASC, last_name ASC")
}

func assignedStudentsQuery(db *gorm.DB, chapterID uint, mentorID *uint) *gorm.DB {
	assignments := db.Session(&gorm.Session{NewDB: true}).
		Table("mentor_assignments").
		Select("1").
		Where("mentor_assignments.student_id = students.id")
	if mentorID != nil {
		assignments = assignments.Where("mentor_assignments.user_id = ?", *mentorID)
	}
	return db.Model(&models.Student{}).
		Select(fullNameSelect).
		Where("students.chapter_id = ? AND students.end_date IS NULL", chapterID).
		Where("EXISTS (?)", assignments).
		Order("first_name ASC, last_name ASC")
}

func (r *StudentPostgreSQL) ListMentorIDs(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.MentorAssignment{}).
		Where("student_id = ?", studentID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, handleDBError(err, "list mentor ids")
	}
	return ids, nil
}
