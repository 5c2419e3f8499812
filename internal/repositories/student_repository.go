package repositories

import (
	"context"
	"time"

	"github.com/achievers-club/mentoring-service/internal/models"
)

// StudentRepository covers students, their guardians and teachers, and
// mentor assignments
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Archive(ctx context.Context, id uint, endDate time.Time) error
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, int64, error)
	ListOptions(ctx context.Context, chapterID uint) ([]models.Option, error)

	// Guardians
	GetGuardian(ctx context.Context, studentID, guardianID uint) (*models.StudentGuardian, error)
	CreateGuardian(ctx context.Context, guardian *models.StudentGuardian) error
	UpdateGuardian(ctx context.Context, guardian *models.StudentGuardian) error
	DeleteGuardian(ctx context.Context, studentID, guardianID uint) error

	// Teachers
	GetTeacher(ctx context.Context, studentID, teacherID uint) (*models.StudentTeacher, error)
	CreateTeacher(ctx context.Context, teacher *models.StudentTeacher) error
	UpdateTeacher(ctx context.Context, teacher *models.StudentTeacher) error
	DeleteTeacher(ctx context.Context, studentID, teacherID uint) error

	// Mentor assignments
	AssignMentor(ctx context.Context, userID, studentID uint) error
	UnassignMentor(ctx context.Context, userID, studentID uint) error
	ListMentees(ctx context.Context, userID uint) ([]*models.Student, error)
	ListMentorIDs(ctx context.Context, studentID uint) ([]uint, error)
	// ListAssignedMentorOptions lists the chapter's mentors with at least one
	// assigned student, or with studentID assigned when it is set
	ListAssignedMentorOptions(ctx context.Context, chapterID uint, studentID *uint) ([]models.Option, error)
	// ListAssignedStudentOptions is the counterpart for students
	ListAssignedStudentOptions(ctx context.Context, chapterID uint, mentorID *uint) ([]models.Option, error)
}
