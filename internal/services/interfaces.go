package services

import (
	"context"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

// ===== REQUEST / RESPONSE TYPES =====

type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest
type WWCCheckRequest = validator.WWCCheckRequest
type PoliceCheckRequest = validator.PoliceCheckRequest

type ChapterRequest = validator.ChapterRequest

type CreateStudentRequest = validator.StudentCreateRequest
type UpdateStudentRequest = validator.StudentUpdateRequest
type GuardianRequest = validator.GuardianRequest
type TeacherRequest = validator.TeacherRequest

type CreateSessionRequest = validator.SessionCreateRequest
type SessionAssignmentRequest = validator.SessionAssignmentRequest
type CompleteSessionRequest = validator.SessionCompleteRequest

type RoleAssignmentRequest = validator.RoleAssignmentRequest

// DirectoryUserResponse is a directory identity with its classified roles
type DirectoryUserResponse struct {
	*models.ExternalIdentity
	Roles models.RoleSet `json:"roles"`
}

// LandingResponse tells the client where a signed-in identity belongs
type LandingResponse struct {
	Landing  models.Landing `json:"landing"`
	Redirect string         `json:"redirect"`
}

// MentorOption is a mentor offered when booking a session for a student.
// Assigned mentors come first.
type MentorOption struct {
	models.Option
	IsAssigned bool `json:"is_assigned"`
}

// SessionFilterOptions are the drop-down values of the session list
type SessionFilterOptions struct {
	Mentors  []models.Option `json:"mentors"`
	Students []models.Option `json:"students"`
}

// ===== SERVICES =====

// ProvisioningService grants directory access to local mentors
type ProvisioningService interface {
	// GiveAccess invites the user into the directory, assigns the Mentor role
	// and links the local record to the new identity.
	GiveAccess(ctx context.Context, userID uint) (*models.User, error)
}

// AccessService answers who the signed-in identity is and where it lands
type AccessService interface {
	CurrentRoles(ctx context.Context, azureID string) (models.RoleSet, *models.ExternalIdentity, error)
	Landing(ctx context.Context, azureID string) (*LandingResponse, error)
	SignVolunteerAgreement(ctx context.Context, azureID string) (*models.User, error)
}

// PermissionService administers directory role assignments
type PermissionService interface {
	ListDirectoryUsers(ctx context.Context) ([]*DirectoryUserResponse, error)
	GetDirectoryUser(ctx context.Context, azureID string) (*DirectoryUserResponse, error)
	ListRoles(ctx context.Context) ([]models.AppRole, error)
	AssignRole(ctx context.Context, azureID string, req *RoleAssignmentRequest) (*models.AssignmentResult, error)
	RemoveRole(ctx context.Context, assignmentID string) error
}

type UserService interface {
	List(ctx context.Context, filters repositories.UserFilters) (*models.PageResponse, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error)
	Archive(ctx context.Context, id uint) error

	UpdateWWCCheck(ctx context.Context, id uint, req *WWCCheckRequest) (*models.WWCCheck, error)
	UpdatePoliceCheck(ctx context.Context, id uint, req *PoliceCheckRequest) (*models.PoliceCheck, error)
}

type ChapterService interface {
	List(ctx context.Context) ([]*models.Chapter, error)
	GetByID(ctx context.Context, id uint) (*models.Chapter, error)
	Create(ctx context.Context, req *ChapterRequest) (*models.Chapter, error)
	Update(ctx context.Context, id uint, req *ChapterRequest) (*models.Chapter, error)
	ListMentors(ctx context.Context, id uint) ([]models.Option, error)
	ListStudents(ctx context.Context, id uint) ([]models.Option, error)
}

type StudentService interface {
	List(ctx context.Context, filters repositories.StudentFilters) (*models.PageResponse, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id uint, req *UpdateStudentRequest) (*models.Student, error)
	Archive(ctx context.Context, id uint) error

	AddGuardian(ctx context.Context, studentID uint, req *GuardianRequest) (*models.StudentGuardian, error)
	UpdateGuardian(ctx context.Context, studentID, guardianID uint, req *GuardianRequest) (*models.StudentGuardian, error)
	RemoveGuardian(ctx context.Context, studentID, guardianID uint) error

	AddTeacher(ctx context.Context, studentID uint, req *TeacherRequest) (*models.StudentTeacher, error)
	UpdateTeacher(ctx context.Context, studentID, teacherID uint, req *TeacherRequest) (*models.StudentTeacher, error)
	RemoveTeacher(ctx context.Context, studentID, teacherID uint) error

	AssignMentor(ctx context.Context, studentID, userID uint) error
	UnassignMentor(ctx context.Context, studentID, userID uint) error
	ListMentees(ctx context.Context, userID uint) ([]*models.Student, error)
}

type SessionService interface {
	List(ctx context.Context, filters repositories.SessionFilters) (*models.PageResponse, error)
	Count(ctx context.Context, filters repositories.SessionFilters) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.MentorSession, error)
	Create(ctx context.Context, req *CreateSessionRequest) (*models.MentorSession, error)
	UpdateAssignment(ctx context.Context, id uint, req *SessionAssignmentRequest) (*models.MentorSession, error)
	Remove(ctx context.Context, id uint) error
	Complete(ctx context.Context, id uint, req *CompleteSessionRequest) (*models.MentorSession, error)
	SignOff(ctx context.Context, id uint) (*models.MentorSession, error)

	MentorsForStudent(ctx context.Context, chapterID, studentID uint) ([]MentorOption, error)
	// FilterOptions lists mentors and students linked by an assignment; a
	// selected mentor narrows the students and a selected student the mentors
	FilterOptions(ctx context.Context, chapterID uint, mentorID, studentID *uint) (*SessionFilterOptions, error)
	// Export renders every session matching filters as an XLSX workbook
	Export(ctx context.Context, filters repositories.SessionFilters) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Provisioning() ProvisioningService
	Access() AccessService
	Permission() PermissionService
	User() UserService
	Chapter() ChapterService
	Student() StudentService
	Session() SessionService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
