package validator

// ===== USERS (MENTORS) =====

// UserCreateRequest represents the request structure for creating mentors
type UserCreateRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	FirstName       string `json:"first_name" validate:"required,not_blank,max=100"`
	LastName        string `json:"last_name" validate:"required,not_blank,max=100"`
	Mobile          string `json:"mobile" validate:"omitempty,max=50"`
	AddressStreet   string `json:"address_street" validate:"omitempty,max=255"`
	AddressSuburb   string `json:"address_suburb" validate:"omitempty,max=100"`
	AddressState    string `json:"address_state" validate:"omitempty,max=50"`
	AddressPostcode string `json:"address_postcode" validate:"omitempty,max=10"`
	ChapterID       uint   `json:"chapter_id" validate:"required"`
}

// UserUpdateRequest represents the request structure for updating mentors
type UserUpdateRequest struct {
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName       *string `json:"first_name" validate:"omitempty,not_blank,max=100"`
	LastName        *string `json:"last_name" validate:"omitempty,not_blank,max=100"`
	Mobile          *string `json:"mobile" validate:"omitempty,max=50"`
	AddressStreet   *string `json:"address_street" validate:"omitempty,max=255"`
	AddressSuburb   *string `json:"address_suburb" validate:"omitempty,max=100"`
	AddressState    *string `json:"address_state" validate:"omitempty,max=50"`
	AddressPostcode *string `json:"address_postcode" validate:"omitempty,max=10"`
	ChapterID       *uint   `json:"chapter_id" validate:"omitempty,min=1"`
}

// WWCCheckRequest updates a mentor's Working-With-Children check
type WWCCheckRequest struct {
	WWCNumber  string  `json:"wwc_number" validate:"required,not_blank,max=50"`
	ExpiryDate string  `json:"expiry_date" validate:"required,date_string"`
	FilePath   *string `json:"file_path" validate:"omitempty,max=500"`
}

// PoliceCheckRequest updates a mentor's police check
type PoliceCheckRequest struct {
	ExpiryDate string  `json:"expiry_date" validate:"required,date_string"`
	FilePath   *string `json:"file_path" validate:"omitempty,max=500"`
}

// ===== CHAPTERS =====

type ChapterRequest struct {
	Name    string `json:"name" validate:"required,not_blank,max=100"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

// ===== STUDENTS =====

type StudentCreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required,not_blank,max=100"`
	LastName    string  `json:"last_name" validate:"required,not_blank,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date_string"`
	Gender      string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Address     string  `json:"address" validate:"omitempty,max=255"`
	SchoolName  string  `json:"school_name" validate:"omitempty,max=255"`
	ChapterID   uint    `json:"chapter_id" validate:"required"`
}

type StudentUpdateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,not_blank,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,not_blank,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date_string"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	SchoolName  *string `json:"school_name" validate:"omitempty,max=255"`
	ChapterID   *uint   `json:"chapter_id" validate:"omitempty,min=1"`
}

type GuardianRequest struct {
	FullName     string `json:"full_name" validate:"required,not_blank,max=200"`
	Relationship string `json:"relationship" validate:"required,not_blank,max=50"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
	Address      string `json:"address" validate:"omitempty,max=255"`
}

type TeacherRequest struct {
	FullName   string `json:"full_name" validate:"required,not_blank,max=200"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	SchoolName string `json:"school_name" validate:"omitempty,max=255"`
}

type MentorAssignmentRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// ===== SESSIONS =====

type SessionCreateRequest struct {
	ChapterID  uint   `json:"chapter_id" validate:"required"`
	MentorID   uint   `json:"mentor_id" validate:"required"`
	StudentID  *uint  `json:"student_id" validate:"omitempty,min=1"`
	AttendedOn string `json:"attended_on" validate:"required,date_string"`
}

type SessionAssignmentRequest struct {
	MentorID  uint `json:"mentor_id" validate:"required"`
	StudentID uint `json:"student_id" validate:"required"`
}

type SessionCompleteRequest struct {
	Report string `json:"report" validate:"required,not_blank,max=10000"`
}

// ===== DIRECTORY PERMISSIONS =====

type RoleAssignmentRequest struct {
	RoleID string `json:"role_id" validate:"required,uuid"`
}
