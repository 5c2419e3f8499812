package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Student struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	FirstName   string          `json:"first_name" gorm:"not null;size:100"`
	LastName    string          `json:"last_name" gorm:"not null;size:100"`
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
	Gender      string          `json:"gender" gorm:"size:20"`
	Address     string          `json:"address" gorm:"size:255"`
	SchoolName  string          `json:"school_name" gorm:"size:255"`

	ChapterID uint     `json:"chapter_id" gorm:"not null;index"`
	Chapter   *Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`

	EndDate *time.Time `json:"end_date"`

	Guardians []StudentGuardian `json:"guardians,omitempty" gorm:"foreignKey:StudentID"`
	Teachers  []StudentTeacher  `json:"teachers,omitempty" gorm:"foreignKey:StudentID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type StudentGuardian struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StudentID    uint      `json:"student_id" gorm:"not null;index"`
	FullName     string    `json:"full_name" gorm:"not null;size:200"`
	Relationship string    `json:"relationship" gorm:"not null;size:50"`
	Phone        string    `json:"phone" gorm:"size:50"`
	Email        string    `json:"email" gorm:"size:255"`
	Address      string    `json:"address" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (StudentGuardian) TableName() string {
	return "student_guardians"
}

type StudentTeacher struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"not null;index"`
	FullName   string    `json:"full_name" gorm:"not null;size:200"`
	Email      string    `json:"email" gorm:"size:255"`
	SchoolName string    `json:"school_name" gorm:"size:255"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (StudentTeacher) TableName() string {
	return "student_teachers"
}

// MentorAssignment records that a mentor is assigned to a student.
type MentorAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_mentor_student"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_mentor_student"`
	Student   *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	CreatedAt time.Time `json:"created_at"`
}

func (MentorAssignment) TableName() string {
	return "mentor_assignments"
}
