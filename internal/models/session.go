package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MentorSession is one mentoring session between a mentor and a student on a
// chapter day.
type MentorSession struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	ChapterID uint     `json:"chapter_id" gorm:"not null;index"`
	Chapter   *Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`
	UserID    uint     `json:"user_id" gorm:"not null;index"`
	User      *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StudentID *uint    `json:"student_id" gorm:"index"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`

	AttendedOn  datatypes.Date `json:"attended_on" gorm:"not null;index"`
	CompletedOn *time.Time     `json:"completed_on"`
	SignedOffOn *time.Time     `json:"signed_off_on"`
	IsCancelled bool           `json:"is_cancelled" gorm:"default:false"`
	Report      *string        `json:"report" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (MentorSession) TableName() string {
	return "mentor_sessions"
}

func (s *MentorSession) IsCompleted() bool {
	return s.CompletedOn != nil
}

func (s *MentorSession) IsSignedOff() bool {
	return s.SignedOffOn != nil
}
