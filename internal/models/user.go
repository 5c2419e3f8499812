package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the local record of a mentor. AzureADID links it to a directory
// identity once access has been granted.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName string `json:"first_name" gorm:"not null;size:100"`
	LastName  string `json:"last_name" gorm:"not null;size:100"`
	Mobile    string `json:"mobile" gorm:"size:50"`

	AddressStreet   string `json:"address_street" gorm:"size:255"`
	AddressSuburb   string `json:"address_suburb" gorm:"size:100"`
	AddressState    string `json:"address_state" gorm:"size:50"`
	AddressPostcode string `json:"address_postcode" gorm:"size:10"`

	ChapterID uint     `json:"chapter_id" gorm:"not null;index"`
	Chapter   *Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`

	// Directory link
	AzureADID             *string    `json:"azure_ad_id" gorm:"uniqueIndex;size:255"`
	PendingAzureADID      *string    `json:"-" gorm:"size:255"`
	ProvisioningStartedAt *time.Time `json:"-"`

	VolunteerAgreementSignedOn *time.Time `json:"volunteer_agreement_signed_on"`
	EndDate                    *time.Time `json:"end_date"`

	WWCCheck    *WWCCheck    `json:"wwc_check,omitempty" gorm:"foreignKey:UserID"`
	PoliceCheck *PoliceCheck `json:"police_check,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasExternalIdentity reports whether the user has already been provisioned
// in the directory.
func (u *User) HasExternalIdentity() bool {
	return u.AzureADID != nil && *u.AzureADID != ""
}

func (u *User) IsArchived() bool {
	return u.EndDate != nil
}

// WWCCheck is a Working-With-Children check held by a mentor.
type WWCCheck struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	WWCNumber  string         `json:"wwc_number" gorm:"not null;size:50"`
	ExpiryDate datatypes.Date `json:"expiry_date" gorm:"not null"`
	FilePath   *string        `json:"file_path" gorm:"size:500"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (WWCCheck) TableName() string {
	return "wwc_checks"
}

// PoliceCheck is a national police check held by a mentor.
type PoliceCheck struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	ExpiryDate datatypes.Date `json:"expiry_date" gorm:"not null"`
	FilePath   *string        `json:"file_path" gorm:"size:500"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (PoliceCheck) TableName() string {
	return "police_checks"
}
