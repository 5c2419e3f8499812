package models

import (
	"time"

	"gorm.io/gorm"
)

type Chapter struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Address   string         `json:"address" gorm:"size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Chapter) TableName() string {
	return "chapters"
}
