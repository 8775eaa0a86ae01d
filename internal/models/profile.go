package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the public-facing account details. One profile per user.
type Profile struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	DisplayName  string    `gorm:"size:50" json:"displayName"`
	PhoneNumber  string    `gorm:"size:30" json:"phoneNumber"`
	Location     string    `gorm:"size:100" json:"location"`
	Gender       string    `gorm:"size:20" json:"gender"`
	Age          int       `json:"age"`
	Bio          string    `gorm:"size:500" json:"bio"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
