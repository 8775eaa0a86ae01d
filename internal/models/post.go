package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    string    `gorm:"type:uuid;not null;index" json:"authorId"`
	Author      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Images      []string  `gorm:"serializer:json" json:"images"`
	Videos      []string  `gorm:"serializer:json" json:"videos"`
	Type        string    `gorm:"size:30;default:'standard';not null" json:"type"`
	Location    string    `gorm:"size:100" json:"location"`
	IsPublished bool      `gorm:"default:true" json:"isPublished"`
	Poll        *Poll     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"poll,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
