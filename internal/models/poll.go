package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poll is attached to exactly one post.
type Poll struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string       `gorm:"type:uuid;uniqueIndex;not null" json:"postId"`
	Question  string       `gorm:"size:500;not null" json:"question"`
	Options   []PollOption `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type PollOption struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PollID    string    `gorm:"type:uuid;not null;index" json:"pollId"`
	Text      string    `gorm:"size:200;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (o *PollOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
