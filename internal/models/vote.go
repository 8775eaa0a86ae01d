package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote links a user to a poll option. The unique index blocks duplicate votes
// for the same option; one-vote-per-poll across options is enforced by the
// interaction engine, which switches the OptionID of an existing row instead
// of inserting a second one.
type Vote struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index;uniqueIndex:idx_vote_user_option" json:"userId"`
	OptionID  string     `gorm:"type:uuid;not null;index;uniqueIndex:idx_vote_user_option" json:"optionId"`
	Option    PollOption `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
