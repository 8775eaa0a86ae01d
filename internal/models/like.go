package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like points at exactly one of post, comment or reply. The unique indexes
// pair the user with each target column; rows where a target column is NULL
// never collide, so the three indexes together enforce at most one like per
// (user, target) at the database level.
type Like struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_like_user_post;uniqueIndex:idx_like_user_comment;uniqueIndex:idx_like_user_reply" json:"userId"`
	PostID    *string   `gorm:"type:uuid;index;uniqueIndex:idx_like_user_post" json:"postId"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CommentID *string   `gorm:"type:uuid;index;uniqueIndex:idx_like_user_comment" json:"commentId"`
	Comment   *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ReplyID   *string   `gorm:"type:uuid;index;uniqueIndex:idx_like_user_reply" json:"replyId"`
	Reply     *Reply    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
