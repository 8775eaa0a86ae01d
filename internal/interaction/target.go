package interaction

import (
	"github.com/3pWEBQUERY/TGND/internal/models"

	"gorm.io/gorm"
)

type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetReply   TargetKind = "reply"
)

// LikeTarget names the single entity a like applies to. It is a tagged union
// built through the constructors below, so a target always carries exactly one
// kind and id; the nullable foreign keys on the Like row are an encoding
// detail it hides.
type LikeTarget struct {
	kind TargetKind
	id   string
}

func PostTarget(postID string) LikeTarget {
	return LikeTarget{kind: TargetPost, id: postID}
}

func CommentTarget(commentID string) LikeTarget {
	return LikeTarget{kind: TargetComment, id: commentID}
}

func ReplyTarget(replyID string) LikeTarget {
	return LikeTarget{kind: TargetReply, id: replyID}
}

func (t LikeTarget) Kind() TargetKind { return t.kind }
func (t LikeTarget) ID() string       { return t.id }

// apply sets the matching foreign key on a Like row, leaving the other two nil.
func (t LikeTarget) apply(l *models.Like) {
	id := t.id
	switch t.kind {
	case TargetPost:
		l.PostID = &id
	case TargetComment:
		l.CommentID = &id
	case TargetReply:
		l.ReplyID = &id
	}
}

// scope filters a Like query down to this target.
func (t LikeTarget) scope(tx *gorm.DB) *gorm.DB {
	switch t.kind {
	case TargetPost:
		return tx.Where("post_id = ?", t.id)
	case TargetComment:
		return tx.Where("comment_id = ?", t.id)
	case TargetReply:
		return tx.Where("reply_id = ?", t.id)
	}
	return tx
}

// exists reports whether the target row is present.
func (t LikeTarget) exists(tx *gorm.DB) (bool, error) {
	var count int64
	var err error
	switch t.kind {
	case TargetPost:
		err = tx.Model(&models.Post{}).Where("id = ?", t.id).Count(&count).Error
	case TargetComment:
		err = tx.Model(&models.Comment{}).Where("id = ?", t.id).Count(&count).Error
	case TargetReply:
		err = tx.Model(&models.Reply{}).Where("id = ?", t.id).Count(&count).Error
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
