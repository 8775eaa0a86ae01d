package interaction

import (
	"errors"

	"github.com/3pWEBQUERY/TGND/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrTargetNotFound means the post/comment/reply the action refers to is gone.
	ErrTargetNotFound = errors.New("interaction: target not found")
	// ErrAlreadyLiked means a like for (user, target) already exists.
	ErrAlreadyLiked = errors.New("interaction: already liked")
	// ErrLikeNotFound means there is no like for (user, target) to remove.
	ErrLikeNotFound = errors.New("interaction: like not found")
)

// Engine enforces the uniqueness invariants on likes and votes and aggregates
// counts for display. It holds the injected database handle; handlers own
// request parsing, the engine owns the rules.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Like creates a like for (user, target). Returns ErrAlreadyLiked when one
// exists and ErrTargetNotFound when the target row is missing.
func (e *Engine) Like(userID string, target LikeTarget) (*models.Like, error) {
	ok, err := target.exists(e.db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTargetNotFound
	}

	var existing models.Like
	err = target.scope(e.db.Where("user_id = ?", userID)).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyLiked
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	like := models.Like{UserID: userID}
	target.apply(&like)
	if err := e.db.Create(&like).Error; err != nil {
		// Two concurrent identical requests can both pass the check above;
		// the composite unique index turns the loser into a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return &like, nil
}

// Unlike removes the like for (user, target). Returns ErrLikeNotFound when
// there is none and ErrTargetNotFound when the target row is missing.
func (e *Engine) Unlike(userID string, target LikeTarget) error {
	ok, err := target.exists(e.db)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTargetNotFound
	}

	var like models.Like
	err = target.scope(e.db.Where("user_id = ?", userID)).First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLikeNotFound
	}
	if err != nil {
		return err
	}

	return e.db.Delete(&like).Error
}

// Liked reports whether the user has liked the target.
func (e *Engine) Liked(userID string, target LikeTarget) (bool, error) {
	var count int64
	err := target.scope(e.db.Model(&models.Like{}).Where("user_id = ?", userID)).
		Count(&count).Error
	return count > 0, err
}

// LikeCount returns the number of likes on the target.
func (e *Engine) LikeCount(target LikeTarget) (int64, error) {
	var count int64
	err := target.scope(e.db.Model(&models.Like{})).Count(&count).Error
	return count, err
}
