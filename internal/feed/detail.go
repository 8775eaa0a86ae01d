package feed

import (
	"errors"

	"github.com/3pWEBQUERY/TGND/internal/models"

	"gorm.io/gorm"
)

// CommentDetail is a comment in the single-post view: annotated and carrying
// its full reply thread oldest-first.
type CommentDetail struct {
	CommentView
	Replies []ReplyView `json:"replies"`
}

// PostDetail is the single-post view with the complete comment thread.
type PostDetail struct {
	models.Post
	LikeCount     int64           `json:"likeCount"`
	CommentCount  int64           `json:"commentCount"`
	LikedByViewer bool            `json:"likedByViewer"`
	Comments      []CommentDetail `json:"comments"`
	Poll          *PollView       `json:"poll,omitempty"`
}

// Post loads one post with its thread. Comments and replies come back
// oldest-first so the thread reads top to bottom.
func (s *Service) Post(viewerID, postID string) (*PostDetail, error) {
	var post models.Post
	err := s.db.Preload("Author").Preload("Author.Profile").
		Preload("Poll").Preload("Poll.Options").
		First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	err = s.db.Preload("Author").Preload("Author.Profile").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	commentViews, err := s.annotateComments(viewerID, comments)
	if err != nil {
		return nil, err
	}

	commentIDs := make([]string, len(comments))
	for i, c := range comments {
		commentIDs[i] = c.ID
	}
	repliesByComment, err := s.repliesByComment(viewerID, commentIDs)
	if err != nil {
		return nil, err
	}

	details := make([]CommentDetail, len(commentViews))
	for i, cv := range commentViews {
		replies := repliesByComment[cv.ID]
		if replies == nil {
			replies = []ReplyView{}
		}
		details[i] = CommentDetail{CommentView: cv, Replies: replies}
	}

	likeCounts, err := s.groupCount(&models.Like{}, "post_id", []string{post.ID})
	if err != nil {
		return nil, err
	}
	likedSet, err := s.viewerLiked(viewerID, "post_id", []string{post.ID})
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{
		Post:          post,
		LikeCount:     likeCounts[post.ID],
		CommentCount:  int64(len(comments)),
		LikedByViewer: likedSet[post.ID],
		Comments:      details,
	}
	if post.Poll != nil {
		poll, err := s.pollView(viewerID, post.Poll)
		if err != nil {
			return nil, err
		}
		detail.Poll = poll
		detail.Post.Poll = nil
	}
	return detail, nil
}

func (s *Service) repliesByComment(viewerID string, commentIDs []string) (map[string][]ReplyView, error) {
	byComment := make(map[string][]ReplyView)
	if len(commentIDs) == 0 {
		return byComment, nil
	}

	var replies []models.Reply
	err := s.db.Preload("Author").Preload("Author.Profile").
		Where("comment_id IN ?", commentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	views, err := s.annotateReplies(viewerID, replies)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		byComment[v.CommentID] = append(byComment[v.CommentID], v)
	}
	return byComment, nil
}

type CommentPageResult struct {
	Comments   []CommentDetail `json:"comments"`
	Pagination Pagination      `json:"pagination"`
}

// Comments returns one page of a post's comments, newest-first, each with its
// replies. Returns ErrPostNotFound when the post is missing.
func (s *Service) Comments(viewerID, postID string, page, limit int) (*CommentPageResult, error) {
	var exists int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrPostNotFound
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var total int64
	if err := s.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Preload("Author").Preload("Author.Profile").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	views, err := s.annotateComments(viewerID, comments)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	repliesByComment, err := s.repliesByComment(viewerID, ids)
	if err != nil {
		return nil, err
	}

	details := make([]CommentDetail, len(views))
	for i, v := range views {
		replies := repliesByComment[v.ID]
		if replies == nil {
			replies = []ReplyView{}
		}
		details[i] = CommentDetail{CommentView: v, Replies: replies}
	}

	return &CommentPageResult{
		Comments: details,
		Pagination: Pagination{
			Total: total,
			Pages: totalPages(total, limit),
			Page:  page,
			Limit: limit,
		},
	}, nil
}
