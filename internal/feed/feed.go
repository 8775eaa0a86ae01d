// Package feed assembles the annotated post pages the dashboard renders:
// posts newest-first with author, like/comment counts, the viewer's like
// status, the two most recent comments and poll tallies.
package feed

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/3pWEBQUERY/TGND/internal/cache"
	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/models"

	"gorm.io/gorm"
)

// ErrPostNotFound means the requested post row is missing.
var ErrPostNotFound = errors.New("feed: post not found")

const (
	defaultLimit = 10
	maxLimit     = 100
	// recentComments is how many newest comments ride along with each feed post.
	recentComments = 2
	countCacheTTL  = time.Minute
)

type Service struct {
	db     *gorm.DB
	engine *interaction.Engine
	counts *cache.Cache
}

// NewService wires the feed reader. counts may be nil to disable count caching
// (tests do this).
func NewService(db *gorm.DB, engine *interaction.Engine, counts *cache.Cache) *Service {
	return &Service{db: db, engine: engine, counts: counts}
}

// Options filter and page the feed. Type "all" (or "") means no type filter.
type Options struct {
	Page     int
	Limit    int
	AuthorID string
	Type     string
}

type Pagination struct {
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// PollView is the poll block attached to a feed post.
type PollView struct {
	ID         string                     `json:"id"`
	PostID     string                     `json:"postId"`
	Question   string                     `json:"question"`
	Options    []interaction.OptionResult `json:"options"`
	TotalVotes int                        `json:"totalVotes"`
	HasVoted   bool                       `json:"hasVoted"`
}

// CommentView annotates a comment with its tallies for the viewer.
type CommentView struct {
	models.Comment
	LikeCount     int64 `json:"likeCount"`
	ReplyCount    int64 `json:"replyCount"`
	LikedByViewer bool  `json:"likedByViewer"`
}

// ReplyView annotates a reply with its tallies for the viewer.
type ReplyView struct {
	models.Reply
	LikeCount     int64 `json:"likeCount"`
	LikedByViewer bool  `json:"likedByViewer"`
}

// PostView is one feed entry.
type PostView struct {
	models.Post
	LikeCount      int64         `json:"likeCount"`
	CommentCount   int64         `json:"commentCount"`
	LikedByViewer  bool          `json:"likedByViewer"`
	RecentComments []CommentView `json:"recentComments"`
	Poll           *PollView     `json:"poll,omitempty"`
}

type PageResult struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// Page returns one page of the feed for the viewer, newest-first. Pagination
// is offset-based; concurrent inserts between fetches can repeat or skip
// entries across pages.
func (s *Service) Page(viewerID string, opts Options) (*PageResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := (page - 1) * limit

	filtered := func(tx *gorm.DB) *gorm.DB {
		if opts.AuthorID != "" {
			tx = tx.Where("author_id = ?", opts.AuthorID)
		}
		if opts.Type != "" && opts.Type != "all" {
			tx = tx.Where("type = ?", opts.Type)
		}
		return tx
	}

	total, err := s.totalPosts(filtered, opts)
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	err = filtered(s.db.Preload("Author").Preload("Author.Profile").Preload("Poll").Preload("Poll.Options")).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	views, err := s.annotatePosts(viewerID, posts)
	if err != nil {
		return nil, err
	}

	return &PageResult{
		Posts: views,
		Pagination: Pagination{
			Total: total,
			Pages: totalPages(total, limit),
			Page:  page,
			Limit: limit,
		},
	}, nil
}

// totalPosts counts posts matching the filters, caching the result briefly.
// The count drives pagination only, so a slightly stale value is acceptable.
func (s *Service) totalPosts(filtered func(*gorm.DB) *gorm.DB, opts Options) (int64, error) {
	key := fmt.Sprintf("feed:count:%s:%s", opts.AuthorID, opts.Type)
	if s.counts != nil {
		if cached := s.counts.Get(key); cached != nil {
			return cached.(int64), nil
		}
	}

	var total int64
	if err := filtered(s.db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return 0, err
	}
	if s.counts != nil {
		s.counts.Set(key, total, countCacheTTL)
	}
	return total, nil
}

// InvalidateCounts drops the cached totals for an author. Called after post
// create/delete so fresh pages do not undercount.
func (s *Service) InvalidateCounts(authorID, postType string) {
	if s.counts == nil {
		return
	}
	for _, author := range []string{"", authorID} {
		for _, t := range []string{"", "all", postType} {
			s.counts.Delete(fmt.Sprintf("feed:count:%s:%s", author, t))
		}
	}
}

// annotatePosts fills counts, viewer flags, recent comments and poll tallies
// with batch queries over the page's post IDs.
func (s *Service) annotatePosts(viewerID string, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likeCounts, err := s.groupCount(&models.Like{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.groupCount(&models.Comment{}, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	likedSet, err := s.viewerLiked(viewerID, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	recent, err := s.recentCommentsByPost(viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	for i, p := range posts {
		view := PostView{
			Post:           p,
			LikeCount:      likeCounts[p.ID],
			CommentCount:   commentCounts[p.ID],
			LikedByViewer:  likedSet[p.ID],
			RecentComments: recent[p.ID],
		}
		if view.RecentComments == nil {
			view.RecentComments = []CommentView{}
		}
		if p.Poll != nil {
			poll, err := s.pollView(viewerID, p.Poll)
			if err != nil {
				return nil, err
			}
			view.Poll = poll
			view.Post.Poll = nil
		}
		views[i] = view
	}
	return views, nil
}

// recentCommentsByPost loads the newest comments for a batch of posts and
// keeps the top few per post.
func (s *Service) recentCommentsByPost(viewerID string, postIDs []string) (map[string][]CommentView, error) {
	var comments []models.Comment
	err := s.db.Preload("Author").Preload("Author.Profile").
		Where("post_id IN ?", postIDs).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	kept := make([]models.Comment, 0, len(postIDs)*recentComments)
	perPost := make(map[string]int)
	for _, c := range comments {
		if perPost[c.PostID] < recentComments {
			kept = append(kept, c)
			perPost[c.PostID]++
		}
	}

	views, err := s.annotateComments(viewerID, kept)
	if err != nil {
		return nil, err
	}

	byPost := make(map[string][]CommentView)
	for _, v := range views {
		byPost[v.PostID] = append(byPost[v.PostID], v)
	}
	return byPost, nil
}

// annotateComments fills like/reply counts and the viewer's like flag.
func (s *Service) annotateComments(viewerID string, comments []models.Comment) ([]CommentView, error) {
	views := make([]CommentView, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	likeCounts, err := s.groupCount(&models.Like{}, "comment_id", ids)
	if err != nil {
		return nil, err
	}
	replyCounts, err := s.groupCount(&models.Reply{}, "comment_id", ids)
	if err != nil {
		return nil, err
	}
	likedSet, err := s.viewerLiked(viewerID, "comment_id", ids)
	if err != nil {
		return nil, err
	}

	for i, c := range comments {
		views[i] = CommentView{
			Comment:       c,
			LikeCount:     likeCounts[c.ID],
			ReplyCount:    replyCounts[c.ID],
			LikedByViewer: likedSet[c.ID],
		}
	}
	return views, nil
}

func (s *Service) annotateReplies(viewerID string, replies []models.Reply) ([]ReplyView, error) {
	views := make([]ReplyView, len(replies))
	if len(replies) == 0 {
		return views, nil
	}

	ids := make([]string, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}

	likeCounts, err := s.groupCount(&models.Like{}, "reply_id", ids)
	if err != nil {
		return nil, err
	}
	likedSet, err := s.viewerLiked(viewerID, "reply_id", ids)
	if err != nil {
		return nil, err
	}

	for i, r := range replies {
		views[i] = ReplyView{
			Reply:         r,
			LikeCount:     likeCounts[r.ID],
			LikedByViewer: likedSet[r.ID],
		}
	}
	return views, nil
}

func (s *Service) pollView(viewerID string, poll *models.Poll) (*PollView, error) {
	results, err := s.engine.ResultsForPoll(viewerID, poll)
	if err != nil {
		return nil, err
	}
	return &PollView{
		ID:         poll.ID,
		PostID:     poll.PostID,
		Question:   poll.Question,
		Options:    results.Options,
		TotalVotes: results.TotalVotes,
		HasVoted:   results.HasVoted,
	}, nil
}

// groupCount batch-counts rows grouped by fk for the given ids.
func (s *Service) groupCount(model interface{}, fk string, ids []string) (map[string]int64, error) {
	type countRow struct {
		ID    string
		Count int64
	}
	var rows []countRow
	err := s.db.Model(model).
		Select(fmt.Sprintf("%s AS id, COUNT(*) AS count", fk)).
		Where(fmt.Sprintf("%s IN ?", fk), ids).
		Group(fk).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.Count
	}
	return counts, nil
}

// viewerLiked returns the set of target ids (under fk) the viewer has liked.
func (s *Service) viewerLiked(viewerID, fk string, ids []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if viewerID == "" {
		return liked, nil
	}

	var rows []string
	err := s.db.Model(&models.Like{}).
		Where("user_id = ?", viewerID).
		Where(fmt.Sprintf("%s IN ?", fk), ids).
		Pluck(fk, &rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range rows {
		liked[id] = true
	}
	return liked, nil
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}
