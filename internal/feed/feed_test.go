package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/3pWEBQUERY/TGND/internal/db"
	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testService(t *testing.T) (*Service, *gorm.DB, *interaction.Engine) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Migrate(gdb))

	engine := interaction.NewEngine(gdb)
	return NewService(gdb, engine, nil), gdb, engine
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Tester", Email: email, HashedPassword: "x", Role: models.RoleMember}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// seedPosts creates n posts with strictly increasing timestamps so ordering
// assertions are deterministic.
func seedPosts(t *testing.T, gdb *gorm.DB, authorID string, n int, postType string) []models.Post {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]models.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = models.Post{
			AuthorID:  authorID,
			Content:   fmt.Sprintf("post %d", i),
			Type:      postType,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(&posts[i]).Error)
	}
	return posts
}

func TestPagePagination(t *testing.T) {
	svc, gdb, _ := testService(t)
	author := seedUser(t, gdb, "author@example.com")
	seedPosts(t, gdb, author.ID, 15, "standard")

	page, err := svc.Page(author.ID, Options{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Posts, 5)
	assert.EqualValues(t, 15, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)

	// Newest first: page 2 holds the five oldest.
	assert.Equal(t, "post 4", page.Posts[0].Content)
	assert.Equal(t, "post 0", page.Posts[4].Content)
}

func TestPageFilters(t *testing.T) {
	svc, gdb, _ := testService(t)
	alice := seedUser(t, gdb, "alice@example.com")
	bob := seedUser(t, gdb, "bob@example.com")
	seedPosts(t, gdb, alice.ID, 3, "standard")
	seedPosts(t, gdb, bob.ID, 2, "event")

	page, err := svc.Page(alice.ID, Options{AuthorID: bob.ID})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)

	page, err = svc.Page(alice.ID, Options{Type: "event"})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)

	// "all" disables the type filter.
	page, err = svc.Page(alice.ID, Options{Type: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 5)
}

func TestPageAnnotations(t *testing.T) {
	svc, gdb, engine := testService(t)
	author := seedUser(t, gdb, "author@example.com")
	fan := seedUser(t, gdb, "fan@example.com")
	posts := seedPosts(t, gdb, author.ID, 1, "standard")
	post := posts[0]

	_, err := engine.Like(fan.ID, interaction.PostTarget(post.ID))
	require.NoError(t, err)

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		comment := models.Comment{
			PostID:    post.ID,
			AuthorID:  fan.ID,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(&comment).Error)
	}

	page, err := svc.Page(fan.ID, Options{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	view := page.Posts[0]
	assert.EqualValues(t, 1, view.LikeCount)
	assert.EqualValues(t, 3, view.CommentCount)
	assert.True(t, view.LikedByViewer)
	assert.Equal(t, author.ID, view.Author.ID)

	// Only the two newest comments ride along.
	require.Len(t, view.RecentComments, 2)
	assert.Equal(t, "comment 2", view.RecentComments[0].Content)
	assert.Equal(t, "comment 1", view.RecentComments[1].Content)

	// Another viewer has not liked the post.
	page, err = svc.Page(author.ID, Options{})
	require.NoError(t, err)
	assert.False(t, page.Posts[0].LikedByViewer)
}

func TestPageIncludesPollResults(t *testing.T) {
	svc, gdb, engine := testService(t)
	author := seedUser(t, gdb, "author@example.com")
	posts := seedPosts(t, gdb, author.ID, 1, "standard")

	poll := models.Poll{
		PostID:   posts[0].ID,
		Question: "Coffee or tea?",
		Options:  []models.PollOption{{Text: "Coffee"}, {Text: "Tea"}},
	}
	require.NoError(t, gdb.Create(&poll).Error)

	_, _, err := engine.CastVote(author.ID, poll.ID, poll.Options[0].ID)
	require.NoError(t, err)

	page, err := svc.Page(author.ID, Options{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	require.NotNil(t, page.Posts[0].Poll)

	pv := page.Posts[0].Poll
	assert.Equal(t, "Coffee or tea?", pv.Question)
	assert.Equal(t, 1, pv.TotalVotes)
	assert.True(t, pv.HasVoted)
	assert.Equal(t, 100, pv.Options[0].Percentage)
}

func TestPostDetailThread(t *testing.T) {
	svc, gdb, engine := testService(t)
	author := seedUser(t, gdb, "author@example.com")
	fan := seedUser(t, gdb, "fan@example.com")
	posts := seedPosts(t, gdb, author.ID, 1, "standard")
	post := posts[0]

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	comments := make([]models.Comment, 2)
	for i := range comments {
		comments[i] = models.Comment{
			PostID:    post.ID,
			AuthorID:  fan.ID,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(&comments[i]).Error)
	}
	reply := models.Reply{CommentID: comments[0].ID, AuthorID: author.ID, Content: "thanks"}
	require.NoError(t, gdb.Create(&reply).Error)
	_, err := engine.Like(author.ID, interaction.CommentTarget(comments[0].ID))
	require.NoError(t, err)

	detail, err := svc.Post(author.ID, post.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, detail.CommentCount)
	require.Len(t, detail.Comments, 2)
	// Threads read oldest-first.
	assert.Equal(t, "comment 0", detail.Comments[0].Content)
	assert.EqualValues(t, 1, detail.Comments[0].LikeCount)
	assert.EqualValues(t, 1, detail.Comments[0].ReplyCount)
	assert.True(t, detail.Comments[0].LikedByViewer)
	require.Len(t, detail.Comments[0].Replies, 1)
	assert.Equal(t, "thanks", detail.Comments[0].Replies[0].Content)

	_, err = svc.Post(author.ID, "no-such-post")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentsPage(t *testing.T) {
	svc, gdb, _ := testService(t)
	author := seedUser(t, gdb, "author@example.com")
	posts := seedPosts(t, gdb, author.ID, 1, "standard")
	post := posts[0]

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		comment := models.Comment{
			PostID:    post.ID,
			AuthorID:  author.ID,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(&comment).Error)
	}

	page, err := svc.Comments(author.ID, post.ID, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Comments, 2)
	assert.EqualValues(t, 7, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)
	// Newest first, so page 2 ends with the oldest.
	assert.Equal(t, "comment 0", page.Comments[1].Content)

	_, err = svc.Comments(author.ID, "no-such-post", 1, 5)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
