package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePostLifecycle(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))
	postID := s.createPost("like me")

	w := s.do(http.MethodPost, "/api/posts/"+postID+"/likes", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["likeCount"])

	// Liking twice is a conflict, not a second row.
	w = s.do(http.MethodPost, "/api/posts/"+postID+"/likes", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/posts/"+postID+"/likes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["likeCount"])

	w = s.do(http.MethodDelete, "/api/posts/"+postID+"/likes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeCommentAndReply(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))
	postID := s.createPost("a post")

	w := s.do(http.MethodPost, "/api/posts/"+postID+"/comments", map[string]any{"content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := decode(t, w)["id"].(string)

	w = s.do(http.MethodPost, "/api/posts/"+postID+"/comments/"+commentID+"/replies", map[string]any{"content": "hey"})
	require.Equal(t, http.StatusCreated, w.Code)
	replyID := decode(t, w)["id"].(string)

	w = s.do(http.MethodPost, "/api/posts/"+postID+"/comments/"+commentID+"/likes", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/replies/"+replyID+"/likes", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Each target tracks its own likes.
	w = s.do(http.MethodPost, "/api/posts/"+postID+"/likes", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLikeMissingTarget(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))

	w := s.do(http.MethodPost, "/api/posts/no-such-post/likes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/replies/no-such-reply/likes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
