package handlers

import (
	"errors"
	"net/http"

	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/middleware"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	engine *interaction.Engine
}

func NewLikeHandler(engine *interaction.Engine) *LikeHandler {
	return &LikeHandler{engine: engine}
}

func (h *LikeHandler) LikePost(c *gin.Context) {
	h.like(c, interaction.PostTarget(c.Param("postId")))
}

func (h *LikeHandler) UnlikePost(c *gin.Context) {
	h.unlike(c, interaction.PostTarget(c.Param("postId")))
}

func (h *LikeHandler) LikeComment(c *gin.Context) {
	h.like(c, interaction.CommentTarget(c.Param("commentId")))
}

func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	h.unlike(c, interaction.CommentTarget(c.Param("commentId")))
}

func (h *LikeHandler) LikeReply(c *gin.Context) {
	h.like(c, interaction.ReplyTarget(c.Param("replyId")))
}

func (h *LikeHandler) UnlikeReply(c *gin.Context) {
	h.unlike(c, interaction.ReplyTarget(c.Param("replyId")))
}

func (h *LikeHandler) like(c *gin.Context, target interaction.LikeTarget) {
	user := middleware.CurrentUser(c)

	like, err := h.engine.Like(user.ID, target)
	switch {
	case errors.Is(err, interaction.ErrAlreadyLiked):
		Error(c, http.StatusBadRequest, "Already liked")
	case errors.Is(err, interaction.ErrTargetNotFound):
		Error(c, http.StatusNotFound, "Not found")
	case err != nil:
		ServerError(c, err)
	default:
		count, err := h.engine.LikeCount(target)
		if err != nil {
			ServerError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"like": like, "likeCount": count})
	}
}

func (h *LikeHandler) unlike(c *gin.Context, target interaction.LikeTarget) {
	user := middleware.CurrentUser(c)

	err := h.engine.Unlike(user.ID, target)
	switch {
	case errors.Is(err, interaction.ErrLikeNotFound):
		Error(c, http.StatusNotFound, "Like not found")
	case errors.Is(err, interaction.ErrTargetNotFound):
		Error(c, http.StatusNotFound, "Not found")
	case err != nil:
		ServerError(c, err)
	default:
		count, err := h.engine.LikeCount(target)
		if err != nil {
			ServerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "likeCount": count})
	}
}
