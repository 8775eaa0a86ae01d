package handlers

import (
	"errors"
	"net/http"

	"github.com/3pWEBQUERY/TGND/internal/feed"
	"github.com/3pWEBQUERY/TGND/internal/middleware"
	"github.com/3pWEBQUERY/TGND/internal/models"
	"github.com/3pWEBQUERY/TGND/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	db   *gorm.DB
	feed *feed.Service
}

func NewCommentHandler(db *gorm.DB, feedSvc *feed.Service) *CommentHandler {
	return &CommentHandler{db: db, feed: feedSvc}
}

const maxCommentLen = 1000

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := c.Param("postId")

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	content := utils.SanitizeText(req.Content)
	if content == "" || len(content) > maxCommentLen {
		Error(c, http.StatusBadRequest, "Content must be between 1 and 1000 characters")
		return
	}

	var exists int64
	if err := h.db.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		ServerError(c, err)
		return
	}
	if exists == 0 {
		Error(c, http.StatusNotFound, "Post not found")
		return
	}

	comment := models.Comment{PostID: postID, AuthorID: user.ID, Content: content}
	if err := h.db.Create(&comment).Error; err != nil {
		ServerError(c, err)
		return
	}
	if err := h.db.Preload("Author").Preload("Author.Profile").First(&comment, "id = ?", comment.ID).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page, err := h.feed.Comments(
		user.ID,
		c.Param("postId"),
		utils.ParsePositiveInt(c.Query("page"), 1),
		utils.ParsePositiveInt(c.Query("limit"), 10),
	)
	if errors.Is(err, feed.ErrPostNotFound) {
		Error(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var comment models.Comment
	err := h.db.First(&comment, "id = ?", c.Param("commentId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, "Comment not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	if comment.AuthorID != user.ID && user.Role != models.RoleAdmin {
		Error(c, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateReply attaches a reply to a comment. Replies are one level deep;
// there is no reply-to-reply.
func (h *CommentHandler) CreateReply(c *gin.Context) {
	user := middleware.CurrentUser(c)
	commentID := c.Param("commentId")

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	content := utils.SanitizeText(req.Content)
	if content == "" || len(content) > maxCommentLen {
		Error(c, http.StatusBadRequest, "Content must be between 1 and 1000 characters")
		return
	}

	var comment models.Comment
	err := h.db.First(&comment, "id = ? AND post_id = ?", commentID, c.Param("postId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, "Comment not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}

	reply := models.Reply{CommentID: comment.ID, AuthorID: user.ID, Content: content}
	if err := h.db.Create(&reply).Error; err != nil {
		ServerError(c, err)
		return
	}
	if err := h.db.Preload("Author").Preload("Author.Profile").First(&reply, "id = ?", reply.ID).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *CommentHandler) DeleteReply(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var reply models.Reply
	err := h.db.First(&reply, "id = ?", c.Param("replyId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, "Reply not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	if reply.AuthorID != user.ID && user.Role != models.RoleAdmin {
		Error(c, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.db.Delete(&reply).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
