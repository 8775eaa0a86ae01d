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

type PostHandler struct {
	db   *gorm.DB
	feed *feed.Service
}

func NewPostHandler(db *gorm.DB, feedSvc *feed.Service) *PostHandler {
	return &PostHandler{db: db, feed: feedSvc}
}

const maxContentLen = 5000

type createPostRequest struct {
	Content  string   `json:"content" binding:"required"`
	Images   []string `json:"images"`
	Videos   []string `json:"videos"`
	Type     string   `json:"type"`
	Location string   `json:"location"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	content := utils.SanitizeText(req.Content)
	if content == "" || len(content) > maxContentLen {
		Error(c, http.StatusBadRequest, "Content must be between 1 and 5000 characters")
		return
	}
	if req.Type == "" {
		req.Type = "standard"
	}

	post := models.Post{
		AuthorID: user.ID,
		Content:  content,
		Images:   req.Images,
		Videos:   req.Videos,
		Type:     req.Type,
		Location: req.Location,
	}
	if err := h.db.Create(&post).Error; err != nil {
		ServerError(c, err)
		return
	}
	h.feed.InvalidateCounts(user.ID, post.Type)

	if err := h.db.Preload("Author").Preload("Author.Profile").First(&post, "id = ?", post.ID).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	opts := feed.Options{
		Page:     utils.ParsePositiveInt(c.Query("page"), 1),
		Limit:    utils.ParsePositiveInt(c.Query("limit"), 10),
		AuthorID: c.Query("authorId"),
		Type:     c.Query("type"),
	}
	page, err := h.feed.Page(user.ID, opts)
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PostHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	detail, err := h.feed.Post(user.ID, c.Param("postId"))
	if errors.Is(err, feed.ErrPostNotFound) {
		Error(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updatePostRequest struct {
	Content     *string   `json:"content"`
	Images      *[]string `json:"images"`
	IsPublished *bool     `json:"isPublished"`
}

func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	post, ok := h.ownedPost(c, user)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if req.Content != nil {
		content := utils.SanitizeText(*req.Content)
		if content == "" || len(content) > maxContentLen {
			Error(c, http.StatusBadRequest, "Content must be between 1 and 5000 characters")
			return
		}
		post.Content = content
	}
	if req.Images != nil {
		post.Images = *req.Images
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := h.db.Save(post).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	post, ok := h.ownedPost(c, user)
	if !ok {
		return
	}

	if err := h.db.Delete(post).Error; err != nil {
		ServerError(c, err)
		return
	}
	h.feed.InvalidateCounts(post.AuthorID, post.Type)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ownedPost loads the :postId row and enforces owner-or-admin. It writes the
// error response itself when ok is false.
func (h *PostHandler) ownedPost(c *gin.Context, user *models.User) (*models.Post, bool) {
	var post models.Post
	err := h.db.First(&post, "id = ?", c.Param("postId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, "Post not found")
		return nil, false
	}
	if err != nil {
		ServerError(c, err)
		return nil, false
	}
	if post.AuthorID != user.ID && user.Role != models.RoleAdmin {
		Error(c, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return &post, true
}
