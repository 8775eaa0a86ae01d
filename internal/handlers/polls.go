package handlers

import (
	"errors"
	"net/http"

	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/middleware"
	"github.com/3pWEBQUERY/TGND/internal/models"
	"github.com/3pWEBQUERY/TGND/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PollHandler struct {
	db     *gorm.DB
	engine *interaction.Engine
}

func NewPollHandler(db *gorm.DB, engine *interaction.Engine) *PollHandler {
	return &PollHandler{db: db, engine: engine}
}

const (
	maxQuestionLen = 500
	maxOptionLen   = 200
	minPollOptions = 2
	maxPollOptions = 10
)

type createPollRequest struct {
	PostID   string   `json:"postId" binding:"required"`
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required"`
}

func (h *PollHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	question := utils.SanitizeText(req.Question)
	if question == "" || len(question) > maxQuestionLen {
		Error(c, http.StatusBadRequest, "Question must be between 1 and 500 characters")
		return
	}
	if len(req.Options) < minPollOptions || len(req.Options) > maxPollOptions {
		Error(c, http.StatusBadRequest, "Polls need between 2 and 10 options")
		return
	}
	options := make([]models.PollOption, len(req.Options))
	for i, text := range req.Options {
		text = utils.SanitizeText(text)
		if text == "" || len(text) > maxOptionLen {
			Error(c, http.StatusBadRequest, "Options must be between 1 and 200 characters")
			return
		}
		options[i] = models.PollOption{Text: text}
	}

	var post models.Post
	err := h.db.First(&post, "id = ?", req.PostID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	if post.AuthorID != user.ID {
		Error(c, http.StatusForbidden, "Forbidden")
		return
	}

	var existing int64
	if err := h.db.Model(&models.Poll{}).Where("post_id = ?", post.ID).Count(&existing).Error; err != nil {
		ServerError(c, err)
		return
	}
	if existing > 0 {
		Error(c, http.StatusBadRequest, "Post already has a poll")
		return
	}

	poll := models.Poll{PostID: post.ID, Question: question, Options: options}
	if err := h.db.Create(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusBadRequest, "Post already has a poll")
			return
		}
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poll)
}

// List returns every poll with its option vote counts.
func (h *PollHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var polls []models.Poll
	if err := h.db.Preload("Options").Order("created_at DESC").Find(&polls).Error; err != nil {
		ServerError(c, err)
		return
	}

	out := make([]gin.H, len(polls))
	for i := range polls {
		results, err := h.engine.ResultsForPoll(user.ID, &polls[i])
		if err != nil {
			ServerError(c, err)
			return
		}
		out[i] = gin.H{
			"id":         polls[i].ID,
			"postId":     polls[i].PostID,
			"question":   polls[i].Question,
			"options":    results.Options,
			"totalVotes": results.TotalVotes,
			"hasVoted":   results.HasVoted,
		}
	}
	c.JSON(http.StatusOK, gin.H{"polls": out})
}

func (h *PollHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	results, err := h.engine.Results(user.ID, c.Param("pollId"))
	if errors.Is(err, interaction.ErrPollNotFound) {
		Error(c, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         results.Poll.ID,
		"postId":     results.Poll.PostID,
		"question":   results.Poll.Question,
		"options":    results.Options,
		"totalVotes": results.TotalVotes,
		"hasVoted":   results.HasVoted,
	})
}

func (h *PollHandler) Vote(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		OptionID string `json:"optionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	outcome, vote, err := h.engine.CastVote(user.ID, c.Param("pollId"), req.OptionID)
	switch {
	case errors.Is(err, interaction.ErrPollNotFound):
		Error(c, http.StatusNotFound, "Poll not found")
		return
	case errors.Is(err, interaction.ErrOptionNotFound):
		Error(c, http.StatusNotFound, "Option not found")
		return
	case err != nil:
		ServerError(c, err)
		return
	}

	results, err := h.engine.Results(user.ID, c.Param("pollId"))
	if err != nil {
		ServerError(c, err)
		return
	}

	status := http.StatusOK
	if outcome == interaction.VoteCreated {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"vote":       vote,
		"options":    results.Options,
		"totalVotes": results.TotalVotes,
	})
}

func (h *PollHandler) RetractVote(c *gin.Context) {
	user := middleware.CurrentUser(c)

	err := h.engine.RetractVote(user.ID, c.Param("pollId"))
	switch {
	case errors.Is(err, interaction.ErrPollNotFound):
		Error(c, http.StatusNotFound, "Poll not found")
		return
	case errors.Is(err, interaction.ErrVoteNotFound):
		Error(c, http.StatusNotFound, "Vote not found")
		return
	case err != nil:
		ServerError(c, err)
		return
	}

	results, err := h.engine.Results(user.ID, c.Param("pollId"))
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"options":    results.Options,
		"totalVotes": results.TotalVotes,
	})
}
