package handlers

import (
	"errors"
	"net/http"

	"github.com/3pWEBQUERY/TGND/internal/middleware"
	"github.com/3pWEBQUERY/TGND/internal/models"
	"github.com/3pWEBQUERY/TGND/internal/utils"
	"github.com/3pWEBQUERY/TGND/internal/wizard"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Current returns the viewer's profile, creating an empty one on first access.
func (h *ProfileHandler) Current(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var profile models.Profile
	err := h.db.First(&profile, "user_id = ?", user.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserID: user.ID, DisplayName: user.Name}
		if err := h.db.Create(&profile).Error; err != nil {
			ServerError(c, err)
			return
		}
	} else if err != nil {
		ServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}

type profileRequest struct {
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage"`
	PhoneNumber  string `json:"phoneNumber"`
	Location     string `json:"location"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Bio          string `json:"bio"`
}

// Update upserts the viewer's profile. The field rules are the wizard's
// profile-step rules.
func (h *ProfileHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	details := wizard.ProfileDetails{
		DisplayName:  req.DisplayName,
		ProfileImage: req.ProfileImage,
		Location:     req.Location,
		Gender:       req.Gender,
		Age:          req.Age,
		Bio:          req.Bio,
	}
	if issues := wizard.ValidateStep(wizard.StepProfile, &wizard.Registration{Profile: details}); len(issues) > 0 {
		ValidationError(c, issues)
		return
	}

	var profile models.Profile
	err := h.db.First(&profile, "user_id = ?", user.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserID: user.ID}
	} else if err != nil {
		ServerError(c, err)
		return
	}

	profile.DisplayName = utils.SanitizeText(req.DisplayName)
	profile.ProfileImage = req.ProfileImage
	profile.PhoneNumber = req.PhoneNumber
	profile.Location = utils.SanitizeText(req.Location)
	profile.Gender = req.Gender
	profile.Age = req.Age
	profile.Bio = utils.SanitizeText(req.Bio)

	if err := h.db.Save(&profile).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ChangePassword verifies the current password and applies the new one.
// userId in the body must match the session user.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		UserID          string `json:"userId" binding:"required"`
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if req.UserID != user.ID {
		Error(c, http.StatusForbidden, "Forbidden")
		return
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.HashedPassword) {
		Error(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if issues := wizard.PasswordIssues(req.NewPassword); len(issues) > 0 {
		ValidationError(c, issues)
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		ServerError(c, err)
		return
	}
	if err := h.db.Model(user).Update("hashed_password", hash).Error; err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
