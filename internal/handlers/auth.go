package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/3pWEBQUERY/TGND/internal/middleware"
	"github.com/3pWEBQUERY/TGND/internal/models"
	"github.com/3pWEBQUERY/TGND/internal/utils"
	"github.com/3pWEBQUERY/TGND/internal/wizard"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Register accepts the aggregate wizard payload, runs every step validator,
// and creates the user with a nested profile in one transaction.
func (h *AuthHandler) Register(c *gin.Context) {
	var reg wizard.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		BindError(c, err)
		return
	}
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Name = strings.TrimSpace(reg.Name)

	if issues := wizard.Validate(&reg); len(issues) > 0 {
		ValidationError(c, issues)
		return
	}

	var existing int64
	if err := h.db.Model(&models.User{}).Where("email = ?", reg.Email).Count(&existing).Error; err != nil {
		ServerError(c, err)
		return
	}
	if existing > 0 {
		Error(c, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := utils.HashPassword(reg.Password)
	if err != nil {
		ServerError(c, err)
		return
	}

	user := models.User{
		Name:           reg.Name,
		Email:          reg.Email,
		HashedPassword: hash,
		Role:           reg.Role,
		Image:          reg.Profile.ProfileImage,
		Profile: &models.Profile{
			DisplayName:  utils.SanitizeText(reg.Profile.DisplayName),
			ProfileImage: reg.Profile.ProfileImage,
			Location:     utils.SanitizeText(reg.Profile.Location),
			Gender:       reg.Profile.Gender,
			Age:          reg.Profile.Age,
			Bio:          utils.SanitizeText(reg.Profile.Bio),
		},
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		// Race with a concurrent registration for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "Email already registered")
			return
		}
		ServerError(c, err)
		return
	}

	h.signIn(c, &user)
	c.JSON(http.StatusCreated, user)
}

// ValidateStep checks a single wizard transition so the client can gate step
// advancement with the same rules the final submit enforces.
func (h *AuthHandler) ValidateStep(c *gin.Context) {
	var req struct {
		Step string              `json:"step" binding:"required"`
		Data wizard.Registration `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	if !wizard.ValidStep(wizard.Step(req.Step)) {
		Error(c, http.StatusBadRequest, "Unknown step")
		return
	}

	issues := wizard.ValidateStep(wizard.Step(req.Step), &req.Data)
	if len(issues) > 0 {
		ValidationError(c, issues)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"next":  wizard.Next(wizard.Step(req.Step)),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	var user models.User
	err := h.db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.HashedPassword) {
		Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.signIn(c, &user)
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) signIn(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()
}
