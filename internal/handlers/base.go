package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/3pWEBQUERY/TGND/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error replies with the API's uniform error shape.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// ServerError logs the cause and hides it from the client.
func ServerError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// ValidationError replies 400 with an itemized issue list.
func ValidationError(c *gin.Context, issues []wizard.Issue) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Validation failed",
		"issues": issues,
	})
}

// BindError turns a gin binding failure into the issue-list shape, naming the
// offending fields where the validator knows them.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]wizard.Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, wizard.Issue{
				Field:   fe.Field(),
				Message: "failed " + fe.Tag() + " validation",
			})
		}
		ValidationError(c, issues)
		return
	}
	Error(c, http.StatusBadRequest, "Invalid request body")
}
