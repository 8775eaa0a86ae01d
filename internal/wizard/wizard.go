// Package wizard models the four-step registration flow as an explicit finite
// state machine: role selection -> credentials -> profile details -> consent.
// Each transition has exactly one validator, shared by the per-step validation
// endpoint and the final submit, so the rules live in one place.
package wizard

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/3pWEBQUERY/TGND/internal/models"
)

type Step string

const (
	StepRole        Step = "role"
	StepCredentials Step = "credentials"
	StepProfile     Step = "profile"
	StepConsent     Step = "consent"
	StepComplete    Step = "complete"
)

// steps in wizard order. No step can be skipped.
var steps = []Step{StepRole, StepCredentials, StepProfile, StepConsent}

// Registration is the aggregate payload collected across all steps.
type Registration struct {
	Role     models.UserRole `json:"role"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Password string          `json:"password"`
	Profile  ProfileDetails  `json:"profile"`
	Consent  bool            `json:"consent"`
}

type ProfileDetails struct {
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage"`
	Location     string `json:"location"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Bio          string `json:"bio"`
}

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidStep reports whether s names a wizard step.
func ValidStep(s Step) bool {
	for _, step := range steps {
		if s == step {
			return true
		}
	}
	return false
}

// Next returns the step after s, or StepComplete after the last one.
func Next(s Step) Step {
	for i, step := range steps {
		if s == step && i+1 < len(steps) {
			return steps[i+1]
		}
	}
	return StepComplete
}

// ValidateStep runs the validator for the transition out of the given step.
func ValidateStep(s Step, r *Registration) []Issue {
	switch s {
	case StepRole:
		return validateRole(r)
	case StepCredentials:
		return validateCredentials(r)
	case StepProfile:
		return validateProfile(r)
	case StepConsent:
		return validateConsent(r)
	}
	return []Issue{{Field: "step", Message: fmt.Sprintf("unknown step %q", s)}}
}

// Validate runs every transition in order and accumulates all issues, as the
// final submit does before creating the account.
func Validate(r *Registration) []Issue {
	var issues []Issue
	for _, step := range steps {
		issues = append(issues, ValidateStep(step, r)...)
	}
	return issues
}

func validateRole(r *Registration) []Issue {
	if r.Role == "" {
		return []Issue{{Field: "role", Message: "role is required"}}
	}
	if !r.Role.Valid() {
		return []Issue{{Field: "role", Message: "unknown role"}}
	}
	return nil
}

func validateCredentials(r *Registration) []Issue {
	var issues []Issue
	if !emailRe.MatchString(r.Email) {
		issues = append(issues, Issue{Field: "email", Message: "invalid email address"})
	}
	if len(r.Name) < 2 || len(r.Name) > 50 {
		issues = append(issues, Issue{Field: "name", Message: "name must be 2-50 characters"})
	}
	issues = append(issues, PasswordIssues(r.Password)...)
	return issues
}

func validateProfile(r *Registration) []Issue {
	var issues []Issue
	p := r.Profile
	if p.DisplayName != "" && (len(p.DisplayName) < 2 || len(p.DisplayName) > 50) {
		issues = append(issues, Issue{Field: "profile.displayName", Message: "display name must be 2-50 characters"})
	}
	if p.Age != 0 && (p.Age < 18 || p.Age > 100) {
		issues = append(issues, Issue{Field: "profile.age", Message: "age must be between 18 and 100"})
	}
	if len(p.Bio) > 500 {
		issues = append(issues, Issue{Field: "profile.bio", Message: "bio must be at most 500 characters"})
	}
	return issues
}

func validateConsent(r *Registration) []Issue {
	if !r.Consent {
		return []Issue{{Field: "consent", Message: "consent is required"}}
	}
	return nil
}

// PasswordIssues checks the password policy: at least 8 characters with an
// upper-case letter, a lower-case letter, a digit and a special character.
// RE2 has no lookahead, so the classes are checked by hand.
func PasswordIssues(password string) []Issue {
	var issues []Issue
	if len(password) < 8 {
		issues = append(issues, Issue{Field: "password", Message: "password must be at least 8 characters"})
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		issues = append(issues, Issue{
			Field:   "password",
			Message: "password must contain upper and lower case letters, a digit and a special character",
		})
	}
	return issues
}
