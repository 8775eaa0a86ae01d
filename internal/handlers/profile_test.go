package handlers_test

import (
	"net/http"
	"testing"

	"github.com/3pWEBQUERY/TGND/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentProfileAutoCreates(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))

	// Drop the registration-time profile to simulate an account without one.
	require.NoError(t, e.db.Where("user_id = ?", s.userID).Delete(&models.Profile{}).Error)

	w := s.do(http.MethodGet, "/api/profile/current", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile models.Profile
	require.NoError(t, e.db.First(&profile, "user_id = ?", s.userID).Error)
	assert.Equal(t, "Jamie", profile.DisplayName)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))

	w := s.do(http.MethodPut, "/api/profile", map[string]any{
		"displayName": "New Name",
		"location":    "Berlin",
		"age":         30,
		"bio":         "hello <b>world</b>",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile models.Profile
	require.NoError(t, e.db.First(&profile, "user_id = ?", s.userID).Error)
	assert.Equal(t, "New Name", profile.DisplayName)
	assert.Equal(t, "Berlin", profile.Location)
	assert.Equal(t, 30, profile.Age)
	assert.Equal(t, "hello world", profile.Bio)
}

func TestUpdateProfileValidation(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))

	w := s.do(http.MethodPut, "/api/profile", map[string]any{"age": 17})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w)["issues"])
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	s := e.register(uniqueEmail(1))
	other := e.register(uniqueEmail(2))

	// userId must match the session user.
	w := s.do(http.MethodPut, "/api/user/password", map[string]any{
		"userId": other.userID, "currentPassword": "Abcdef1!", "newPassword": "Zyxwvu2?",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/user/password", map[string]any{
		"userId": s.userID, "currentPassword": "wrong", "newPassword": "Zyxwvu2?",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/user/password", map[string]any{
		"userId": s.userID, "currentPassword": "Abcdef1!", "newPassword": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/user/password", map[string]any{
		"userId": s.userID, "currentPassword": "Abcdef1!", "newPassword": "Zyxwvu2?",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/login", map[string]any{
		"email": uniqueEmail(1), "password": "Zyxwvu2?",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/api/login", map[string]any{
		"email": uniqueEmail(1), "password": "Abcdef1!",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
