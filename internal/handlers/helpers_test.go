package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/3pWEBQUERY/TGND/internal/db"
	"github.com/3pWEBQUERY/TGND/internal/feed"
	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/models"
	"github.com/3pWEBQUERY/TGND/internal/router"
	"github.com/3pWEBQUERY/TGND/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// env is a full server wired against an in-memory database, exercised through
// httptest the way clients hit the real thing.
type env struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Migrate(gdb))

	engine := interaction.NewEngine(gdb)
	feedSvc := feed.NewService(gdb, engine, nil)
	uploads := t.TempDir()

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("tgnd_session", store))
	router.RegisterRoutes(r, router.Deps{
		DB:       gdb,
		Engine:   engine,
		Feed:     feedSvc,
		Media:    storage.NewLocalStore(uploads, "/uploads"),
		Profiles: storage.NewLocalStore(uploads, "/uploads/profile-images"),
	})

	return &env{t: t, router: r, db: gdb}
}

// session holds the cookies of a signed-in user.
type session struct {
	env     *env
	cookies []*http.Cookie
	userID  string
}

func (e *env) do(method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (s *session) do(method, path string, body any) *httptest.ResponseRecorder {
	return s.env.do(method, path, body, s.cookies)
}

func registerPayload(email string) map[string]any {
	return map[string]any{
		"role":     "MEMBER",
		"email":    email,
		"name":     "Jamie",
		"password": "Abcdef1!",
		"consent":  true,
		"profile": map[string]any{
			"displayName": "Jamie K",
			"age":         25,
		},
	}
}

// register creates an account through the API and returns its session.
func (e *env) register(email string) *session {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/register", registerPayload(email), nil)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(e.t, e.db.First(&user, "email = ?", email).Error)
	return &session{env: e, cookies: w.Result().Cookies(), userID: user.ID}
}

// registerAdmin registers and then promotes the account to ADMIN directly in
// the database, since there is no self-serve path to the role.
func (e *env) registerAdmin(email string) *session {
	e.t.Helper()
	s := e.register(email)
	require.NoError(e.t, e.db.Model(&models.User{}).Where("id = ?", s.userID).
		Update("role", models.RoleAdmin).Error)
	return s
}

func (s *session) createPost(content string) string {
	s.env.t.Helper()
	w := s.do(http.MethodPost, "/api/posts", map[string]any{"content": content})
	require.Equal(s.env.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(s.env.t, w)["id"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func uniqueEmail(i int) string {
	return fmt.Sprintf("user%d@example.com", i)
}
