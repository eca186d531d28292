package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookbarter-backend/internal/middleware"
	"bookbarter-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr := miniredis.RunT(t)
	cfg := middleware.SessionConfig{
		Secret:   "test-secret",
		RedisURL: "redis://" + mr.Addr(),
	}
	sessionHandler, rdb, err := middleware.Session(cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(sessionHandler)

	h := &Handlers{DB: db, UserFinder: &GormUserFinder{DB: db}, Rdb: rdb, Config: cfg}
	grp := app.Group("/api/v1/auth")
	grp.Post("/register", h.Register)
	grp.Post("/login", h.Login)
	grp.Get("/me", h.Me)
	grp.Delete("/logout", h.Logout)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func TestRegisterLoginMeLogout(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", RegisterInput{
		Fullname: "Jo Reader",
		UserName: "joreader",
		Email:    "jo@example.com",
		Password: "sturdy-pass1!",
		City:     "Lagos",
	}, "")
	require.Equal(t, 201, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, "GET", "/api/v1/auth/me", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)
	var me struct {
		Data struct {
			User SessionUserShape `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "jo@example.com", me.Data.User.Email)
	assert.Equal(t, "joreader", me.Data.User.UserName)

	resp = doJSON(t, app, "DELETE", "/api/v1/auth/logout", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/auth/me", nil, cookie)
	assert.Equal(t, 401, resp.StatusCode)

	// Fresh login works with the registered credentials.
	resp = doJSON(t, app, "POST", "/api/v1/auth/login", LoginInput{
		Email: "jo@example.com", Password: "sturdy-pass1!",
	}, "")
	require.Equal(t, 200, resp.StatusCode)
	cookie = sessionCookie(t, resp)

	resp = doJSON(t, app, "GET", "/api/v1/auth/me", nil, cookie)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	app, _ := setupAuthApp(t)

	cases := []struct {
		name string
		body RegisterInput
		code int
	}{
		{"missing password", RegisterInput{Fullname: "Jo Reader", Email: "jo@example.com"}, 400},
		{"bad email", RegisterInput{Fullname: "Jo Reader", Email: "not-an-email", Password: "sturdy-pass1!"}, 400},
		{"bad fullname", RegisterInput{Fullname: "Jo99", Email: "jo@example.com", Password: "sturdy-pass1!"}, 400},
		{"weak password", RegisterInput{Fullname: "Jo Reader", Email: "jo@example.com", Password: "short"}, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/api/v1/auth/register", tc.body, "")
			assert.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _ := setupAuthApp(t)
	body := RegisterInput{Fullname: "Jo Reader", Email: "jo@example.com", Password: "sturdy-pass1!"}

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", body, "")
	require.Equal(t, 201, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/auth/register", body, "")
	assert.Equal(t, 409, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	app, _ := setupAuthApp(t)
	resp := doJSON(t, app, "POST", "/api/v1/auth/register", RegisterInput{
		Fullname: "Jo Reader", Email: "jo@example.com", Password: "sturdy-pass1!",
	}, "")
	require.Equal(t, 201, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/auth/login", LoginInput{Email: "jo@example.com", Password: "wrong-pass1!"}, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/auth/login", LoginInput{Email: "nobody@example.com", Password: "sturdy-pass1!"}, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/auth/login", LoginInput{Email: "jo@example.com"}, "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRegisterUser_DefaultsUserNameToEmail(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	user, err := RegisterUser(db, RegisterInput{
		Fullname: "Jo Reader", Email: "jo@example.com", Password: "sturdy-pass1!",
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", user.UserName)
	assert.NotEqual(t, "sturdy-pass1!", user.PasswordHash)
}
