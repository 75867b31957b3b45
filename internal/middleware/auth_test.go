package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyconnect/colony-api/internal/auth"
	"github.com/colonyconnect/colony-api/internal/domain/user"
)

const testSecret = "test-secret"

type fakeUserLoader struct {
	users map[string]*user.User
}

func (f *fakeUserLoader) GetByID(id string) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func testUser(t *testing.T, role user.Role) *user.User {
	t.Helper()
	u, err := user.New("Priya", "9876543210", "secret123", "", role)
	require.NoError(t, err)
	return u
}

func newAuthRouter(t *testing.T, u *user.User) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	token, err := auth.NewToken(u, testSecret, time.Hour)
	require.NoError(t, err)

	loader := &fakeUserLoader{users: map[string]*user.User{u.ID.String(): u}}

	router := gin.New()
	router.GET("/protected", RequireAuth(loader, testSecret), func(c *gin.Context) {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user": current.Name})
	})
	router.GET("/admin", RequireAuth(loader, testSecret), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, token
}

func TestTokenFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name  string
		setup func(req *http.Request)
		want  string
	}{
		{
			name:  "Authorization query parameter",
			setup: func(req *http.Request) { req.URL.RawQuery = "Authorization=abc123" },
			want:  "abc123",
		},
		{
			name:  "lowercase authorization query parameter",
			setup: func(req *http.Request) { req.URL.RawQuery = "authorization=abc123" },
			want:  "abc123",
		},
		{
			name:  "token query parameter",
			setup: func(req *http.Request) { req.URL.RawQuery = "token=abc123" },
			want:  "abc123",
		},
		{
			name:  "Bearer header",
			setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer abc123") },
			want:  "abc123",
		},
		{
			name:  "raw header without Bearer prefix",
			setup: func(req *http.Request) { req.Header.Set("Authorization", "abc123") },
			want:  "abc123",
		},
		{
			name:  "no credential",
			setup: func(req *http.Request) {},
			want:  "",
		},
		{
			name: "query parameter wins over header",
			setup: func(req *http.Request) {
				req.URL.RawQuery = "token=fromquery"
				req.Header.Set("Authorization", "Bearer fromheader")
			},
			want: "fromquery",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			assert.Equal(t, tc.want, TokenFromRequest(c))
		})
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	router, token := newAuthRouter(t, testUser(t, user.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Priya")
}

func TestRequireAuthQueryToken(t *testing.T) {
	router, token := newAuthRouter(t, testUser(t, user.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthMissingToken(t *testing.T) {
	router, _ := newAuthRouter(t, testUser(t, user.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token provided")
}

func TestRequireAuthBadToken(t *testing.T) {
	router, _ := newAuthRouter(t, testUser(t, user.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthUnknownSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	u := testUser(t, user.RoleUser)
	token, err := auth.NewToken(u, testSecret, time.Hour)
	require.NoError(t, err)

	// Loader has no users, so the token subject cannot be resolved.
	loader := &fakeUserLoader{users: map[string]*user.User{}}
	router := gin.New()
	router.GET("/protected", RequireAuth(loader, testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsResident(t *testing.T) {
	router, token := newAuthRouter(t, testUser(t, user.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	router, token := newAuthRouter(t, testUser(t, user.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
