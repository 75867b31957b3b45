package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/domain/complaint"
	"github.com/colonyconnect/colony-api/internal/domain/user"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
)

type fakeUserRepository struct {
	users map[string]*user.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*user.User)}
}

func (f *fakeUserRepository) Create(u *user.User) error {
	for _, existing := range f.users {
		if existing.PhoneNo == u.PhoneNo {
			return postgres.ErrPhoneTaken
		}
	}
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepository) GetByID(id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, postgres.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) GetByPhone(phoneNo string) (*user.User, error) {
	for _, u := range f.users {
		if u.PhoneNo == phoneNo {
			return u, nil
		}
	}
	return nil, postgres.ErrUserNotFound
}

func (f *fakeUserRepository) GetAll() ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepository) Update(u *user.User) error {
	if _, ok := f.users[u.ID.String()]; !ok {
		return postgres.ErrUserNotFound
	}
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepository) Delete(id string) error {
	if _, ok := f.users[id]; !ok {
		return postgres.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) Count() (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepository) CountByRole(role user.Role) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepository) CountCreatedSince(since time.Time) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type fakeComplaintRepository struct {
	complaints map[string]*complaint.Complaint
}

func newFakeComplaintRepository() *fakeComplaintRepository {
	return &fakeComplaintRepository{complaints: make(map[string]*complaint.Complaint)}
}

func (f *fakeComplaintRepository) Create(c *complaint.Complaint) error {
	f.complaints[c.ID.String()] = c
	return nil
}

func (f *fakeComplaintRepository) GetByID(id string) (*complaint.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, postgres.ErrComplaintNotFound
	}
	return c, nil
}

func (f *fakeComplaintRepository) List(status, search string) ([]*complaint.Complaint, error) {
	var out []*complaint.Complaint
	for _, c := range f.complaints {
		if status != "" && status != "all" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplaintRepository) GetAll() ([]*complaint.Complaint, error) {
	var out []*complaint.Complaint
	for _, c := range f.complaints {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplaintRepository) Update(c *complaint.Complaint) error {
	if _, ok := f.complaints[c.ID.String()]; !ok {
		return postgres.ErrComplaintNotFound
	}
	f.complaints[c.ID.String()] = c
	return nil
}

func (f *fakeComplaintRepository) Delete(id string) error {
	if _, ok := f.complaints[id]; !ok {
		return postgres.ErrComplaintNotFound
	}
	delete(f.complaints, id)
	return nil
}

func (f *fakeComplaintRepository) CountByStatus() (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range f.complaints {
		counts[c.Status]++
	}
	return counts, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret"
	cfg.JWT.TTL = time.Hour
	return cfg
}

func newUserRouter(t *testing.T, repo *fakeUserRepository, current *user.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewUserHandler(repo, newFakeComplaintRepository(), newFakePollRepository(), testConfig())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if current != nil {
			middleware.SetCurrentUser(c, current)
		}
	})

	router.POST("/api/users/register", handler.Register)
	router.POST("/api/users/login", handler.Login)
	router.GET("/api/users/profile", handler.Profile)
	router.GET("/api/admin/dashboard", handler.Dashboard)
	router.GET("/api/admin/users", handler.ListUsers)
	router.POST("/api/admin/users", handler.CreateUser)
	router.PUT("/api/admin/users/:user_id", handler.UpdateUser)
	router.DELETE("/api/admin/users/:user_id", handler.DeleteUser)

	return router
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepository()
	router := newUserRouter(t, repo, nil)

	w := doJSON(router, http.MethodPost, "/api/users/register", gin.H{
		"name":     "Ravi Kumar",
		"phoneno":  "9876543210",
		"password": "secret123",
		"address":  "Block B, Flat 204",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "Ravi Kumar", data["name"])
	assert.NotContains(t, data, "password")
	assert.Len(t, repo.users, 1)
}

func TestRegisterValidation(t *testing.T) {
	repo := newFakeUserRepository()
	router := newUserRouter(t, repo, nil)

	cases := []struct {
		name string
		body gin.H
		want string
	}{
		{
			name: "short password",
			body: gin.H{"name": "Ravi", "phoneno": "9876543210", "password": "abc"},
			want: "password must be at least 6 characters",
		},
		{
			name: "short name",
			body: gin.H{"name": "R", "phoneno": "9876543210", "password": "secret123"},
			want: "name must be at least 2 characters",
		},
		{
			name: "bad phone",
			body: gin.H{"name": "Ravi", "phoneno": "12ab567", "password": "secret123"},
			want: "only digits",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/users/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
	assert.Empty(t, repo.users)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := newFakeUserRepository()
	router := newUserRouter(t, repo, nil)

	body := gin.H{"name": "Ravi", "phoneno": "9876543210", "password": "secret123"}

	w := doJSON(router, http.MethodPost, "/api/users/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/users/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.Len(t, repo.users, 1)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepository()
	u, err := user.New("Meera", "9123456780", "secret123", "", user.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(u))

	router := newUserRouter(t, repo, nil)

	w := doJSON(router, http.MethodPost, "/api/users/login", gin.H{
		"phoneno":  "9123456780",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepository()
	u, err := user.New("Meera", "9123456780", "secret123", "", user.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(u))

	router := newUserRouter(t, repo, nil)

	w := doJSON(router, http.MethodPost, "/api/users/login", gin.H{
		"phoneno":  "9123456780",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/users/login", gin.H{
		"phoneno":  "0000000000",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminCreateUserWithRole(t *testing.T) {
	repo := newFakeUserRepository()
	router := newUserRouter(t, repo, nil)

	w := doJSON(router, http.MethodPost, "/api/admin/users", gin.H{
		"name":     "Gatekeeper",
		"phoneno":  "9000000001",
		"password": "secret123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created *user.User
	for _, u := range repo.users {
		created = u
	}
	require.NotNil(t, created)
	assert.Equal(t, user.RoleAdmin, created.Role)

	w = doJSON(router, http.MethodPost, "/api/admin/users", gin.H{
		"name":     "Intruder",
		"phoneno":  "9000000002",
		"password": "secret123",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid role")
}

func TestAdminUpdateUserPartial(t *testing.T) {
	repo := newFakeUserRepository()
	u, err := user.New("Old Name", "9123456780", "secret123", "Block A", user.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(u))

	router := newUserRouter(t, repo, nil)

	w := doJSON(router, http.MethodPut, fmt.Sprintf("/api/admin/users/%s", u.ID), gin.H{
		"name": "New Name",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New Name", u.Name)
	assert.Equal(t, "Block A", u.Address)
	assert.True(t, u.CheckPassword("secret123"))
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	repo := newFakeUserRepository()
	admin, err := user.New("Admin", "9000000001", "secret123", "", user.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(admin))

	router := newUserRouter(t, repo, admin)

	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/admin/users/%s", admin.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot delete your own account")
	assert.Len(t, repo.users, 1)
}

func TestAdminDeleteUser(t *testing.T) {
	repo := newFakeUserRepository()
	admin, err := user.New("Admin", "9000000001", "secret123", "", user.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(admin))

	resident, err := user.New("Resident", "9000000002", "secret123", "", user.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(resident))

	router := newUserRouter(t, repo, admin)

	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/admin/users/%s", resident.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.users, 1)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/admin/users/%s", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboard(t *testing.T) {
	repo := newFakeUserRepository()
	admin, err := user.New("Admin", "9000000001", "secret123", "", user.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(admin))

	resident, err := user.New("Resident", "9000000002", "secret123", "", user.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(resident))

	router := newUserRouter(t, repo, admin)

	w := doJSON(router, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	users := data["users"].(map[string]interface{})
	assert.Equal(t, float64(2), users["total"])
	assert.Equal(t, float64(1), users["admins"])
}
