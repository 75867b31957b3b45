package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	u, err := New("  Priya Sharma  ", " 9876543210 ", "secret123", " Block C, Flat 12 ", "")
	require.NoError(t, err)

	assert.Equal(t, "Priya Sharma", u.Name)
	assert.Equal(t, "9876543210", u.PhoneNo)
	assert.Equal(t, "Block C, Flat 12", u.Address)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "9876543210", "secret123", "", RoleUser)
	assert.EqualError(t, err, "name is required")

	_, err = New("Priya", "", "secret123", "", RoleUser)
	assert.EqualError(t, err, "phoneno is required")

	_, err = New("Priya", "9876543210", "", "", RoleUser)
	assert.EqualError(t, err, "password is required")

	_, err = New("Priya", "9876543210", "secret123", "", Role("superuser"))
	assert.EqualError(t, err, "invalid role: superuser")
}

func TestCheckPassword(t *testing.T) {
	u, err := New("Priya", "9876543210", "secret123", "", RoleUser)
	require.NoError(t, err)

	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.False(t, u.CheckPassword(""))
}

func TestSetPasswordReplacesHash(t *testing.T) {
	u, err := New("Priya", "9876543210", "secret123", "", RoleUser)
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("newsecret"))
	assert.True(t, u.CheckPassword("newsecret"))
	assert.False(t, u.CheckPassword("secret123"))
}

func TestIsAdmin(t *testing.T) {
	admin, err := New("Admin", "9876543210", "secret123", "", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	resident, err := New("Resident", "9876543211", "secret123", "", RoleUser)
	require.NoError(t, err)
	assert.False(t, resident.IsAdmin())
}

func TestSanitizedOmitsPasswordHash(t *testing.T) {
	u, err := New("Priya", "9876543210", "secret123", "Block C", RoleUser)
	require.NoError(t, err)

	data := u.Sanitized()
	assert.Equal(t, u.ID.String(), data["_id"])
	assert.Equal(t, "Priya", data["name"])
	assert.Equal(t, "9876543210", data["phoneno"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "passwordHash")
	assert.NotContains(t, data, "password_hash")
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("moderator").Valid())
}
