package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyconnect/colony-api/internal/domain/user"
)

const testSecret = "test-secret"

func testUser(t *testing.T, role user.Role) *user.User {
	t.Helper()
	u, err := user.New("Priya", "9876543210", "secret123", "", role)
	require.NoError(t, err)
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	u := testUser(t, user.RoleAdmin)

	token, err := NewToken(u, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	u := testUser(t, user.RoleUser)

	token, err := NewToken(u, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	u := testUser(t, user.RoleUser)

	token, err := NewToken(u, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testSecret)
	assert.Error(t, err)
}
