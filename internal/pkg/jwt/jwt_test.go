package jwt

import (
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret", "15m", "24h")
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestService()
	dept := "Sales"

	token, exp, err := svc.GenerateAccessToken("user-1", "alice@example.com", user.RoleAgent, &dept)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, exp)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	role, _ := decoded.Get("role")
	assert.Equal(t, "agent", role)
	typ, _ := decoded.Get("type")
	assert.Equal(t, TokenTypeAccess, typ)
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService()

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken("user-1", "a@b.cd", user.RoleAdmin, nil)
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ParseRefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestInvalidExpiration(t *testing.T) {
	svc := NewJWTService("secret", "soon", "later")
	_, _, err := svc.GenerateAccessToken("u", "a@b.cd", user.RoleAgent, nil)
	assert.Error(t, err)
	_, _, err = svc.GenerateRefreshToken("u")
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService()
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
