package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

func newTestService(t *testing.T) (auth.AuthService, fixtures.Repositories, jwt.Service) {
	t.Helper()
	repos := fixtures.NewRepositories()
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	return NewAuthService(repos.Users, jwtService, logger.Discard()), repos, jwtService
}

func setupRequest() auth.SetupRequest {
	return auth.SetupRequest{Email: "Admin@Company.com", Name: "Ada Admin", Password: fixtures.Password}
}

func TestSetupAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, jwtService := newTestService(t)

	resp, err := svc.SetupAdmin(ctx, setupRequest())
	require.NoError(t, err)
	assert.Equal(t, "admin@company.com", resp.User.Email)
	assert.Equal(t, user.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)

	token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	role, _ := token.Get("role")
	assert.Equal(t, "admin", role)

	_, err = svc.SetupAdmin(ctx, auth.SetupRequest{Email: "other@company.com", Name: "Other", Password: fixtures.Password})
	assert.ErrorIs(t, err, auth.ErrSetupCompleted)
}

func TestSetupAdmin_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SetupAdmin(context.Background(), auth.SetupRequest{Email: "admin@company.com", Name: "Ada", Password: "short"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newTestService(t)
	demo, err := fixtures.SeedDemo(ctx, repos.Users)
	require.NoError(t, err)

	t.Run("success with any email case", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "  ALICE@company.com", Password: fixtures.Password})
		require.NoError(t, err)
		assert.Equal(t, demo.Alice.ID, resp.User.ID)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@company.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@company.com", Password: fixtures.Password})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := false
		_, err := repos.Users.Update(ctx, user.UpdateUserRequest{ID: demo.Bob.ID, IsActive: &inactive})
		require.NoError(t, err)

		_, err = svc.Login(ctx, auth.LoginRequest{Email: "bob@company.com", Password: fixtures.Password})
		assert.ErrorIs(t, err, user.ErrUserInactive)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	resp, err := svc.SetupAdmin(ctx, setupRequest())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))
	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	assert.ErrorIs(t, svc.Logout(ctx, ""), auth.ErrInvalidToken)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	resp, err := svc.SetupAdmin(ctx, setupRequest())
	require.NoError(t, err)

	me, err := svc.Me(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Admin", me.Name)

	_, err = svc.Me(ctx, "user-missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
