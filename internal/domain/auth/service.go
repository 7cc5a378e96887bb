package auth

import (
	"context"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
)

type AuthService interface {
	SetupAdmin(ctx context.Context, req SetupRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (user.User, error)
}
