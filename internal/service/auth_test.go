package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func newAuth(t *testing.T) *service.AuthService {
	t.Helper()
	return &service.AuthService{
		Repo:          &repo.GormRepo{DB: testutil.NewDB(t)},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestAuthService_CreateAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc := &service.AuthService{JWTSecret: []byte("test-jwt-secret")}
	userID := uuid.NewString()
	accessExp := time.Now().Add(15 * time.Minute).UTC()

	token, err := svc.CreateAccessToken("admin", userID, accessExp)
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(token, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, userID, claims.Subject)
	assert.WithinDuration(t, accessExp, claims.ExpiresAt.Time, time.Second)
}

func TestAuthService_RegisterLogin(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, " Demo@Example.com ", "Demo", "password123")
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", u.Email)
	assert.Equal(t, "user", u.Role)

	_, err = svc.Register(ctx, "demo@example.com", "Again", "password123")
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Register(ctx, "not-an-email", "X", "password123")
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = svc.Register(ctx, "x@example.com", "X", "123")
	assert.ErrorIs(t, err, service.ErrValidation)

	res, err := svc.Login(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)

	_, err = svc.Login(ctx, "demo@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "r@example.com", "R", "password123")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "r@example.com", "password123")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
