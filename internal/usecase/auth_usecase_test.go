package usecase

import (
	"context"
	"testing"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/repository"
	"cottage-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthUsecase(t *testing.T) (AuthUsecase, *jwt.JWTService, *miniredis.Miniredis) {
	t.Helper()
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	return NewAuthUsecase(db, newTestLogger(), repository.NewUserRepository(), jwtService, rdb), jwtService, mr
}

func TestAuth_CreateUserLoginLogout(t *testing.T) {
	uc, jwtService, mr := newAuthUsecase(t)
	ctx := context.Background()

	user, err := uc.CreateUser(ctx, &dto.CreateUserRequest{
		Email:    "Approver@Example.com",
		Password: "correct-horse",
		Name:     "Pat Approver",
		Role:     "Approver",
	})
	require.NoError(t, err)
	assert.Equal(t, "approver@example.com", user.Email)
	assert.Equal(t, "approver", user.Role)
	assert.True(t, user.IsActive)

	_, err = uc.Login(ctx, &dto.LoginRequest{Email: "approver@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tok, err := uc.Login(ctx, &dto.LoginRequest{Email: "APPROVER@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.EqualValues(t, 3600, tok.ExpiresIn)

	claims, err := jwtService.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "approver", claims.Role)

	active, err := uc.IsTokenActive(ctx, claims.UserID, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Len(t, mr.Keys(), 1)

	require.NoError(t, uc.Logout(ctx, claims.UserID, claims.TokenID))
	active, err = uc.IsTokenActive(ctx, claims.UserID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestAuth_CreateUserRejectsDuplicatesAndUnknownRoles(t *testing.T) {
	uc, _, _ := newAuthUsecase(t)
	ctx := context.Background()

	req := &dto.CreateUserRequest{Email: "clean@example.com", Password: "sparkling", Name: "Sam Cleaner", Role: "cleaner"}
	_, err := uc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = uc.CreateUser(ctx, req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	req.Email = "guest@example.com"
	req.Role = "guest"
	_, err = uc.CreateUser(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuth_EnsureAdminIsIdempotent(t *testing.T) {
	uc, _, _ := newAuthUsecase(t)
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "admin@example.com", "admin-password", "Administrator"))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@example.com", "other-password", "Administrator"))

	tok, err := uc.Login(ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "admin-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
}

func TestAuth_RevokeAllUserTokens(t *testing.T) {
	uc, jwtService, mr := newAuthUsecase(t)
	ctx := context.Background()

	_, err := uc.CreateUser(ctx, &dto.CreateUserRequest{Email: "a@example.com", Password: "password1", Name: "Al Admin", Role: "admin"})
	require.NoError(t, err)

	var tokenIDs []string
	for i := 0; i < 3; i++ {
		tok, err := uc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password1"})
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(tok.AccessToken)
		require.NoError(t, err)
		tokenIDs = append(tokenIDs, claims.TokenID)
	}
	require.Len(t, mr.Keys(), 3)

	me, err := uc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	claims, err := jwtService.ValidateToken(me.AccessToken)
	require.NoError(t, err)

	require.NoError(t, uc.RevokeAllUserTokens(ctx, claims.UserID))
	assert.Empty(t, mr.Keys())

	for _, id := range tokenIDs {
		active, err := uc.IsTokenActive(ctx, claims.UserID, id)
		require.NoError(t, err)
		assert.False(t, active)
	}

	current, err := uc.GetCurrentUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "admin", current.Role)
}
