package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/testutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          &repo.GormRepo{DB: testutil.NewDB(t)},
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "", "another-password")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, "bob", "", "short")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, res.RefreshExp.After(res.AccessExp))

	p, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)
	assert.Equal(t, access.RoleCustomer, p.Role)

	_, err = svc.Authenticate(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "refresh token is not an access token")
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "", "correct-horse")
	require.NoError(t, err)
	first, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "rotated token cannot be reused")

	require.NoError(t, svc.LogOut(ctx, second.RefreshToken))
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "root-password"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "ignored"))

	res, err := svc.Login(ctx, "root", "root-password")
	require.NoError(t, err)
	p, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)
	assert.True(t, p.CanManageStaff())

	_, err = svc.Register(ctx, "carol", "", "carol-password")
	require.NoError(t, err)
	require.NoError(t, svc.EnsureAdmin(ctx, "carol", "unused"))
	_, err = svc.Login(ctx, "carol", "carol-password")
	require.NoError(t, err, "promotion keeps the password")
}
