package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/hash"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

const minPasswordLen = 8

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username required: %w", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		err = mapRepoErr(err, "create user")
		if errors.Is(err, ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "user already exists")
		} else {
			l.Error("register_error", "status", 500, "error", err)
		}
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) issue(userID uint) (*LoginResult, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(s.AccessTTL)
	refreshExp := now.Add(s.RefreshTTL)

	accessToken, err := tokens.NewAccessToken(userID, accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, jti, err := tokens.NewRefreshToken(userID, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	row := &models.RefreshToken{
		JTI:       jti,
		TokenHash: hash.Sha256Hex(refreshToken),
		UserID:    userID,
		ExpiresAt: refreshExp.Unix(),
	}
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	res, row, err := s.issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, row); err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, mapRepoErr(err, "save refresh token")
	}

	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	res, row, err := s.issue(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, hash.Sha256Hex(refreshToken), row); err != nil {
		if repo.IsNotFound(err) || errors.Is(err, repo.ErrTokenExpiredOrRevoked) {
			l.Warn("refresh_failed", "status", 401, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("refresh_success", "user_id", userID)
	return res, nil
}

// LogOut revokes the refresh token. Unknown tokens are ignored.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.Repo.RevokeRefreshToken(ctx, hash.Sha256Hex(refreshToken)); err != nil {
		return mapRepoErr(err, "revoke refresh token")
	}
	return nil
}

// Principal loads the user and resolves its role from group membership.
func (s *AuthService) Principal(ctx context.Context, userID uint) (access.Principal, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return access.Principal{}, fmt.Errorf("user %d: %w", userID, ErrUnauthorized)
		}
		return access.Principal{}, err
	}
	groups, err := s.Repo.GroupNames(ctx, user.ID)
	if err != nil {
		return access.Principal{}, err
	}
	return access.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     access.RoleFromGroups(groups),
		IsAdmin:  user.IsAdmin,
	}, nil
}

// Authenticate validates an access token and resolves the caller.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (access.Principal, error) {
	claims, err := tokens.AccessClaimsFromToken(accessToken, s.AccessSecret)
	if err != nil {
		return access.Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return access.Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return s.Principal(ctx, userID)
}

// EnsureAdmin creates the administrator account or marks an existing user as admin.
// An existing user's password is left as is.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if user.IsAdmin {
			return nil
		}
		user.IsAdmin = true
		if err := s.Repo.SaveUser(ctx, user); err != nil {
			return mapRepoErr(err, "promote admin")
		}
		l.Info("admin_promoted", "user_id", user.ID)
		return nil
	case !repo.IsNotFound(err):
		return err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	user = &models.User{Username: username, PasswordHash: pwHash, IsAdmin: true}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return mapRepoErr(err, "create admin")
	}
	l.Info("admin_created", "user_id", user.ID)
	return nil
}
