package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	middleware.TokenPair
	User *models.User
}

func (h *AuthService) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(h.JWTSecret)
}

func (h *AuthService) CreateRefreshToken(id, jti string, refreshExp time.Time) (string, error) {
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jti,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(h.RefreshSecret)
}

func (h *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if _, err := mail.ParseAddress(email); err != nil || name == "" {
		return nil, fmt.Errorf("email and name required: %w", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Email: email, Name: name, PasswordHash: pwHash, Role: models.RoleUser}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

func (h *AuthService) issue(user *models.User) (*middleware.TokenPair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(accessTTL)
	accessToken, err := h.CreateAccessToken(user.Role, user.ID.String(), accessExp)
	if err != nil {
		return nil, nil, err
	}

	jti := jwthelp.NewJTI()
	refreshExp := now.Add(refreshTTL)
	refreshToken, err := h.CreateRefreshToken(user.ID.String(), jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	stored := &models.RefreshToken{
		Token:     jwthelp.Sha256Hex(refreshToken),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &middleware.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, stored, nil
}

func (h *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := h.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID.String())
		return nil, ErrInvalidCredentials
	}

	pair, stored, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	if err := h.Repo.AddRefreshToken(ctx, stored); err != nil {
		return nil, err
	}
	return &LoginResult{TokenPair: *pair, User: user}, nil
}

// Refresh rotates a refresh token. It satisfies middleware.Refresher.
func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (*middleware.TokenPair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, h.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token: %w", ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("refresh subject: %w", ErrUnauthorized)
	}
	user, err := h.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh user: %w", ErrUnauthorized)
		}
		return nil, err
	}

	pair, stored, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	if err := h.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, stored); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%w: %w", err, ErrUnauthorized)
		}
		return nil, err
	}
	return pair, nil
}

func (h *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return h.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (h *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := h.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}
