package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/cache"
	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type AuthService struct {
	users   core.IUserRepo
	tokens  *auth.Tokens
	store   core.ITokenStore
	pub     core.IPublisher
	metrics *metrics.Metrics
	cfg     config.Auth
	mylog   logger.Logger
	now     func() time.Time
}

func NewAuthService(
	users core.IUserRepo,
	tokens *auth.Tokens,
	tokenStore core.ITokenStore,
	pub core.IPublisher,
	m *metrics.Metrics,
	cfg config.Auth,
	mylog logger.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		store:   tokenStore,
		pub:     pub,
		metrics: m,
		cfg:     cfg,
		mylog:   mylog,
		now:     time.Now,
	}
}

// SignUp creates a client account and signs it in.
func (as *AuthService) SignUp(ctx context.Context, req dto.SignUpRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("sign_up")

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return dto.AuthResponse{}, as.reject("invalid_email", err)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return dto.AuthResponse{}, as.reject("weak_password", err)
		}
		return dto.AuthResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if len(name) > core.MaxNameLen || len(req.Phone) > core.MaxPhoneLen {
		return dto.AuthResponse{}, core.ErrInvalidProfile
	}

	u, err := as.users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleClient,
		Addresses:    []models.Address{},
		PasswordHash: hash,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return dto.AuthResponse{}, as.reject("email_in_use", auth.ErrEmailInUse)
	}
	if err != nil {
		mylog.Error("Failed to create user", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot create user: %w", err)
	}

	mylog.Info("Account created", "user_id", u.UID)
	return as.issue(u)
}

func (as *AuthService) SignIn(ctx context.Context, req dto.SignInRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("sign_in")

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return dto.AuthResponse{}, as.reject("invalid_email", err)
	}
	u, err := as.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return dto.AuthResponse{}, as.reject("user_not_found", auth.ErrUserNotFound)
	}
	if err != nil {
		mylog.Error("Failed to load user", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot load user: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			return dto.AuthResponse{}, as.reject("wrong_password", err)
		}
		return dto.AuthResponse{}, err
	}

	mylog.Info("Signed in", "user_id", u.UID, "role", u.Role)
	return as.issue(u)
}

// SignOut revokes the caller's token until it would have expired anyway.
func (as *AuthService) SignOut(ctx context.Context, who auth.Identity) error {
	if err := as.store.RevokeToken(ctx, who.TokenID, who.ExpiresAt); err != nil {
		as.mylog.Action("sign_out").Error("Failed to revoke token", err, "user_id", who.UID)
		return fmt.Errorf("cannot revoke token: %w", err)
	}
	as.mylog.Action("sign_out").Info("Signed out", "user_id", who.UID)
	return nil
}

func (as *AuthService) Me(ctx context.Context, who auth.Identity) (models.User, error) {
	u, err := as.users.Get(ctx, who.UID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("cannot load user: %w", err)
	}
	return u, nil
}

// RequestPasswordReset stores a single-use token and publishes the reset
// link for delivery.
func (as *AuthService) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	mylog := as.mylog.Action("password_reset_request")

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return as.reject("invalid_email", err)
	}
	u, err := as.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return as.reject("user_not_found", auth.ErrUserNotFound)
	}
	if err != nil {
		mylog.Error("Failed to load user", err)
		return fmt.Errorf("cannot load user: %w", err)
	}

	token := uuid.NewString()
	if err := as.store.PutResetToken(ctx, token, u.UID, as.cfg.ResetTTL); err != nil {
		mylog.Error("Failed to store reset token", err, "user_id", u.UID)
		return fmt.Errorf("cannot store reset token: %w", err)
	}

	msg := models.PasswordResetMessage{
		Email:     u.Email,
		Name:      u.Name,
		Link:      resetLink(as.cfg.ResetURL, token),
		ExpiresAt: as.now().Add(as.cfg.ResetTTL).UTC(),
	}
	if err := as.pub.Publish(ctx, models.RoutingPasswordReset, msg); err != nil {
		mylog.Error("Failed to publish reset link", err, "user_id", u.UID)
		return fmt.Errorf("cannot send reset link: %w", err)
	}
	mylog.Info("Password reset requested", "user_id", u.UID)
	return nil
}

func (as *AuthService) ConfirmPasswordReset(ctx context.Context, req dto.PasswordResetConfirm) error {
	mylog := as.mylog.Action("password_reset_confirm")

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	uid, err := as.store.TakeResetToken(ctx, req.Token)
	if errors.Is(err, cache.ErrTokenNotFound) {
		return core.ErrResetTokenInvalid
	}
	if err != nil {
		mylog.Error("Failed to read reset token", err)
		return fmt.Errorf("cannot read reset token: %w", err)
	}

	err = as.users.UpdatePassword(ctx, uid, hash)
	if errors.Is(err, store.ErrNotFound) {
		return core.ErrResetTokenInvalid
	}
	if err != nil {
		mylog.Error("Failed to save password", err, "user_id", uid)
		return fmt.Errorf("cannot save password: %w", err)
	}
	mylog.Info("Password reset", "user_id", uid)
	return nil
}

func (as *AuthService) issue(u models.User) (dto.AuthResponse, error) {
	token, id, err := as.tokens.Issue(u)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if u.Addresses == nil {
		u.Addresses = []models.Address{}
	}
	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: id.ExpiresAt.UTC().Format(time.RFC3339),
		User:      u,
	}, nil
}

func (as *AuthService) reject(reason string, err error) error {
	as.metrics.AuthFailures.WithLabelValues(reason).Inc()
	as.mylog.Action("auth_rejected").Debug("Auth attempt rejected", "reason", reason)
	return err
}

func resetLink(base, token string) string {
	if base == "" {
		base = "/reset-password"
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}
