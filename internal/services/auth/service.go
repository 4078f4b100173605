package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/models"
	"github.com/xelth-com/jobintake/internal/session"
	"github.com/xelth-com/jobintake/internal/utils"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 6

	confirmTokenTTL = 24 * time.Hour
	resetTokenTTL   = time.Hour
)

// Tokens is the pair handed out on sign-in
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service manages accounts and sessions
type Service struct {
	db      *database.DB
	cfg     *config.Config
	revoker session.Revoker
	mailer  Mailer
	log     *logger.Logger
	now     func() time.Time
}

// NewService creates a new auth service
func NewService(db *database.DB, cfg *config.Config, revoker session.Revoker, mailer Mailer, log *logger.Logger) *Service {
	return &Service{
		db:      db,
		cfg:     cfg,
		revoker: revoker,
		mailer:  mailer,
		log:     log.With("service", "auth"),
		now:     time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *Service) link(path, token string) string {
	return s.cfg.PublicBaseURL + path + "?token=" + url.QueryEscape(token)
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	var user models.UserAuth
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// SignUp creates an unconfirmed account and mails a confirmation link
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.UserAuth, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.UserAuth{Email: email, Password: hashed}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateActionToken(user.ID, utils.PurposeConfirmEmail, confirmTokenTTL, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to issue confirmation token: %w", err)
	}
	if err := s.mailer.Send(ctx, Message{
		To:      email,
		Subject: "Confirm your email",
		Link:    s.link("/confirm", token),
	}); err != nil {
		s.log.Warn("Failed to send confirmation email", "email", email, "error", err)
	}

	s.log.Info("User signed up", "userId", user.ID)
	return &user, nil
}

// ConfirmEmail marks the account behind a confirmation token as verified
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	userID, err := utils.ValidateActionToken(token, utils.PurposeConfirmEmail, s.cfg.JWTSecret)
	if err != nil {
		return ErrInvalidToken
	}

	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.UserAuth{}).
		Where("id = ? AND email_confirmed_at IS NULL", userID).
		Update("email_confirmed_at", &now)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// already confirmed is fine; a missing user is not
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.UserAuth{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to confirm email: %w", err)
		}
		if count == 0 {
			return ErrInvalidToken
		}
	}
	return nil
}

// SignIn checks credentials and issues tokens
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.UserAuth, Tokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, Tokens{}, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.Password) {
		return nil, Tokens{}, ErrInvalidCredentials
	}
	if !user.Confirmed() {
		return nil, Tokens{}, ErrEmailNotConfirmed
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.db.WithContext(ctx).Model(user).Update("last_login", &now).Error; err != nil {
		s.log.Warn("Failed to record last login", "userId", user.ID, "error", err)
	}

	access, refresh, err := utils.GenerateTokens(user, s.cfg)
	if err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return user, Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh trades a refresh token for a new token pair. The used refresh
// token is revoked, so each one works once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.UserAuth, Tokens, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, Tokens{}, ErrInvalidToken
	}
	if t, _ := claims["type"].(string); t != utils.PurposeRefresh {
		return nil, Tokens{}, ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	userID, _ := claims["id"].(string)
	exp, err := claims.GetExpirationTime()
	if jti == "" || userID == "" || err != nil || exp == nil {
		return nil, Tokens{}, ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, jti)
	if err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return nil, Tokens{}, ErrInvalidToken
	}

	var user models.UserAuth
	err = s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Tokens{}, ErrInvalidToken
	}
	if err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Confirmed() {
		return nil, Tokens{}, ErrEmailNotConfirmed
	}

	if err := s.revoker.Revoke(ctx, jti, exp.Time); err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	access, refresh, err := utils.GenerateTokens(&user, s.cfg)
	if err != nil {
		return nil, Tokens{}, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &user, Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// RevokeRefresh invalidates a refresh token on sign-out. Invalid tokens are ignored.
func (s *Service) RevokeRefresh(ctx context.Context, refreshToken string) error {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil
	}
	if t, _ := claims["type"].(string); t != utils.PurposeRefresh {
		return nil
	}
	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if jti == "" || err != nil || exp == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, exp.Time); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// SignOut revokes an access token until its expiry
func (s *Service) SignOut(ctx context.Context, tokenID string, expiry time.Time) error {
	if tokenID == "" {
		return ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiry); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// SendPasswordReset mails a reset link. Unknown addresses are silently ignored.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug("Password reset requested for unknown email")
		return nil
	}

	token, err := utils.GenerateActionToken(user.ID, utils.PurposeResetPassword, resetTokenTTL, s.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	if err := s.mailer.Send(ctx, Message{
		To:      email,
		Subject: "Reset your password",
		Link:    s.link("/update-password", token),
	}); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password using a reset token
func (s *Service) UpdatePassword(ctx context.Context, token, newPassword string) error {
	userID, err := utils.ValidateActionToken(token, utils.PurposeResetPassword, s.cfg.JWTSecret)
	if err != nil {
		return ErrInvalidToken
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.UserAuth{}).Where("id = ?", userID).Update("password", hashed)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	s.log.Info("Password updated", "userId", userID)
	return nil
}
