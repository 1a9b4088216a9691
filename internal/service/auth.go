package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Haseeb044/ecommerce-backend-design/internal/events"
	"github.com/Haseeb044/ecommerce-backend-design/internal/hash"
	"github.com/Haseeb044/ecommerce-backend-design/internal/logging"
	"github.com/Haseeb044/ecommerce-backend-design/internal/models"
	"github.com/Haseeb044/ecommerce-backend-design/internal/repo"
	"github.com/Haseeb044/ecommerce-backend-design/internal/tokens"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

const RoleAdmin = "admin"

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *events.Producer
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.SignAccess(user.Username, user.Role, s.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, err := tokens.SignRefresh(user.Username, tokens.NewJTI(), s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, user.ID, s.RefreshSecret); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == RoleAdmin,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_failed", "reason", "username taken", "username", username)
		} else {
			l.Error("register_error", "error", err)
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, &user)
	if err != nil {
		l.Error("register_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	s.publishUserEvent(ctx, "user_registered", &user)
	l.Info("register_success", "username", username)
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "reason", "invalid username or password")
		} else {
			l.Error("login_error", "error", err)
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	s.publishUserEvent(ctx, "user_logged_in", user)
	l.Info("login_success")
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// Refresh rotates a valid refresh token: the old one is revoked and a new
// pair is issued for the same user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	usable, err := s.Repo.RefreshUsable(ctx, refreshToken)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return nil, err
	}
	if !usable {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.UserByUsername(ctx, claims.Subject)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.Error("refresh_error", "error", err)
		return nil, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	l.Info("refresh_success", "username", user.Username)
	return pair, nil
}

func (s *AuthService) publishUserEvent(ctx context.Context, eventType string, user *models.User) {
	event := map[string]any{
		"type":     eventType,
		"userID":   user.ID,
		"username": user.Username,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicUserEvents, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
