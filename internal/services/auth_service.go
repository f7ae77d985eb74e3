package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/classtrack/learning-service/internal/cache"
	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService authenticates users and manages their server-side sessions.
type AuthService interface {
	// Login verifies credentials and returns a fresh session token.
	Login(ctx context.Context, userID, password string) (string, *models.User, error)

	// Resolve maps a session token back to its session, or
	// ErrSessionExpired when the token is unknown.
	Resolve(ctx context.Context, token string) (*cache.Session, error)

	// Logout revokes the session server-side.
	Logout(ctx context.Context, token string) error

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type authService struct {
	repo     repositories.Repository
	sessions cache.SessionStore
	logger   *slog.Logger
}

func NewAuthService(repo repositories.Repository, sessions cache.SessionStore, logger *slog.Logger) AuthService {
	return &authService{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, userID, password string) (string, *models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a bad password so login probes learn nothing.
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Role.Valid() {
		return "", nil, ErrInvalidRole
	}

	token, err := s.sessions.Create(ctx, cache.Session{
		UserID:  user.ID,
		Role:    user.Role,
		ChildID: user.ChildID,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*cache.Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if !session.Role.Valid() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 4 || len(newPassword) > 72 {
		return NewValidationError("new_password", "must be between 4 and 72 characters", nil)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.User().UpdatePassword(ctx, userID, hash)
}
