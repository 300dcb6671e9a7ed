package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/port"
)

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// AuthService defines the session authentication contract. Session ids are
// passed explicitly; nothing is held per process.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (*domain.User, error)
}

type authService struct {
	users    port.UserRepository
	sessions port.SessionRepository
	cfg      config.SessionConfig
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	users port.UserRepository,
	sessions port.SessionRepository,
	cfg config.SessionConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*domain.Session, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("auth.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		SessionID: uuid.New().String(),
		UserID:    user.ID,
		Expires:   s.now().Add(s.cfg.TTL).UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("auth.Login: %w", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return session, user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteBySessionID(ctx, sessionID)
}

// ResolveSession returns the user owning sessionID. Missing, unknown and
// expired sessions all yield domain.ErrUnauthorized; expired rows are removed.
func (s *authService) ResolveSession(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.ResolveSession: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.sessions.DeleteBySessionID(ctx, sessionID); err != nil {
			s.log.Warn("deleting expired session failed", zap.Error(err))
		}
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.ResolveSession: %w", err)
	}
	return user, nil
}
