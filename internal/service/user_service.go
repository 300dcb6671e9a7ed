package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     domain.UserRole `json:"role"`
}

// UpdateUserInput is the DTO for updating a user.
type UpdateUserInput struct {
	Name     *string          `json:"name"`
	Email    *string          `json:"email" binding:"omitempty,email"`
	Role     *domain.UserRole `json:"role"`
	Password *string          `json:"password" binding:"omitempty,min=6"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type userService struct {
	repo     port.UserRepository
	sessions port.SessionRepository
	email    port.EmailSender
	log      *zap.Logger
	cost     int
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository, sessions port.SessionRepository, email port.EmailSender, log *zap.Logger) UserService {
	return &userService{repo: repo, sessions: sessions, email: email, log: log, cost: 12}
}

// HashPassword returns the bcrypt hash stored for password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrInvalidInput)
	}

	hash, err := HashPassword(input.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.email.SendWelcomeEmail(ctx, user.Email, user.Name, string(user.Role)); err != nil {
		s.log.Warn("sending welcome email failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.log.Info("user created", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.repo.List(ctx, offset, limit)
}

// Update applies the non-nil fields. A password change ends every session
// of the user.
func (s *userService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, fmt.Errorf("role %q: %w", *input.Role, domain.ErrInvalidInput)
		}
		user.Role = *input.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if input.Password != nil {
		hash, err := HashPassword(*input.Password, s.cost)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		if err := s.sessions.DeleteByUser(ctx, id); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Delete removes a user. Users cannot delete their own account.
func (s *userService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return fmt.Errorf("deleting own account: %w", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", id.String()), zap.String("by", actorID.String()))
	return nil
}
