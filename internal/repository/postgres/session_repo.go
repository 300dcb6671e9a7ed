package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

type sessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new PostgreSQL-backed SessionRepository.
func NewSessionRepo(db *sqlx.DB) port.SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.Session) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, session_id, user_id, expires, created_at) VALUES ($1, $2, $3, $4, $5)",
		s.ID, s.SessionID, s.UserID, s.Expires, s.CreatedAt)
	if err != nil {
		return wrapError("sessionRepo.Create", err)
	}
	return nil
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.GetContext(ctx, &s,
		"SELECT id, session_id, user_id, expires, created_at FROM sessions WHERE session_id = $1", sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("sessionRepo.GetBySessionID: %w", err)
	}
	return &s, nil
}

func (r *sessionRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = $1", sessionID); err != nil {
		return fmt.Errorf("sessionRepo.DeleteBySessionID: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("sessionRepo.DeleteByUser: %w", err)
	}
	return nil
}
