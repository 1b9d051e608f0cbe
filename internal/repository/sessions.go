package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"barbot/internal/domain"
)

// Sessions persists chat login state in Postgres.
type Sessions struct {
	db *sqlx.DB
}

// NewSessions builds a session repository on top of the given connection pool.
func NewSessions(db *sqlx.DB) *Sessions {
	return &Sessions{db: db}
}

const upsertSessionQuery = `
INSERT INTO sessions (chat_id, username, role)
VALUES ($1, $2, $3)
ON CONFLICT (chat_id) DO UPDATE SET username = EXCLUDED.username, role = EXCLUDED.role`

// Upsert stores the session for a chat, replacing any previous login.
func (r *Sessions) Upsert(ctx context.Context, s domain.Session) error {
	if _, err := r.db.ExecContext(ctx, upsertSessionQuery, s.ChatID, s.Username, s.Role); err != nil {
		return fmt.Errorf("sessions: upsert chat %d: %w", s.ChatID, err)
	}
	return nil
}

// Get returns the session bound to a chat, or nil when the chat is not logged in.
func (r *Sessions) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	var s domain.Session
	err := r.db.GetContext(ctx, &s,
		`SELECT chat_id, username, role FROM sessions WHERE chat_id = $1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessions: get chat %d: %w", chatID, err)
	}
	return &s, nil
}

// Delete removes the session for a chat. It reports whether a session existed.
func (r *Sessions) Delete(ctx context.Context, chatID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID)
	if err != nil {
		return false, fmt.Errorf("sessions: delete chat %d: %w", chatID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sessions: delete chat %d: %w", chatID, err)
	}
	return n > 0, nil
}

// ChatIDsByRole lists chats of every session currently holding the given role.
func (r *Sessions) ChatIDsByRole(ctx context.Context, role string) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT chat_id FROM sessions WHERE role = $1`, role)
	if err != nil {
		return nil, fmt.Errorf("sessions: list by role %q: %w", role, err)
	}
	return ids, nil
}

// ChatIDsByUsername lists chats where the given user is logged in.
func (r *Sessions) ChatIDsByUsername(ctx context.Context, username string) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT chat_id FROM sessions WHERE username = $1`, username)
	if err != nil {
		return nil, fmt.Errorf("sessions: list by username %q: %w", username, err)
	}
	return ids, nil
}
