package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/topi314/club-directory/server/store"
)

var ErrSessionExpired = errors.New("session expired")

type SessionWithUser struct {
	store.Session
	store.User
}

func (d *Database) GetSession(ctx context.Context, sessionID string) (*SessionWithUser, error) {
	query := `
		SELECT sessions.*, users.user_id, users.user_username, users.user_display_name, users.user_avatar_url
		FROM sessions
		JOIN users ON sessions.session_user_id = users.user_id
		WHERE sessions.session_id = $1
	`

	var session SessionWithUser
	if err := d.db.GetContext(ctx, &session, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", notFound(err))
	}

	if session.ExpiresAt.Before(time.Now()) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (d *Database) CreateSession(ctx context.Context, session store.Session) error {
	query := `
		INSERT INTO sessions (session_id, session_user_id, session_created_at, session_expires_at)
		VALUES (:session_id, :session_user_id, :session_created_at, :session_expires_at)
	`
	if _, err := d.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (d *Database) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = $1", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (d *Database) DeleteExpiredSessions(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_expires_at < NOW()"); err != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	return nil
}
