package database

import (
	"context"
	"fmt"

	"github.com/topi314/club-directory/server/store"
)

func (d *Database) UpsertUser(ctx context.Context, user store.User) error {
	query := `
		INSERT INTO users (user_id, user_username, user_display_name, user_avatar_url)
		VALUES (:user_id, :user_username, :user_display_name, :user_avatar_url)
		ON CONFLICT (user_id) DO UPDATE SET
			user_username = EXCLUDED.user_username,
			user_display_name = EXCLUDED.user_display_name,
			user_avatar_url = EXCLUDED.user_avatar_url
	`
	if _, err := d.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
