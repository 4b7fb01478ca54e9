package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/topi314/club-directory/internal/omit"
	"github.com/topi314/club-directory/server/store"
)

func (d *Database) GetUserNotifications(ctx context.Context, userID string) ([]store.Notification, error) {
	var notifications []store.Notification
	query := "SELECT * FROM notifications WHERE notification_user_id = $1 ORDER BY notification_created_at DESC"
	if err := d.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (d *Database) MarkNotificationRead(ctx context.Context, userID string, id string) error {
	query := `
		UPDATE notifications
		SET notification_read = TRUE, notification_read_at = COALESCE(notification_read_at, NOW())
		WHERE notification_id = $1 AND notification_user_id = $2
	`
	result, err := d.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", notFound(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to mark notification as read: %w", store.ErrNotFound)
	}
	return nil
}

func (d *Database) MarkAllRead(ctx context.Context, userID string) error {
	query := `
		UPDATE notifications
		SET notification_read = TRUE, notification_read_at = NOW()
		WHERE notification_user_id = $1 AND NOT notification_read
	`
	if _, err := d.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

func (d *Database) DeleteNotification(ctx context.Context, userID string, id string) error {
	query := "DELETE FROM notifications WHERE notification_id = $1 AND notification_user_id = $2"
	if _, err := d.db.ExecContext(ctx, query, id, userID); err != nil {
		if isInvalidText(err) {
			return nil
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (d *Database) GetPreferences(ctx context.Context, userID string) (*store.Preferences, error) {
	var prefs store.Preferences
	query := "SELECT * FROM notification_preferences WHERE notification_preference_user_id = $1"
	if err := d.db.GetContext(ctx, &prefs, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			prefs = store.DefaultPreferences(userID)
			return &prefs, nil
		}
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}
	return &prefs, nil
}

// UpdatePreferences creates the default row if needed and applies only the
// fields present in patch.
func (d *Database) UpdatePreferences(ctx context.Context, userID string, patch store.PreferencesPatch) (*store.Preferences, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	defaults := store.DefaultPreferences(userID)
	insert := `
		INSERT INTO notification_preferences (
			notification_preference_user_id,
			notification_preference_email,
			notification_preference_push,
			notification_preference_event_reminders,
			notification_preference_club_updates,
			notification_preference_new_members,
			notification_preference_announcements,
			notification_preference_reminder_timing
		) VALUES (
			:notification_preference_user_id,
			:notification_preference_email,
			:notification_preference_push,
			:notification_preference_event_reminders,
			:notification_preference_club_updates,
			:notification_preference_new_members,
			:notification_preference_announcements,
			:notification_preference_reminder_timing
		) ON CONFLICT (notification_preference_user_id) DO NOTHING
	`
	if _, err = tx.NamedExecContext(ctx, insert, defaults); err != nil {
		return nil, fmt.Errorf("failed to create notification preferences: %w", err)
	}

	update := `
		UPDATE notification_preferences SET
			notification_preference_email = COALESCE($2, notification_preference_email),
			notification_preference_push = COALESCE($3, notification_preference_push),
			notification_preference_event_reminders = COALESCE($4, notification_preference_event_reminders),
			notification_preference_club_updates = COALESCE($5, notification_preference_club_updates),
			notification_preference_new_members = COALESCE($6, notification_preference_new_members),
			notification_preference_announcements = COALESCE($7, notification_preference_announcements),
			notification_preference_reminder_timing = COALESCE($8, notification_preference_reminder_timing),
			notification_preference_updated_at = NOW()
		WHERE notification_preference_user_id = $1
		RETURNING *
	`
	var prefs store.Preferences
	if err = tx.GetContext(ctx, &prefs, update,
		userID,
		optional(patch.EmailNotifications),
		optional(patch.PushNotifications),
		optional(patch.EventReminders),
		optional(patch.ClubUpdates),
		optional(patch.NewMembers),
		optional(patch.Announcements),
		optional(patch.ReminderTiming),
	); err != nil {
		return nil, fmt.Errorf("failed to update notification preferences: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &prefs, nil
}

func optional[T any](o omit.Omit[T]) *T {
	if !o.OK {
		return nil
	}
	return &o.Value
}
