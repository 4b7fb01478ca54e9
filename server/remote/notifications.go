package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/topi314/club-directory/server/store"
)

func (c *Client) GetUserNotifications(ctx context.Context, userID string) ([]store.Notification, error) {
	var notifications []store.Notification
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/notifications",
		query:  url.Values{"select": {"*"}, "user_id": {eq(userID)}, "order": {"created_at.desc"}},
	}, &notifications); err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, userID string, id string) error {
	if err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/notifications",
		query:  url.Values{"id": {eq(id)}, "user_id": {eq(userID)}},
		body:   map[string]any{"read": true, "read_at": time.Now().UTC()},
		prefer: "return=minimal",
	}, nil); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (c *Client) MarkAllRead(ctx context.Context, userID string) error {
	if err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/notifications",
		query:  url.Values{"user_id": {eq(userID)}, "read": {"eq.false"}},
		body:   map[string]any{"read": true, "read_at": time.Now().UTC()},
		prefer: "return=minimal",
	}, nil); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

func (c *Client) DeleteNotification(ctx context.Context, userID string, id string) error {
	if err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/notifications",
		query:  url.Values{"id": {eq(id)}, "user_id": {eq(userID)}},
	}, nil); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (c *Client) GetPreferences(ctx context.Context, userID string) (*store.Preferences, error) {
	var rows []store.Preferences
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/notification_preferences",
		query:  url.Values{"select": {"*"}, "user_id": {eq(userID)}, "limit": {"1"}},
	}, &rows); err != nil {
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}
	if len(rows) == 0 {
		prefs := store.DefaultPreferences(userID)
		return &prefs, nil
	}
	return &rows[0], nil
}

// UpdatePreferences merges patch into the current row and upserts the result.
// The returned row is the one the backend stored.
func (c *Client) UpdatePreferences(ctx context.Context, userID string, patch store.PreferencesPatch) (*store.Preferences, error) {
	current, err := c.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*current)
	merged.UserID = userID
	merged.UpdatedAt = time.Now().UTC()

	var rows []store.Preferences
	if err = c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/rest/v1/notification_preferences",
		query:      url.Values{"on_conflict": {"user_id"}},
		body:       merged,
		prefer:     "resolution=merge-duplicates,return=representation",
		idempotent: true,
	}, &rows); err != nil {
		return nil, fmt.Errorf("failed to update notification preferences: %w", err)
	}
	return one(rows)
}
