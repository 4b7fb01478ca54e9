// Package notifications keeps a user's notification list and preferences in
// sync with the store. Local changes are only applied after the store confirms
// them.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/topi314/club-directory/internal/tsync"
	"github.com/topi314/club-directory/internal/xerrors"
	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/store"
)

var (
	ErrSignInRequired     = errors.New("sign in required")
	ErrInvalidPreferences = errors.New("invalid notification preferences")
)

type State struct {
	Notifications []store.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
	Preferences   *store.Preferences   `json:"preferences"`
	Loading       bool                 `json:"loading"`
}

func New(notifications store.Notifications, clk clock.Clock) *Feed {
	return &Feed{
		notifications: notifications,
		clock:         clk,
		deleting:      make(map[string]struct{}),
	}
}

// Feed is safe for concurrent use.
type Feed struct {
	notifications store.Notifications
	clock         clock.Clock

	mu          sync.Mutex
	userID      string
	seq         uint64
	items       []store.Notification
	preferences *store.Preferences
	loading     int
	deleting    map[string]struct{}
}

// Load fetches the notification list and preferences of userID. A failed list
// fetch leaves the list empty.
func (f *Feed) Load(ctx context.Context, userID string) State {
	f.mu.Lock()
	f.target(userID)
	f.seq++
	seq := f.seq
	if userID == "" {
		defer f.mu.Unlock()
		return f.state()
	}
	f.loading++
	f.mu.Unlock()

	var (
		items       []store.Notification
		preferences *store.Preferences
	)
	eg, _ := tsync.ErrorGroupWithContext(ctx)
	eg.Go(func(ctx context.Context) error {
		n, err := f.notifications.GetUserNotifications(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get notifications: %w", err)
		}
		items = n
		return nil
	})
	eg.Go(func(ctx context.Context) error {
		p, err := f.notifications.GetPreferences(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get notification preferences: %w", err)
		}
		preferences = p
		return nil
	})
	err := eg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading--

	if seq != f.seq {
		slog.DebugContext(ctx, "Discarding stale notification load", slog.String("user_id", userID), xslog.Component("notifications"))
		return f.state()
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load notifications", slog.String("user_id", userID), slog.Any("errs", xerrors.Messages(err)), xslog.Component("notifications"))
	}

	f.items = items
	if preferences != nil {
		f.preferences = preferences
	}
	return f.state()
}

// MarkAsRead marks one notification as read once the store confirms. Other
// notifications are left untouched.
func (f *Feed) MarkAsRead(ctx context.Context, userID string, id string) (State, error) {
	if userID == "" {
		return f.State(), ErrSignInRequired
	}

	if err := f.notifications.MarkNotificationRead(ctx, userID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark notification as read", slog.String("notification_id", id), slog.Any("err", err), xslog.Component("notifications"))
		return f.State(), fmt.Errorf("failed to mark notification as read: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userID == userID {
		f.markRead(func(n store.Notification) bool {
			return n.ID == id
		})
	}
	return f.state(), nil
}

func (f *Feed) MarkAllAsRead(ctx context.Context, userID string) (State, error) {
	if userID == "" {
		return f.State(), ErrSignInRequired
	}

	if err := f.notifications.MarkAllRead(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark all notifications as read", slog.String("user_id", userID), slog.Any("err", err), xslog.Component("notifications"))
		return f.State(), fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userID == userID {
		f.markRead(func(store.Notification) bool {
			return true
		})
	}
	return f.state(), nil
}

// markRead must be called with f.mu held.
func (f *Feed) markRead(match func(store.Notification) bool) {
	now := f.clock.Now()
	for i := range f.items {
		if f.items[i].Read || !match(f.items[i]) {
			continue
		}
		readAt := now
		f.items[i].Read = true
		f.items[i].ReadAt = &readAt
	}
}

// Delete removes a notification once the store confirms. Deleting an id that
// is already gone or currently being deleted is a no-op.
func (f *Feed) Delete(ctx context.Context, userID string, id string) (State, error) {
	if userID == "" {
		return f.State(), ErrSignInRequired
	}

	f.mu.Lock()
	if _, ok := f.deleting[id]; ok {
		defer f.mu.Unlock()
		return f.state(), nil
	}
	f.deleting[id] = struct{}{}
	f.mu.Unlock()

	err := f.notifications.DeleteNotification(ctx, userID, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.deleting, id)

	if err != nil {
		slog.ErrorContext(ctx, "Failed to delete notification", slog.String("notification_id", id), slog.Any("err", err), xslog.Component("notifications"))
		return f.state(), fmt.Errorf("failed to delete notification: %w", err)
	}

	if f.userID == userID {
		f.items = slices.DeleteFunc(f.items, func(n store.Notification) bool {
			return n.ID == id
		})
	}
	return f.state(), nil
}

// UpdatePreferences merges patch into the stored preferences and replaces the
// local copy with the row the store returns.
func (f *Feed) UpdatePreferences(ctx context.Context, userID string, patch store.PreferencesPatch) (State, error) {
	if userID == "" {
		return f.State(), ErrSignInRequired
	}
	if patch.ReminderTiming.OK && !patch.ReminderTiming.Value.Valid() {
		return f.State(), fmt.Errorf("%w: unknown reminder timing %q", ErrInvalidPreferences, patch.ReminderTiming.Value)
	}

	preferences, err := f.notifications.UpdatePreferences(ctx, userID, patch)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to update notification preferences", slog.String("user_id", userID), slog.Any("err", err), xslog.Component("notifications"))
		return f.State(), fmt.Errorf("failed to update notification preferences: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.target(userID)
	f.preferences = preferences
	return f.state(), nil
}

func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state()
}

// UnreadCount is derived from the current list.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unreadCount()
}

func (f *Feed) unreadCount() int {
	var count int
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (f *Feed) target(userID string) {
	if f.userID == userID {
		return
	}
	f.seq++
	f.userID = userID
	f.items = nil
	f.preferences = nil
}

func (f *Feed) state() State {
	items := make([]store.Notification, len(f.items))
	copy(items, f.items)

	var preferences *store.Preferences
	if f.preferences != nil {
		p := *f.preferences
		preferences = &p
	}

	return State{
		Notifications: items,
		UnreadCount:   f.unreadCount(),
		Preferences:   preferences,
		Loading:       f.loading > 0,
	}
}
