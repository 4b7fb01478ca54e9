package notifications

import (
	"context"
	"sync"

	"github.com/topi314/club-directory/server/store"
)

type FakeNotifications struct {
	mu    sync.Mutex
	trace []string

	GetUserNotificationsFunc func(ctx context.Context, userID string) ([]store.Notification, error)
	MarkNotificationReadFunc func(ctx context.Context, userID string, id string) error
	MarkAllReadFunc          func(ctx context.Context, userID string) error
	DeleteNotificationFunc   func(ctx context.Context, userID string, id string) error
	GetPreferencesFunc       func(ctx context.Context, userID string) (*store.Preferences, error)
	UpdatePreferencesFunc    func(ctx context.Context, userID string, patch store.PreferencesPatch) (*store.Preferences, error)
}

func (f *FakeNotifications) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeNotifications) GetUserNotifications(ctx context.Context, userID string) ([]store.Notification, error) {
	f.record("GetUserNotifications")
	if f.GetUserNotificationsFunc != nil {
		return f.GetUserNotificationsFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeNotifications) MarkNotificationRead(ctx context.Context, userID string, id string) error {
	f.record("MarkNotificationRead")
	if f.MarkNotificationReadFunc != nil {
		return f.MarkNotificationReadFunc(ctx, userID, id)
	}
	return nil
}

func (f *FakeNotifications) MarkAllRead(ctx context.Context, userID string) error {
	f.record("MarkAllRead")
	if f.MarkAllReadFunc != nil {
		return f.MarkAllReadFunc(ctx, userID)
	}
	return nil
}

func (f *FakeNotifications) DeleteNotification(ctx context.Context, userID string, id string) error {
	f.record("DeleteNotification")
	if f.DeleteNotificationFunc != nil {
		return f.DeleteNotificationFunc(ctx, userID, id)
	}
	return nil
}

func (f *FakeNotifications) GetPreferences(ctx context.Context, userID string) (*store.Preferences, error) {
	f.record("GetPreferences")
	if f.GetPreferencesFunc != nil {
		return f.GetPreferencesFunc(ctx, userID)
	}
	prefs := store.DefaultPreferences(userID)
	return &prefs, nil
}

func (f *FakeNotifications) UpdatePreferences(ctx context.Context, userID string, patch store.PreferencesPatch) (*store.Preferences, error) {
	f.record("UpdatePreferences")
	if f.UpdatePreferencesFunc != nil {
		return f.UpdatePreferencesFunc(ctx, userID, patch)
	}
	prefs := patch.Apply(store.DefaultPreferences(userID))
	return &prefs, nil
}

func (f *FakeNotifications) Count(step string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, s := range f.trace {
		if s == step {
			n++
		}
	}
	return n
}

var _ store.Notifications = (*FakeNotifications)(nil)
