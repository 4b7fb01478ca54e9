// Package viewstate keeps one bundle of coordinators per browser visitor. The
// bundle lives in memory until the visitor has been idle for the configured TTL.
package viewstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/patrickmn/go-cache"

	"github.com/topi314/club-directory/internal/xtime"
	"github.com/topi314/club-directory/server/bookmarks"
	"github.com/topi314/club-directory/server/membership"
	"github.com/topi314/club-directory/server/notifications"
	"github.com/topi314/club-directory/server/rating"
	"github.com/topi314/club-directory/server/store"
)

type Config struct {
	TTL        xtime.Duration `toml:"ttl"`
	MessageTTL xtime.Duration `toml:"message_ttl"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n TTL: %s\n MessageTTL: %s",
		c.TTL,
		c.MessageTTL,
	)
}

type View struct {
	VisitorID     string
	Bookmarks     *bookmarks.Store
	Membership    *membership.Coordinator
	Rating        *rating.Coordinator
	Notifications *notifications.Feed
}

func (v *View) Close() {
	v.Membership.Close()
}

func New(cfg Config, st store.Store, kv bookmarks.KV, bookmarkKey string, clk clock.Clock) *Manager {
	ttl := cfg.TTL.Or(30 * time.Minute)

	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(_ string, v any) {
		if view, ok := v.(*View); ok {
			view.Close()
		}
	})

	return &Manager{
		cfg:         cfg,
		cache:       c,
		store:       st,
		kv:          kv,
		bookmarkKey: bookmarkKey,
		clock:       clk,
	}
}

type Manager struct {
	cfg         Config
	mu          sync.Mutex
	cache       *cache.Cache
	store       store.Store
	kv          bookmarks.KV
	bookmarkKey string
	clock       clock.Clock
}

// Get returns the view of visitorID, creating it on first use. Every call
// extends the idle timeout.
func (m *Manager) Get(ctx context.Context, visitorID string) *View {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.cache.Get(visitorID); ok {
		view := v.(*View)
		m.cache.SetDefault(visitorID, view)
		return view
	}

	view := &View{
		VisitorID:     visitorID,
		Bookmarks:     bookmarks.Open(ctx, m.kv, m.bookmarkKey+":"+visitorID),
		Membership:    membership.New(m.store, m.clock, m.cfg.MessageTTL.Or(membership.DefaultMessageTTL)),
		Rating:        rating.New(m.store),
		Notifications: notifications.New(m.store, m.clock),
	}
	m.cache.SetDefault(visitorID, view)
	return view
}

// Forget drops the view of visitorID. Its bookmarks stay persisted.
func (m *Manager) Forget(visitorID string) {
	m.cache.Delete(visitorID)
}

func (m *Manager) Len() int {
	return m.cache.ItemCount()
}

func (m *Manager) Close() {
	for id := range m.cache.Items() {
		m.cache.Delete(id)
	}
}
