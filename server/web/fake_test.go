package web

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/topi314/club-directory/server/bookmarks"
	"github.com/topi314/club-directory/server/database"
	"github.com/topi314/club-directory/server/store"
)

type memberKey struct {
	userID string
	clubID int64
}

// FakeStore is an in-memory store.Store.
type FakeStore struct {
	mu            sync.Mutex
	clubs         []store.Club
	members       map[memberKey]store.Membership
	ratings       map[memberKey]int
	notifications []store.Notification
	preferences   map[string]store.Preferences
	events        map[int64][]store.Event
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		clubs: []store.Club{
			{ID: 1, Slug: "chess-club", Name: "Chess Club", Category: "Academic", MemberCount: 24},
			{ID: 2, Slug: "debate-team", Name: "Debate Team", Category: "Academic", MemberCount: 40},
		},
		members:     make(map[memberKey]store.Membership),
		ratings:     make(map[memberKey]int),
		preferences: make(map[string]store.Preferences),
		events:      make(map[int64][]store.Event),
	}
}

func (f *FakeStore) GetClubs(_ context.Context) ([]store.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.clubs), nil
}

func (f *FakeStore) GetClubByID(_ context.Context, id int64) (*store.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, club := range f.clubs {
		if club.ID == id {
			return &club, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeStore) GetClubBySlug(_ context.Context, slug string) (*store.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, club := range f.clubs {
		if club.Slug == slug {
			return &club, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeStore) GetClubsByIDs(_ context.Context, ids []int64) ([]store.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var clubs []store.Club
	for _, club := range f.clubs {
		if slices.Contains(ids, club.ID) {
			clubs = append(clubs, club)
		}
	}
	return clubs, nil
}

func (f *FakeStore) CheckMembership(_ context.Context, userID string, clubID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.members[memberKey{userID, clubID}]
	return ok, nil
}

func (f *FakeStore) AddMembership(_ context.Context, userID string, clubID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey{userID, clubID}
	if _, ok := f.members[key]; ok {
		return &store.RemoteError{Status: 409, Code: "23505", Message: "You are already a member of this club"}
	}
	f.members[key] = store.Membership{
		ID:       int64(len(f.members) + 1),
		UserID:   userID,
		ClubID:   clubID,
		Role:     store.RoleMember,
		JoinedAt: time.Now(),
	}
	return nil
}

func (f *FakeStore) RemoveMembership(_ context.Context, userID string, clubID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, memberKey{userID, clubID})
	return nil
}

func (f *FakeStore) GetClubMembers(_ context.Context, clubID int64) ([]store.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []store.Membership
	for key, member := range f.members {
		if key.clubID == clubID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (f *FakeStore) GetUserRating(_ context.Context, userID string, clubID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ratings[memberKey{userID, clubID}], nil
}

func (f *FakeStore) SetRating(_ context.Context, userID string, clubID int64, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[memberKey{userID, clubID}] = score
	return nil
}

func (f *FakeStore) GetRatingStats(_ context.Context, clubID int64) (store.RatingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := store.RatingStats{Distribution: make(map[int]int)}
	var sum int
	for key, score := range f.ratings {
		if key.clubID != clubID {
			continue
		}
		stats.Count++
		stats.Distribution[score]++
		sum += score
	}
	if stats.Count > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Count)*10) / 10
	}
	return stats, nil
}

func (f *FakeStore) GetUserNotifications(_ context.Context, userID string) ([]store.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []store.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			items = append(items, n)
		}
	}
	return items, nil
}

func (f *FakeStore) MarkNotificationRead(_ context.Context, userID string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			f.notifications[i].Read = true
			f.notifications[i].ReadAt = &now
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeStore) MarkAllRead(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for i, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			f.notifications[i].Read = true
			f.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (f *FakeStore) DeleteNotification(_ context.Context, userID string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = slices.DeleteFunc(f.notifications, func(n store.Notification) bool {
		return n.ID == id && n.UserID == userID
	})
	return nil
}

func (f *FakeStore) GetPreferences(_ context.Context, userID string) (*store.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefs, ok := f.preferences[userID]
	if !ok {
		prefs = store.DefaultPreferences(userID)
	}
	return &prefs, nil
}

func (f *FakeStore) UpdatePreferences(_ context.Context, userID string, patch store.PreferencesPatch) (*store.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefs, ok := f.preferences[userID]
	if !ok {
		prefs = store.DefaultPreferences(userID)
	}
	prefs = patch.Apply(prefs)
	f.preferences[userID] = prefs
	return &prefs, nil
}

func (f *FakeStore) GetClubEvents(_ context.Context, clubID int64) ([]store.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.events[clubID]), nil
}

var _ store.Store = (*FakeStore)(nil)

// FakeSessions knows a fixed set of sessions.
type FakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*database.SessionWithUser
	users    map[string]store.User
	deleted  []string
}

func NewFakeSessions() *FakeSessions {
	return &FakeSessions{
		sessions: make(map[string]*database.SessionWithUser),
		users:    make(map[string]store.User),
	}
}

func (f *FakeSessions) add(sessionID string, user store.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	f.sessions[sessionID] = &database.SessionWithUser{
		Session: store.Session{
			ID:        sessionID,
			UserID:    user.ID,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
		User: user,
	}
}

func (f *FakeSessions) GetSession(_ context.Context, sessionID string) (*database.SessionWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return session, nil
}

func (f *FakeSessions) CreateSession(_ context.Context, session store.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = &database.SessionWithUser{Session: session, User: f.users[session.UserID]}
	return nil
}

func (f *FakeSessions) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *FakeSessions) UpsertUser(_ context.Context, user store.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

type FakeKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewFakeKV() *FakeKV {
	return &FakeKV{values: make(map[string]string)}
}

func (f *FakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FakeKV) Set(_ context.Context, key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

var _ bookmarks.KV = (*FakeKV)(nil)
