// Package bookmarks keeps a visitor's set of bookmarked clubs and mirrors every
// change to a key-value storage.
package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/topi314/club-directory/internal/xslog"
)

// Open loads the set stored under key. Missing or malformed data yields an
// empty set.
func Open(ctx context.Context, kv KV, key string) *Store {
	s := &Store{
		kv:  kv,
		key: key,
		set: make(map[string]bool),
	}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load bookmarks", slog.String("key", key), slog.Any("err", err), xslog.Component("bookmarks"))
		return s
	}
	if !ok {
		return s
	}

	var set map[string]bool
	if err = json.Unmarshal([]byte(raw), &set); err != nil {
		slog.WarnContext(ctx, "Discarding malformed bookmarks", slog.String("key", key), slog.Any("err", err), xslog.Component("bookmarks"))
		return s
	}
	for id, present := range set {
		if present && id != "" {
			s.set[id] = true
		}
	}
	return s
}

// Store is safe for concurrent use. Absent keys are not bookmarked, present
// keys are always true.
type Store struct {
	mu  sync.Mutex
	kv  KV
	key string
	set map[string]bool
}

// Toggle flips the bookmark of clubID and persists the whole set before
// returning. The in-memory set keeps the new state even if persisting fails.
func (s *Store) Toggle(ctx context.Context, clubID string) (bool, error) {
	if clubID == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarked := !s.set[clubID]
	if bookmarked {
		s.set[clubID] = true
	} else {
		delete(s.set, clubID)
	}

	if err := s.persist(ctx); err != nil {
		return bookmarked, err
	}
	return bookmarked, nil
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.set)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err = s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist bookmarks: %w", err)
	}
	return nil
}

func (s *Store) IsBookmarked(clubID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set[clubID]
}

// List returns the bookmarked ids sorted.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.set))
	for id := range s.set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}
