package identity

import (
	"context"
	"sync"

	"github.com/topi314/club-directory/server/store"
)

type FakeClubs struct {
	mu    sync.Mutex
	trace []string

	GetClubsFunc      func(ctx context.Context) ([]store.Club, error)
	GetClubByIDFunc   func(ctx context.Context, id int64) (*store.Club, error)
	GetClubBySlugFunc func(ctx context.Context, slug string) (*store.Club, error)
	GetClubsByIDsFunc func(ctx context.Context, ids []int64) ([]store.Club, error)
}

func (f *FakeClubs) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeClubs) GetClubs(ctx context.Context) ([]store.Club, error) {
	f.record("GetClubs")
	if f.GetClubsFunc != nil {
		return f.GetClubsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeClubs) GetClubByID(ctx context.Context, id int64) (*store.Club, error) {
	f.record("GetClubByID")
	if f.GetClubByIDFunc != nil {
		return f.GetClubByIDFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (f *FakeClubs) GetClubBySlug(ctx context.Context, slug string) (*store.Club, error) {
	f.record("GetClubBySlug")
	if f.GetClubBySlugFunc != nil {
		return f.GetClubBySlugFunc(ctx, slug)
	}
	return nil, store.ErrNotFound
}

func (f *FakeClubs) GetClubsByIDs(ctx context.Context, ids []int64) ([]store.Club, error) {
	f.record("GetClubsByIDs")
	if f.GetClubsByIDsFunc != nil {
		return f.GetClubsByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (f *FakeClubs) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ store.Clubs = (*FakeClubs)(nil)
