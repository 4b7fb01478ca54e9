package membership

import (
	"context"
	"sync"

	"github.com/topi314/club-directory/server/store"
)

type FakeMemberships struct {
	mu    sync.Mutex
	trace []string

	CheckMembershipFunc  func(ctx context.Context, userID string, clubID int64) (bool, error)
	AddMembershipFunc    func(ctx context.Context, userID string, clubID int64) error
	RemoveMembershipFunc func(ctx context.Context, userID string, clubID int64) error
	GetClubMembersFunc   func(ctx context.Context, clubID int64) ([]store.Membership, error)
}

func (f *FakeMemberships) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeMemberships) CheckMembership(ctx context.Context, userID string, clubID int64) (bool, error) {
	f.record("CheckMembership")
	if f.CheckMembershipFunc != nil {
		return f.CheckMembershipFunc(ctx, userID, clubID)
	}
	return false, nil
}

func (f *FakeMemberships) AddMembership(ctx context.Context, userID string, clubID int64) error {
	f.record("AddMembership")
	if f.AddMembershipFunc != nil {
		return f.AddMembershipFunc(ctx, userID, clubID)
	}
	return nil
}

func (f *FakeMemberships) RemoveMembership(ctx context.Context, userID string, clubID int64) error {
	f.record("RemoveMembership")
	if f.RemoveMembershipFunc != nil {
		return f.RemoveMembershipFunc(ctx, userID, clubID)
	}
	return nil
}

func (f *FakeMemberships) GetClubMembers(ctx context.Context, clubID int64) ([]store.Membership, error) {
	f.record("GetClubMembers")
	if f.GetClubMembersFunc != nil {
		return f.GetClubMembersFunc(ctx, clubID)
	}
	return nil, nil
}

func (f *FakeMemberships) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ store.Memberships = (*FakeMemberships)(nil)
