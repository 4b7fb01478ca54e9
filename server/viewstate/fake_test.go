package viewstate

import (
	"context"
	"sync"

	"github.com/topi314/club-directory/server/bookmarks"
)

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
