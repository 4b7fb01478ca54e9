package bookmarks

import (
	"context"
	"errors"
	"sync"
)

type FakeKV struct {
	mu     sync.Mutex
	values map[string]string
	writes int

	GetErr error
	SetErr error
}

func NewFakeKV() *FakeKV {
	return &FakeKV{values: make(map[string]string)}
}

func (f *FakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return "", false, f.GetErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FakeKV) Set(_ context.Context, key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.values[key] = value
	f.writes++
	return nil
}

func (f *FakeKV) Value(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func (f *FakeKV) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

var errStorage = errors.New("storage unavailable")

var _ KV = (*FakeKV)(nil)
