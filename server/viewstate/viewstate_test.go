package viewstate

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/club-directory/internal/xtime"
)

func TestManagerGet(t *testing.T) {
	ctx := context.Background()
	kv := NewFakeKV()
	kv.values["bookmarks:v1"] = `{"chess-club":true}`
	m := New(Config{TTL: xtime.Duration(time.Minute)}, nil, kv, "bookmarks", clock.NewMock())
	defer m.Close()

	v1 := m.Get(ctx, "v1")
	assert.Same(t, v1, m.Get(ctx, "v1"))
	assert.True(t, v1.Bookmarks.IsBookmarked("chess-club"))

	v2 := m.Get(ctx, "v2")
	assert.NotSame(t, v1, v2)
	assert.False(t, v2.Bookmarks.IsBookmarked("chess-club"))
	assert.Equal(t, 2, m.Len())
}

func TestManagerForget(t *testing.T) {
	ctx := context.Background()
	kv := NewFakeKV()
	m := New(Config{}, nil, kv, "bookmarks", clock.NewMock())
	defer m.Close()

	v1 := m.Get(ctx, "v1")
	_, err := v1.Bookmarks.Toggle(ctx, "debate-team")
	require.NoError(t, err)

	m.Forget("v1")
	assert.Zero(t, m.Len())

	again := m.Get(ctx, "v1")
	assert.NotSame(t, v1, again)
	assert.True(t, again.Bookmarks.IsBookmarked("debate-team"))
}
