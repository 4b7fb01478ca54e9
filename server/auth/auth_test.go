package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/club-directory/server/database"
	"github.com/topi314/club-directory/server/store"
)

func TestState(t *testing.T) {
	a := New(Config{ClientID: "id", ClientSecret: "secret"}, "http://localhost")
	t.Cleanup(a.Close)

	state := a.NewState("/clubs/chess-club")

	redirect, ok := a.GetState(state)
	require.True(t, ok)
	assert.Equal(t, "/clubs/chess-club", redirect)

	_, ok = a.GetState(state)
	assert.False(t, ok, "a state can only be used once")

	_, ok = a.GetState("unknown")
	assert.False(t, ok)
}

func TestStateExpired(t *testing.T) {
	a := New(Config{}, "http://localhost")
	t.Cleanup(a.Close)

	state := a.NewState("/")
	a.statesMu.Lock()
	s := a.states[state]
	s.CreatedAt = time.Now().Add(-MaxLoginFlowDuration - time.Minute)
	a.states[state] = s
	a.statesMu.Unlock()

	_, ok := a.GetState(state)
	assert.False(t, ok)

	a.doCleanupStates()
	assert.Empty(t, a.states)
}

func TestAllowed(t *testing.T) {
	open := New(Config{}, "http://localhost")
	t.Cleanup(open.Close)
	assert.True(t, open.Allowed("123"))

	closed := New(Config{Whitelist: []string{"123"}}, "http://localhost")
	t.Cleanup(closed.Close)
	assert.True(t, closed.Allowed("123"))
	assert.False(t, closed.Allowed("456"))
}

func TestConfig(t *testing.T) {
	a := New(Config{ClientID: "id"}, "https://clubs.example.com")
	t.Cleanup(a.Close)

	assert.Equal(t, "https://clubs.example.com/login/callback", a.Config().RedirectURL)
	assert.Equal(t, "id", a.Config().ClientID)
	assert.NotContains(t, Config{ClientSecret: "secret"}.String(), "secret")
}

func TestSession(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, GetSession(r))
	assert.Empty(t, UserID(r))

	session := &database.SessionWithUser{
		Session: store.Session{ID: NewSessionID(), UserID: "123"},
		User:    store.User{ID: "123", Username: "alice"},
	}
	r = r.WithContext(SetSession(r.Context(), session))
	assert.Same(t, session, GetSession(r))
	assert.Equal(t, "123", UserID(r))
}
