// Package auth runs the Discord OAuth2 login flow and carries the signed in
// session through request contexts.
package auth

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	MaxLoginFlowDuration = 30 * time.Minute
	SessionDuration      = 30 * 24 * time.Hour
)

type loginState struct {
	RedirectURL string
	CreatedAt   time.Time
}

func (s loginState) IsExpired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > MaxLoginFlowDuration
}

func New(cfg Config, publicURL string) *Auth {
	a := &Auth{
		cfg: cfg,
		oauth2Cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoints.Discord,
			RedirectURL:  publicURL + "/login/callback",
			Scopes:       []string{"identify"},
		},
		states: make(map[string]loginState),
		done:   make(chan struct{}),
	}

	go a.cleanupStates()

	return a
}

type Auth struct {
	cfg       Config
	oauth2Cfg *oauth2.Config
	states    map[string]loginState
	statesMu  sync.Mutex
	done      chan struct{}
}

func (a *Auth) Config() *oauth2.Config {
	return a.oauth2Cfg
}

// Allowed reports whether userID may sign in. An empty whitelist allows everyone.
func (a *Auth) Allowed(userID string) bool {
	return len(a.cfg.Whitelist) == 0 || slices.Contains(a.cfg.Whitelist, userID)
}

func (a *Auth) NewState(redirectURL string) string {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()

	state := uuid.NewString()
	a.states[state] = loginState{
		RedirectURL: redirectURL,
		CreatedAt:   time.Now(),
	}
	return state
}

// GetState consumes state and returns the redirect url it was created with.
func (a *Auth) GetState(state string) (string, bool) {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()

	lState, ok := a.states[state]
	if !ok {
		return "", false
	}
	delete(a.states, state)

	if lState.IsExpired(time.Now()) {
		return "", false
	}

	return lState.RedirectURL, true
}

func (a *Auth) Close() {
	close(a.done)
}

func (a *Auth) cleanupStates() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.doCleanupStates()
		}
	}
}

func (a *Auth) doCleanupStates() {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()

	now := time.Now()
	for state, lState := range a.states {
		if lState.IsExpired(now) {
			delete(a.states, state)
		}
	}
}
