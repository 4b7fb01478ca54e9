package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"golang.org/x/oauth2"

	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/database"
	"github.com/topi314/club-directory/server/store"
)

const (
	sessionCookie    = "session"
	oauthStateCookie = "oauthstate"
	visitorCookie    = "visitor"
	visitorDuration  = 365 * 24 * time.Hour
)

type visitorKey struct{}

var visitorContextKey = &visitorKey{}

func visitorID(r *http.Request) string {
	id, _ := r.Context().Value(visitorContextKey).(string)
	return id
}

// visitor makes sure every request carries a visitor id, the key of its view state.
func (h *handler) visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(visitorCookie); err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = auth.NewSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     visitorCookie,
				Value:    id,
				Expires:  time.Now().Add(visitorDuration),
				SameSite: http.SameSiteLaxMode,
				HttpOnly: true,
				Path:     "/",
			})
		}

		r = r.WithContext(context.WithValue(r.Context(), visitorContextKey, id))
		next.ServeHTTP(w, r)
	})
}

// auth attaches the session of the signed in user. Anonymous requests pass through.
func (h *handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var session *database.SessionWithUser
		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			session, err = h.Sessions.GetSession(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, database.ErrSessionExpired) {
					slog.ErrorContext(ctx, "Failed to get session", slog.Any("err", err))
					writeError(w, http.StatusInternalServerError, "Failed to get session")
					return
				}
				removeSessionCookie(w)
				session = nil
			}
		}

		r = r.WithContext(auth.SetSession(ctx, session))
		next.ServeHTTP(w, r)
	})
}

// signInRequired answers requests which need a signed in user with the login
// url the client should send the user to.
func (h *handler) signInRequired(w http.ResponseWriter, r *http.Request) {
	u := url.URL{
		Path:     "/login",
		RawQuery: url.Values{"rd": {r.URL.Path}}.Encode(),
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"message":  "Sign in required",
		"redirect": u.String(),
	})
}

func (h *handler) Login(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("rd")
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		redirect = "/"
	}

	state := h.Auth.NewState(redirect)

	scopes := strings.Join(h.Auth.Config().Scopes, " ")
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("scope", scopes)}

	addOauthCookie(w, state, time.Now().Add(auth.MaxLoginFlowDuration))
	http.Redirect(w, r, h.Auth.Config().AuthCodeURL(state, opts...), http.StatusTemporaryRedirect)
}

func (h *handler) LoginCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	oauthState, _ := r.Cookie(oauthStateCookie)
	state := query.Get("state")
	code := query.Get("code")

	if oauthState == nil || state != oauthState.Value {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	redirectURL, ok := h.Auth.GetState(state)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown OAuth state")
		return
	}

	token, err := h.Auth.Config().Exchange(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to exchange OAuth code", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to exchange OAuth code")
		return
	}

	discordUser, err := h.getUser(ctx, token.AccessToken)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get user info from Discord", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to get user info from Discord")
		return
	}

	user := store.User{
		ID:          discordUser.ID.String(),
		Username:    discordUser.Username,
		DisplayName: discordUser.EffectiveName(),
		AvatarURL:   discordUser.EffectiveAvatarURL(),
	}

	if !h.Auth.Allowed(user.ID) {
		slog.WarnContext(ctx, "User is not whitelisted", slog.String("user_id", user.ID))
		writeError(w, http.StatusForbidden, "You are not allowed to sign in")
		return
	}

	if err = h.Sessions.UpsertUser(ctx, user); err != nil {
		slog.ErrorContext(ctx, "Failed to save user", slog.Any("err", err), slog.String("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "Failed to save user")
		return
	}

	now := time.Now()
	session := store.Session{
		ID:        auth.NewSessionID(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(auth.SessionDuration),
	}
	if err = h.Sessions.CreateSession(ctx, session); err != nil {
		slog.ErrorContext(ctx, "Failed to create session", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// coordinators of an anonymous visitor must not leak into the signed in view
	h.Views.Forget(visitorID(r))

	addSessionCookie(w, session.ID, session.ExpiresAt)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if session := auth.GetSession(r); session != nil {
		if err := h.Sessions.DeleteSession(ctx, session.Session.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to delete session", slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, "Failed to delete session")
			return
		}
	}

	h.Views.Forget(visitorID(r))
	removeSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getUser(ctx context.Context, accessToken string) (*discord.OAuth2User, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://discord.com/api/v10/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	rq.Header.Set("Authorization", "Bearer "+accessToken)

	rs, err := h.HttpClient.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", rs.StatusCode)
	}

	var user discord.OAuth2User
	if err = json.NewDecoder(rs.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

func addOauthCookie(w http.ResponseWriter, state string, expiration time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  expiration,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Path:     "/login/callback",
	})
}

func removeOauthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Path:     "/login/callback",
	})
}

func addSessionCookie(w http.ResponseWriter, session string, expiration time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session,
		Expires:  expiration,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Path:     "/",
	})
	removeOauthCookie(w)
}

func removeSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Path:     "/",
	})
}
