package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/topi314/club-directory/server/database"
)

type sessionKey struct{}

var sessionContextKey = &sessionKey{}

func SetSession(ctx context.Context, session *database.SessionWithUser) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSession returns the session of the signed in user or nil for anonymous requests.
func GetSession(r *http.Request) *database.SessionWithUser {
	session, _ := r.Context().Value(sessionContextKey).(*database.SessionWithUser)
	return session
}

// UserID returns the id of the signed in user or an empty string.
func UserID(r *http.Request) string {
	if session := GetSession(r); session != nil {
		return session.Session.UserID
	}
	return ""
}

func NewSessionID() string {
	return uuid.NewString()
}
