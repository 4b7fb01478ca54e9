// Package store defines the rows the club directory reads and writes and the
// request/response contract of the backing data store. Two implementations
// exist: server/database talks to PostgreSQL directly, server/remote talks to a
// hosted REST backend.
package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type Clubs interface {
	GetClubs(ctx context.Context) ([]Club, error)
	GetClubByID(ctx context.Context, id int64) (*Club, error)
	GetClubBySlug(ctx context.Context, slug string) (*Club, error)
	GetClubsByIDs(ctx context.Context, ids []int64) ([]Club, error)
}

type Memberships interface {
	CheckMembership(ctx context.Context, userID string, clubID int64) (bool, error)
	AddMembership(ctx context.Context, userID string, clubID int64) error
	RemoveMembership(ctx context.Context, userID string, clubID int64) error
	GetClubMembers(ctx context.Context, clubID int64) ([]Membership, error)
}

type Ratings interface {
	// GetUserRating returns 0 if the user has not rated the club.
	GetUserRating(ctx context.Context, userID string, clubID int64) (int, error)
	SetRating(ctx context.Context, userID string, clubID int64, score int) error
	GetRatingStats(ctx context.Context, clubID int64) (RatingStats, error)
}

type Notifications interface {
	GetUserNotifications(ctx context.Context, userID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, userID string, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	// DeleteNotification succeeds if the notification is already gone.
	DeleteNotification(ctx context.Context, userID string, id string) error
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, patch PreferencesPatch) (*Preferences, error)
}

type Events interface {
	GetClubEvents(ctx context.Context, clubID int64) ([]Event, error)
}

type Store interface {
	Clubs
	Memberships
	Ratings
	Notifications
	Events
}

// RemoteError is an error payload returned by the data store. Message is the
// human-readable reason and may be shown to end users.
type RemoteError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("remote error (status %d", e.Status)
	if e.Code != "" {
		msg += ", code " + e.Code
	}
	msg += "): " + e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Reason returns the server-supplied message of err, if it carries one.
func Reason(err error) (string, bool) {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		return remoteErr.Message, true
	}
	return "", false
}
