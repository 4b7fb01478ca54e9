//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/topi314/club-directory/internal/omit"
	"github.com/topi314/club-directory/server/store"
)

func setupDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("club-directory"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func seed(t *testing.T, db *Database) (*store.Club, []string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.UpsertClubs(ctx, []store.Club{
		{Slug: "chess-club", Name: "Chess Club", Category: "Academic"},
		{Slug: "drama-society", Name: "Drama Society", Category: "Arts"},
	}))

	userIDs := []string{"u1", "u2"}
	for _, id := range userIDs {
		require.NoError(t, db.UpsertUser(ctx, store.User{ID: id, Username: id}))
	}

	club, err := db.GetClubBySlug(ctx, "chess-club")
	require.NoError(t, err)
	return club, userIDs
}

func TestDatabase(t *testing.T) {
	db := setupDatabase(t)
	club, _ := seed(t, db)
	ctx := context.Background()

	t.Run("clubs", func(t *testing.T) {
		clubs, err := db.GetClubs(ctx)
		require.NoError(t, err)
		assert.Len(t, clubs, 2)

		byID, err := db.GetClubByID(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, "chess-club", byID.Slug)

		byIDs, err := db.GetClubsByIDs(ctx, []int64{club.ID})
		require.NoError(t, err)
		assert.Len(t, byIDs, 1)

		_, err = db.GetClubBySlug(ctx, "unknown")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("memberships", func(t *testing.T) {
		require.NoError(t, db.AddMembership(ctx, "u1", club.ID))

		isMember, err := db.CheckMembership(ctx, "u1", club.ID)
		require.NoError(t, err)
		assert.True(t, isMember)

		err = db.AddMembership(ctx, "u1", club.ID)
		reason, ok := store.Reason(err)
		assert.True(t, ok)
		assert.Equal(t, "You are already a member of this club", reason)

		members, err := db.GetClubMembers(ctx, club.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		require.NotNil(t, members[0].User)
		assert.Equal(t, "u1", members[0].User.ID)

		refreshed, err := db.GetClubByID(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshed.MemberCount)

		require.NoError(t, db.RemoveMembership(ctx, "u1", club.ID))
		isMember, err = db.CheckMembership(ctx, "u1", club.ID)
		require.NoError(t, err)
		assert.False(t, isMember)
	})

	t.Run("ratings", func(t *testing.T) {
		stats, err := db.GetRatingStats(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, store.RatingStats{Distribution: map[int]int{}}, stats)

		require.NoError(t, db.SetRating(ctx, "u1", club.ID, 5))
		stats, err = db.GetRatingStats(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, store.RatingStats{Average: 5, Count: 1, Distribution: map[int]int{5: 1}}, stats)

		require.NoError(t, db.SetRating(ctx, "u1", club.ID, 3))
		require.NoError(t, db.SetRating(ctx, "u2", club.ID, 4))
		stats, err = db.GetRatingStats(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Count)
		assert.Equal(t, 3.5, stats.Average)

		score, err := db.GetUserRating(ctx, "u1", club.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, score)

		assert.Error(t, db.SetRating(ctx, "u1", club.ID, 6))
	})

	t.Run("notifications", func(t *testing.T) {
		id := uuid.NewString()
		_, err := db.db.ExecContext(ctx, `
			INSERT INTO notifications (notification_id, notification_user_id, notification_type, notification_title)
			VALUES ($1, 'u1', 'event', 'Meetup'), ($2, 'u1', 'system', 'Hello')
		`, id, uuid.NewString())
		require.NoError(t, err)

		notifications, err := db.GetUserNotifications(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notifications, 2)

		require.NoError(t, db.MarkNotificationRead(ctx, "u1", id))
		assert.ErrorIs(t, db.MarkNotificationRead(ctx, "u2", id), store.ErrNotFound)

		require.NoError(t, db.MarkAllRead(ctx, "u1"))
		notifications, err = db.GetUserNotifications(ctx, "u1")
		require.NoError(t, err)
		for _, n := range notifications {
			assert.True(t, n.Read)
			assert.NotNil(t, n.ReadAt)
		}

		require.NoError(t, db.DeleteNotification(ctx, "u1", id))
		require.NoError(t, db.DeleteNotification(ctx, "u1", id))

		assert.ErrorIs(t, db.MarkNotificationRead(ctx, "u1", "not-a-uuid"), store.ErrNotFound)
		require.NoError(t, db.DeleteNotification(ctx, "u1", "not-a-uuid"))
	})

	t.Run("preferences", func(t *testing.T) {
		prefs, err := db.GetPreferences(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, store.DefaultPreferences("u2"), *prefs)

		prefs, err = db.UpdatePreferences(ctx, "u2", store.PreferencesPatch{
			NewMembers:     omit.New(true),
			ReminderTiming: omit.New(store.ReminderOneWeek),
		})
		require.NoError(t, err)
		assert.True(t, prefs.NewMembers)
		assert.True(t, prefs.EmailNotifications)
		assert.Equal(t, store.ReminderOneWeek, prefs.ReminderTiming)
	})

	t.Run("sessions", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, db.CreateSession(ctx, store.Session{
			ID:        "s1",
			UserID:    "u1",
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}))
		require.NoError(t, db.CreateSession(ctx, store.Session{
			ID:        "s2",
			UserID:    "u1",
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}))

		session, err := db.GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "u1", session.User.ID)

		_, err = db.GetSession(ctx, "s2")
		assert.ErrorIs(t, err, ErrSessionExpired)

		require.NoError(t, db.DeleteExpiredSessions(ctx))
		_, err = db.GetSession(ctx, "s2")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
