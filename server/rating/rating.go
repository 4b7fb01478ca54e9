// Package rating loads and sets a user's 1 to 5 star rating of a club together
// with the club's aggregate rating statistics.
package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/topi314/club-directory/internal/tsync"
	"github.com/topi314/club-directory/internal/xerrors"
	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/store"
)

const (
	MinScore = 1
	MaxScore = 5
)

var (
	ErrSignInRequired = errors.New("sign in required")
	ErrInvalidClub    = errors.New("club has no id")
	ErrInvalidScore   = fmt.Errorf("score must be a whole number between %d and %d", MinScore, MaxScore)
)

// ParseScore accepts whole numbers in range from decoded JSON values.
func ParseScore(v any) (int, error) {
	var f float64
	switch score := v.(type) {
	case int:
		f = float64(score)
	case float64:
		f = score
	case json.Number:
		parsed, err := score.Float64()
		if err != nil {
			return 0, ErrInvalidScore
		}
		f = parsed
	default:
		return 0, ErrInvalidScore
	}
	if f != math.Trunc(f) || f < MinScore || f > MaxScore {
		return 0, ErrInvalidScore
	}
	return int(f), nil
}

type State struct {
	ClubID     int64             `json:"club_id"`
	UserRating int               `json:"user_rating"`
	Stats      store.RatingStats `json:"stats"`
	Loading    bool              `json:"loading"`
}

func emptyStats() store.RatingStats {
	return store.RatingStats{Distribution: map[int]int{}}
}

func New(ratings store.Ratings) *Coordinator {
	return &Coordinator{
		ratings: ratings,
		stats:   emptyStats(),
	}
}

// Coordinator holds the last confirmed rating state of the club currently
// viewed. It is safe for concurrent use.
type Coordinator struct {
	ratings store.Ratings

	mu         sync.Mutex
	userID     string
	clubID     int64
	seq        uint64
	userRating int
	stats      store.RatingStats
	loading    int
}

// Load fetches the user's rating and the club stats concurrently. A failed
// fetch leaves its part of the state as it was. Responses for a previous
// target are discarded.
func (c *Coordinator) Load(ctx context.Context, userID string, clubID int64) State {
	c.mu.Lock()
	c.target(userID, clubID)
	c.seq++
	seq := c.seq
	if clubID <= 0 {
		defer c.mu.Unlock()
		return c.state()
	}
	c.loading++
	c.mu.Unlock()

	var (
		userRating int
		userOK     bool
		stats      store.RatingStats
		statsOK    bool
	)
	eg, _ := tsync.ErrorGroupWithContext(ctx)
	if userID != "" {
		eg.Go(func(ctx context.Context) error {
			r, err := c.ratings.GetUserRating(ctx, userID, clubID)
			if err != nil {
				return fmt.Errorf("failed to get user rating: %w", err)
			}
			userRating, userOK = r, true
			return nil
		})
	}
	eg.Go(func(ctx context.Context) error {
		s, err := c.ratings.GetRatingStats(ctx, clubID)
		if err != nil {
			return fmt.Errorf("failed to get rating stats: %w", err)
		}
		stats, statsOK = s, true
		return nil
	})
	err := eg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if seq != c.seq {
		slog.DebugContext(ctx, "Discarding stale rating load", slog.Int64("club_id", clubID), xslog.Component("rating"))
		return c.state()
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load ratings", slog.Int64("club_id", clubID), slog.Any("errs", xerrors.Messages(err)), xslog.Component("rating"))
	}
	if userOK {
		c.userRating = userRating
	}
	if statsOK {
		c.stats = normalizeStats(stats)
	}
	return c.state()
}

// SetRating stores score for the user and then refetches the club stats. On
// failure the previous state is kept and the error returned. A write that
// completes after the target changed leaves the state untouched.
func (c *Coordinator) SetRating(ctx context.Context, userID string, clubID int64, score int) (State, error) {
	if userID == "" {
		return c.State(), ErrSignInRequired
	}
	if clubID <= 0 {
		return c.State(), ErrInvalidClub
	}
	if score < MinScore || score > MaxScore {
		return c.State(), ErrInvalidScore
	}

	c.mu.Lock()
	c.target(userID, clubID)
	c.loading++
	c.mu.Unlock()

	err := c.ratings.SetRating(ctx, userID, clubID, score)

	c.mu.Lock()
	c.loading--
	if c.userID != userID || c.clubID != clubID {
		defer c.mu.Unlock()
		slog.DebugContext(ctx, "Discarding rating write for previous club", slog.Int64("club_id", clubID), xslog.Component("rating"))
		if err != nil {
			return c.state(), fmt.Errorf("failed to set rating: %w", err)
		}
		return c.state(), nil
	}
	if err != nil {
		defer c.mu.Unlock()
		slog.ErrorContext(ctx, "Failed to set rating", slog.String("user_id", userID), slog.Int64("club_id", clubID), slog.Any("err", err), xslog.Component("rating"))
		return c.state(), fmt.Errorf("failed to set rating: %w", err)
	}
	// loads started before the write may carry the old rating
	c.seq++
	seq := c.seq
	c.userRating = score
	c.loading++
	c.mu.Unlock()

	stats, err := c.ratings.GetRatingStats(ctx, clubID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if seq != c.seq {
		return c.state(), nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to refresh rating stats", slog.Int64("club_id", clubID), slog.Any("err", err), xslog.Component("rating"))
		return c.state(), nil
	}
	c.stats = normalizeStats(stats)
	return c.state(), nil
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Coordinator) target(userID string, clubID int64) {
	if c.userID == userID && c.clubID == clubID {
		return
	}
	if c.clubID != clubID {
		c.stats = emptyStats()
	}
	c.seq++
	c.userID = userID
	c.clubID = clubID
	c.userRating = 0
}

func (c *Coordinator) state() State {
	distribution := make(map[int]int, len(c.stats.Distribution))
	for score, count := range c.stats.Distribution {
		distribution[score] = count
	}
	return State{
		ClubID:     c.clubID,
		UserRating: c.userRating,
		Stats: store.RatingStats{
			Average:      c.stats.Average,
			Count:        c.stats.Count,
			Distribution: distribution,
		},
		Loading: c.loading > 0,
	}
}

func normalizeStats(stats store.RatingStats) store.RatingStats {
	if stats.Distribution == nil {
		stats.Distribution = map[int]int{}
	}
	return stats
}
