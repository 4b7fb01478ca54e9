package rating

import (
	"context"
	"math"
	"sync"

	"github.com/topi314/club-directory/server/store"
)

type ratingKey struct {
	userID string
	clubID int64
}

// FakeRatings keeps ratings in memory and aggregates them like the store does.
// The Func fields override the in-memory behaviour.
type FakeRatings struct {
	mu      sync.Mutex
	trace   []string
	ratings map[ratingKey]int

	GetUserRatingFunc  func(ctx context.Context, userID string, clubID int64) (int, error)
	SetRatingFunc      func(ctx context.Context, userID string, clubID int64, score int) error
	GetRatingStatsFunc func(ctx context.Context, clubID int64) (store.RatingStats, error)
}

func NewFakeRatings() *FakeRatings {
	return &FakeRatings{ratings: make(map[ratingKey]int)}
}

func (f *FakeRatings) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRatings) GetUserRating(ctx context.Context, userID string, clubID int64) (int, error) {
	f.record("GetUserRating")
	if f.GetUserRatingFunc != nil {
		return f.GetUserRatingFunc(ctx, userID, clubID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ratings[ratingKey{userID, clubID}], nil
}

func (f *FakeRatings) SetRating(ctx context.Context, userID string, clubID int64, score int) error {
	f.record("SetRating")
	if f.SetRatingFunc != nil {
		return f.SetRatingFunc(ctx, userID, clubID, score)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[ratingKey{userID, clubID}] = score
	return nil
}

func (f *FakeRatings) GetRatingStats(ctx context.Context, clubID int64) (store.RatingStats, error) {
	f.record("GetRatingStats")
	if f.GetRatingStatsFunc != nil {
		return f.GetRatingStatsFunc(ctx, clubID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := store.RatingStats{Distribution: map[int]int{}}
	var sum int
	for key, score := range f.ratings {
		if key.clubID != clubID {
			continue
		}
		stats.Count++
		stats.Distribution[score]++
		sum += score
	}
	if stats.Count > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Count)*10) / 10
	}
	return stats, nil
}

func (f *FakeRatings) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ store.Ratings = (*FakeRatings)(nil)
