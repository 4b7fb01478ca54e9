package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/topi314/club-directory/server/store"
)

func (c *Client) GetUserRating(ctx context.Context, userID string, clubID int64) (int, error) {
	var rows []struct {
		Score int `json:"score"`
	}
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/club_ratings",
		query:  url.Values{"select": {"score"}, "user_id": {eq(userID)}, "club_id": {eq(clubID)}, "limit": {"1"}},
	}, &rows); err != nil {
		return 0, fmt.Errorf("failed to get user rating: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Score, nil
}

func (c *Client) SetRating(ctx context.Context, userID string, clubID int64, score int) error {
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/club_ratings",
		query:  url.Values{"on_conflict": {"user_id,club_id"}},
		body: map[string]any{
			"user_id": userID,
			"club_id": clubID,
			"score":   score,
		},
		prefer:     "resolution=merge-duplicates,return=minimal",
		idempotent: true,
	}, nil); err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	return nil
}

func (c *Client) GetRatingStats(ctx context.Context, clubID int64) (store.RatingStats, error) {
	var stats store.RatingStats
	if err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/rest/v1/rpc/get_club_rating_stats",
		idempotent: true,
		body:       map[string]any{"club_id": clubID},
	}, &stats); err != nil {
		return store.RatingStats{}, fmt.Errorf("failed to get rating stats: %w", err)
	}
	if stats.Distribution == nil {
		stats.Distribution = map[int]int{}
	}
	return stats, nil
}
