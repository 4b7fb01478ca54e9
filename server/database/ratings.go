package database

import (
	"context"
	"fmt"
	"math"

	"github.com/topi314/club-directory/server/store"
)

func (d *Database) GetUserRating(ctx context.Context, userID string, clubID int64) (int, error) {
	var scores []int
	query := "SELECT club_rating_score FROM club_ratings WHERE club_rating_user_id = $1 AND club_rating_club_id = $2"
	if err := d.db.SelectContext(ctx, &scores, query, userID, clubID); err != nil {
		return 0, fmt.Errorf("failed to get user rating: %w", err)
	}
	if len(scores) == 0 {
		return 0, nil
	}
	return scores[0], nil
}

func (d *Database) SetRating(ctx context.Context, userID string, clubID int64, score int) error {
	query := `
		INSERT INTO club_ratings (club_rating_user_id, club_rating_club_id, club_rating_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (club_rating_user_id, club_rating_club_id) DO UPDATE SET
			club_rating_score = EXCLUDED.club_rating_score,
			club_rating_updated_at = NOW()
	`
	if _, err := d.db.ExecContext(ctx, query, userID, clubID, score); err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	return nil
}

type scoreCount struct {
	Score int `db:"score"`
	Count int `db:"count"`
}

// GetRatingStats rounds the average to one decimal. The distribution only
// contains scores that were given at least once.
func (d *Database) GetRatingStats(ctx context.Context, clubID int64) (store.RatingStats, error) {
	query := `
		SELECT club_rating_score AS score, COUNT(*) AS count
		FROM club_ratings
		WHERE club_rating_club_id = $1
		GROUP BY club_rating_score
	`

	var rows []scoreCount
	if err := d.db.SelectContext(ctx, &rows, query, clubID); err != nil {
		return store.RatingStats{}, fmt.Errorf("failed to get rating stats: %w", err)
	}

	return aggregateStats(rows), nil
}

func aggregateStats(rows []scoreCount) store.RatingStats {
	stats := store.RatingStats{Distribution: make(map[int]int, len(rows))}
	var sum int
	for _, row := range rows {
		stats.Distribution[row.Score] = row.Count
		stats.Count += row.Count
		sum += row.Score * row.Count
	}
	if stats.Count > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Count)*10) / 10
	}
	return stats
}
