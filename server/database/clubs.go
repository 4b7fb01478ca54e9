package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/topi314/club-directory/server/store"
)

const selectClubs = `
	SELECT clubs.*,
		(SELECT COUNT(*) FROM club_members WHERE club_members.club_member_club_id = clubs.club_id) AS club_member_count
	FROM clubs
`

func (d *Database) GetClubs(ctx context.Context) ([]store.Club, error) {
	var clubs []store.Club
	if err := d.db.SelectContext(ctx, &clubs, selectClubs+" ORDER BY clubs.club_name ASC"); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}
	return clubs, nil
}

func (d *Database) GetClubByID(ctx context.Context, id int64) (*store.Club, error) {
	var club store.Club
	if err := d.db.GetContext(ctx, &club, selectClubs+" WHERE clubs.club_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to get club: %w", notFound(err))
	}
	return &club, nil
}

func (d *Database) GetClubBySlug(ctx context.Context, slug string) (*store.Club, error) {
	var club store.Club
	if err := d.db.GetContext(ctx, &club, selectClubs+" WHERE clubs.club_slug = $1", slug); err != nil {
		return nil, fmt.Errorf("failed to get club: %w", notFound(err))
	}
	return &club, nil
}

func (d *Database) GetClubsByIDs(ctx context.Context, ids []int64) ([]store.Club, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var clubs []store.Club
	if err := d.db.SelectContext(ctx, &clubs, selectClubs+" WHERE clubs.club_id = ANY($1) ORDER BY clubs.club_name ASC", pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}
	return clubs, nil
}

// UpsertClubs inserts or updates clubs by slug. It is used to seed the table
// from the catalog.
func (d *Database) UpsertClubs(ctx context.Context, clubs []store.Club) error {
	if len(clubs) == 0 {
		return nil
	}

	query := `
		INSERT INTO clubs (club_slug, club_name, club_category, club_description, club_meeting_times, club_location, club_advisor, club_image_url, club_logo_url, club_mission)
		VALUES (:club_slug, :club_name, :club_category, :club_description, :club_meeting_times, :club_location, :club_advisor, :club_image_url, :club_logo_url, :club_mission)
		ON CONFLICT (club_slug) DO UPDATE SET
			club_name = EXCLUDED.club_name,
			club_category = EXCLUDED.club_category,
			club_description = EXCLUDED.club_description,
			club_meeting_times = EXCLUDED.club_meeting_times,
			club_location = EXCLUDED.club_location,
			club_advisor = EXCLUDED.club_advisor,
			club_image_url = EXCLUDED.club_image_url,
			club_logo_url = EXCLUDED.club_logo_url,
			club_mission = EXCLUDED.club_mission
	`

	if _, err := d.db.NamedExecContext(ctx, query, clubs); err != nil {
		return fmt.Errorf("failed to upsert clubs: %w", err)
	}
	return nil
}

func (d *Database) GetClubEvents(ctx context.Context, clubID int64) ([]store.Event, error) {
	var events []store.Event
	if err := d.db.SelectContext(ctx, &events, "SELECT * FROM club_events WHERE club_event_club_id = $1 ORDER BY club_event_starts_at ASC", clubID); err != nil {
		return nil, fmt.Errorf("failed to get club events: %w", err)
	}
	return events, nil
}
