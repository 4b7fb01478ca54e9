package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/topi314/club-directory/server/store"
)

func (c *Client) GetClubs(ctx context.Context) ([]store.Club, error) {
	var clubs []store.Club
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/clubs",
		query:  url.Values{"select": {"*"}, "order": {"name.asc"}},
	}, &clubs); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}
	return clubs, nil
}

func (c *Client) GetClubByID(ctx context.Context, id int64) (*store.Club, error) {
	return c.getClub(ctx, "id", eq(id))
}

func (c *Client) GetClubBySlug(ctx context.Context, slug string) (*store.Club, error) {
	return c.getClub(ctx, "slug", eq(slug))
}

func (c *Client) getClub(ctx context.Context, column string, filter string) (*store.Club, error) {
	var clubs []store.Club
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/clubs",
		query:  url.Values{"select": {"*"}, column: {filter}, "limit": {"1"}},
	}, &clubs); err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return one(clubs)
}

func (c *Client) GetClubsByIDs(ctx context.Context, ids []int64) ([]store.Club, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var clubs []store.Club
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/clubs",
		query:  url.Values{"select": {"*"}, "id": {in(ids)}, "order": {"name.asc"}},
	}, &clubs); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}
	return clubs, nil
}

func (c *Client) GetClubEvents(ctx context.Context, clubID int64) ([]store.Event, error) {
	var events []store.Event
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/club_events",
		query:  url.Values{"select": {"*"}, "club_id": {eq(clubID)}, "order": {"starts_at.asc"}},
	}, &events); err != nil {
		return nil, fmt.Errorf("failed to get club events: %w", err)
	}
	return events, nil
}
