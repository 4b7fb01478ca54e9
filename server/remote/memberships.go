package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/topi314/club-directory/server/store"
)

const uniqueViolation = "23505"

func (c *Client) CheckMembership(ctx context.Context, userID string, clubID int64) (bool, error) {
	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/club_members",
		query:  url.Values{"select": {"id"}, "user_id": {eq(userID)}, "club_id": {eq(clubID)}, "limit": {"1"}},
	}, &rows); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return len(rows) > 0, nil
}

func (c *Client) AddMembership(ctx context.Context, userID string, clubID int64) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/club_members",
		body: map[string]any{
			"user_id": userID,
			"club_id": clubID,
			"role":    store.RoleMember,
		},
		prefer: "return=minimal",
	}, nil)
	if err == nil {
		return nil
	}

	var remoteErr *store.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Code == uniqueViolation {
		remoteErr.Message = "You are already a member of this club"
	}
	return fmt.Errorf("failed to add membership: %w", err)
}

func (c *Client) RemoveMembership(ctx context.Context, userID string, clubID int64) error {
	if err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/club_members",
		query:  url.Values{"user_id": {eq(userID)}, "club_id": {eq(clubID)}},
	}, nil); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

func (c *Client) GetClubMembers(ctx context.Context, clubID int64) ([]store.Membership, error) {
	var members []store.Membership
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/club_members",
		query:  url.Values{"select": {"*,user:users(*)"}, "club_id": {eq(clubID)}, "order": {"joined_at.asc"}},
	}, &members); err != nil {
		return nil, fmt.Errorf("failed to get club members: %w", err)
	}
	return members, nil
}
