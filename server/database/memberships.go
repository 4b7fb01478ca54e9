package database

import (
	"context"
	"fmt"
	"net/http"

	"github.com/topi314/club-directory/server/store"
)

func (d *Database) CheckMembership(ctx context.Context, userID string, clubID int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM club_members WHERE club_member_user_id = $1 AND club_member_club_id = $2)"
	if err := d.db.GetContext(ctx, &exists, query, userID, clubID); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

func (d *Database) AddMembership(ctx context.Context, userID string, clubID int64) error {
	query := `
		INSERT INTO club_members (club_member_user_id, club_member_club_id, club_member_role)
		VALUES ($1, $2, $3)
	`
	if _, err := d.db.ExecContext(ctx, query, userID, clubID, store.RoleMember); err != nil {
		if isUniqueViolation(err) {
			return &store.RemoteError{
				Status:  http.StatusConflict,
				Code:    uniqueViolation,
				Message: "You are already a member of this club",
			}
		}
		return fmt.Errorf("failed to add membership: %w", err)
	}
	return nil
}

func (d *Database) RemoveMembership(ctx context.Context, userID string, clubID int64) error {
	query := "DELETE FROM club_members WHERE club_member_user_id = $1 AND club_member_club_id = $2"
	if _, err := d.db.ExecContext(ctx, query, userID, clubID); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

type membershipWithUser struct {
	store.Membership
	store.User
}

func (d *Database) GetClubMembers(ctx context.Context, clubID int64) ([]store.Membership, error) {
	query := `
		SELECT club_members.*, users.user_id, users.user_username, users.user_display_name, users.user_avatar_url
		FROM club_members
		JOIN users ON club_members.club_member_user_id = users.user_id
		WHERE club_members.club_member_club_id = $1
		ORDER BY club_members.club_member_role = 'leader' DESC, club_members.club_member_joined_at ASC
	`

	var rows []membershipWithUser
	if err := d.db.SelectContext(ctx, &rows, query, clubID); err != nil {
		return nil, fmt.Errorf("failed to get club members: %w", err)
	}

	members := make([]store.Membership, len(rows))
	for i, row := range rows {
		user := row.User
		members[i] = row.Membership
		members[i].User = &user
	}
	return members, nil
}
