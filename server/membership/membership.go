// Package membership joins and leaves clubs on behalf of a visitor and keeps
// the membership flag plus a short-lived status message.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/store"
)

const DefaultMessageTTL = 5 * time.Second

// ErrSignInRequired is returned before any store call if there is no signed-in
// user or the club has no numeric id yet.
var ErrSignInRequired = errors.New("sign in required")

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

type State struct {
	ClubID   int64    `json:"club_id"`
	IsMember bool     `json:"is_member"`
	Loading  bool     `json:"loading"`
	Message  *Message `json:"message"`
}

func New(memberships store.Memberships, clk clock.Clock, messageTTL time.Duration) *Coordinator {
	if messageTTL <= 0 {
		messageTTL = DefaultMessageTTL
	}
	return &Coordinator{
		memberships: memberships,
		clock:       clk,
		messageTTL:  messageTTL,
	}
}

// Coordinator tracks the membership of one user in the club currently viewed.
// It is safe for concurrent use.
type Coordinator struct {
	memberships store.Memberships
	clock       clock.Clock
	messageTTL  time.Duration

	mu         sync.Mutex
	userID     string
	clubID     int64
	seq        uint64
	isMember   bool
	loading    int
	message    *Message
	messageGen uint64
	clearTimer *clock.Timer
}

// Check refreshes the membership flag for userID and clubID. Switching to a new
// user or club resets the flag to false. Failures are logged and keep the
// previous flag. Responses for a previous target are discarded.
func (c *Coordinator) Check(ctx context.Context, userID string, clubID int64) State {
	c.mu.Lock()
	c.target(userID, clubID)
	c.seq++
	seq := c.seq
	if userID == "" || clubID <= 0 {
		defer c.mu.Unlock()
		return c.state()
	}
	c.loading++
	c.mu.Unlock()

	isMember, err := c.memberships.CheckMembership(ctx, userID, clubID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if seq != c.seq {
		slog.DebugContext(ctx, "Discarding stale membership check", slog.Int64("club_id", clubID), xslog.Component("membership"))
		return c.state()
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to check membership", slog.String("user_id", userID), slog.Int64("club_id", clubID), slog.Any("err", err), xslog.Component("membership"))
		return c.state()
	}

	c.isMember = isMember
	return c.state()
}

// Join adds userID to clubID. The flag only changes once the store confirms.
func (c *Coordinator) Join(ctx context.Context, userID string, clubID int64) (State, error) {
	return c.mutate(ctx, userID, clubID, true)
}

// Leave removes userID from clubID. The flag only changes once the store confirms.
func (c *Coordinator) Leave(ctx context.Context, userID string, clubID int64) (State, error) {
	return c.mutate(ctx, userID, clubID, false)
}

func (c *Coordinator) mutate(ctx context.Context, userID string, clubID int64, join bool) (State, error) {
	if userID == "" || clubID <= 0 {
		return c.State(), ErrSignInRequired
	}

	c.mu.Lock()
	c.target(userID, clubID)
	c.loading++
	c.mu.Unlock()

	var err error
	if join {
		err = c.memberships.AddMembership(ctx, userID, clubID)
	} else {
		err = c.memberships.RemoveMembership(ctx, userID, clubID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if err != nil {
		slog.ErrorContext(ctx, "Failed to update membership", slog.String("user_id", userID), slog.Int64("club_id", clubID), slog.Bool("join", join), slog.Any("err", err), xslog.Component("membership"))
		if c.userID == userID && c.clubID == clubID {
			c.setMessage(MessageError, failureText(err, join))
		}
		if join {
			return c.state(), fmt.Errorf("failed to join club: %w", err)
		}
		return c.state(), fmt.Errorf("failed to leave club: %w", err)
	}

	if c.userID != userID || c.clubID != clubID {
		return c.state(), nil
	}

	// a check started before the write must not overwrite the confirmed flag
	c.seq++
	c.isMember = join
	if join {
		c.setMessage(MessageSuccess, "Successfully joined the club!")
	} else {
		c.setMessage(MessageSuccess, "You have left the club.")
	}
	return c.state(), nil
}

func failureText(err error, join bool) string {
	if reason, ok := store.Reason(err); ok {
		return reason
	}
	if join {
		return "Failed to join the club. Please try again."
	}
	return "Failed to leave the club. Please try again."
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

// Close stops the pending message timer.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
}

func (c *Coordinator) target(userID string, clubID int64) {
	if c.userID == userID && c.clubID == clubID {
		return
	}
	// in-flight checks belong to the previous target
	c.seq++
	c.userID = userID
	c.clubID = clubID
	c.isMember = false
	c.message = nil
	c.messageGen++
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
}

// setMessage replaces the current message and restarts the clear timer. Must be
// called with c.mu held.
func (c *Coordinator) setMessage(kind MessageKind, text string) {
	if c.clearTimer != nil {
		c.clearTimer.Stop()
	}
	c.message = &Message{Kind: kind, Text: text}
	c.messageGen++
	gen := c.messageGen
	c.clearTimer = c.clock.AfterFunc(c.messageTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.messageGen != gen {
			return
		}
		c.message = nil
		c.clearTimer = nil
	})
}

func (c *Coordinator) state() State {
	s := State{
		ClubID:   c.clubID,
		IsMember: c.isMember,
		Loading:  c.loading > 0,
	}
	if c.message != nil {
		msg := *c.message
		s.Message = &msg
	}
	return s
}
