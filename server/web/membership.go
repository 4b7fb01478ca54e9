package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/membership"
)

func (h *handler) Membership(w http.ResponseWriter, r *http.Request) {
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	writeJSON(w, http.StatusOK, view.Membership.Check(r.Context(), auth.UserID(r), club.ID))
}

func (h *handler) JoinClub(w http.ResponseWriter, r *http.Request) {
	h.mutateMembership(w, r, true)
}

func (h *handler) LeaveClub(w http.ResponseWriter, r *http.Request) {
	h.mutateMembership(w, r, false)
}

func (h *handler) mutateMembership(w http.ResponseWriter, r *http.Request, join bool) {
	ctx := r.Context()

	session := auth.GetSession(r)
	if session == nil {
		h.signInRequired(w, r)
		return
	}

	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}
	if club.ID == 0 {
		writeError(w, http.StatusConflict, "This club is not open for membership yet")
		return
	}

	view := h.Views.Get(ctx, visitorID(r))

	var (
		state membership.State
		err   error
	)
	if join {
		state, err = view.Membership.Join(ctx, session.Session.UserID, club.ID)
	} else {
		state, err = view.Membership.Leave(ctx, session.Session.UserID, club.ID)
	}
	if errors.Is(err, membership.ErrSignInRequired) {
		h.signInRequired(w, r)
		return
	}
	if err != nil {
		writeJSON(w, storeStatus(err), state)
		return
	}

	action := "left"
	if join {
		action = "joined"
	}
	content := fmt.Sprintf("`%s` %s **%s** at %s",
		session.User.DisplayName,
		action,
		club.Name,
		discord.NewTimestamp(discord.TimestampStyleShortDateTime, time.Now()).String(),
	)
	go h.SendNotification(context.WithoutCancel(ctx), content)

	writeJSON(w, http.StatusOK, state)
}
