package web

import (
	"errors"
	"net/http"

	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/rating"
)

type setRatingRequest struct {
	Score any `json:"score"`
}

func (h *handler) Rating(w http.ResponseWriter, r *http.Request) {
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	writeJSON(w, http.StatusOK, view.Rating.Load(r.Context(), auth.UserID(r), club.ID))
}

func (h *handler) SetRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	var rq setRatingRequest
	if err := decodeJSON(r, &rq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	score, err := rating.ParseScore(rq.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	view := h.Views.Get(ctx, visitorID(r))
	state, err := view.Rating.SetRating(ctx, userID, club.ID, score)
	switch {
	case errors.Is(err, rating.ErrSignInRequired):
		h.signInRequired(w, r)
	case errors.Is(err, rating.ErrInvalidClub):
		writeError(w, http.StatusConflict, "This club cannot be rated yet")
	case errors.Is(err, rating.ErrInvalidScore):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeJSON(w, storeStatus(err), state)
	default:
		writeJSON(w, http.StatusOK, state)
	}
}
