package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/notifications"
	"github.com/topi314/club-directory/server/store"
)

func (h *handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	writeJSON(w, http.StatusOK, view.Notifications.Load(r.Context(), userID))
}

func (h *handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	state, err := view.Notifications.MarkAllAsRead(r.Context(), userID)
	h.writeNotificationState(w, r, state, err)
}

func (h *handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	id, ok := notificationID(w, r)
	if !ok {
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	state, err := view.Notifications.MarkAsRead(r.Context(), userID, id)
	h.writeNotificationState(w, r, state, err)
}

func (h *handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	id, ok := notificationID(w, r)
	if !ok {
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	state, err := view.Notifications.Delete(r.Context(), userID, id)
	h.writeNotificationState(w, r, state, err)
}

func (h *handler) NotificationPreferences(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	state := view.Notifications.Load(r.Context(), userID)
	if state.Preferences == nil {
		defaults := store.DefaultPreferences(userID)
		state.Preferences = &defaults
	}

	writeJSON(w, http.StatusOK, state.Preferences)
}

func (h *handler) UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)
	if userID == "" {
		h.signInRequired(w, r)
		return
	}

	var patch store.PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "No preferences to update")
		return
	}

	view := h.Views.Get(r.Context(), visitorID(r))
	state, err := view.Notifications.UpdatePreferences(r.Context(), userID, patch)
	h.writeNotificationState(w, r, state, err)
}

func (h *handler) writeNotificationState(w http.ResponseWriter, r *http.Request, state notifications.State, err error) {
	switch {
	case errors.Is(err, notifications.ErrSignInRequired):
		h.signInRequired(w, r)
	case errors.Is(err, notifications.ErrInvalidPreferences):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeJSON(w, storeStatus(err), state)
	default:
		writeJSON(w, http.StatusOK, state)
	}
}

func notificationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification id")
		return "", false
	}
	return id.String(), true
}
