// Package web serves the club directory JSON API.
package web

import (
	"net/http"
	"time"

	"github.com/topi314/club-directory/internal/middlewares"
	"github.com/topi314/club-directory/server"
)

type handler struct {
	*server.Server
}

func Routes(srv *server.Server) http.Handler {
	h := &handler{
		Server: srv,
	}

	var qr http.Handler = http.HandlerFunc(h.ClubQR)
	if !srv.Cfg.Dev {
		qr = middlewares.Cache(24*time.Hour, qr)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET  /login", h.Login)
	mux.HandleFunc("GET  /login/callback", h.LoginCallback)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /api/catalog", h.GetCatalog)
	mux.HandleFunc("GET /api/clubs", h.GetClubs)
	mux.HandleFunc("GET /api/clubs/{club}", h.GetClub)
	mux.HandleFunc("GET /api/clubs/{club}/members", h.ClubMembers)
	mux.HandleFunc("GET /api/clubs/{club}/events", h.ClubEvents)
	mux.Handle("GET /api/clubs/{club}/qr", qr)

	mux.HandleFunc("GET  /api/bookmarks", h.Bookmarks)
	mux.HandleFunc("POST /api/clubs/{club}/bookmark", h.ToggleBookmark)

	mux.HandleFunc("GET    /api/clubs/{club}/membership", h.Membership)
	mux.HandleFunc("POST   /api/clubs/{club}/membership", h.JoinClub)
	mux.HandleFunc("DELETE /api/clubs/{club}/membership", h.LeaveClub)

	mux.HandleFunc("GET /api/clubs/{club}/rating", h.Rating)
	mux.HandleFunc("PUT /api/clubs/{club}/rating", h.SetRating)

	mux.HandleFunc("GET    /api/notifications", h.Notifications)
	mux.HandleFunc("POST   /api/notifications/read", h.MarkAllNotificationsRead)
	mux.HandleFunc("GET    /api/notifications/preferences", h.NotificationPreferences)
	mux.HandleFunc("PATCH  /api/notifications/preferences", h.UpdateNotificationPreferences)
	mux.HandleFunc("POST   /api/notifications/{id}/read", h.MarkNotificationRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", h.DeleteNotification)

	return h.visitor(h.auth(mux))
}

func (h *handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
