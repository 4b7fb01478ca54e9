package web

import (
	"log/slog"
	"net/http"

	"github.com/topi314/club-directory/server/identity"
)

type bookmarkResponse struct {
	ClubID     string `json:"club_id"`
	Bookmarked bool   `json:"bookmarked"`
	Saved      bool   `json:"saved"`
}

// Bookmarks lists the bookmarked clubs of the visitor. Numeric keys are
// resolved in one batch. Bookmarks of clubs which no longer resolve are
// skipped.
func (h *handler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := h.Views.Get(ctx, visitorID(r))

	keys := view.Bookmarks.List()
	var ids []int64
	for _, key := range keys {
		if k := identity.ResolveKey(key); k.Kind == identity.KeyID {
			ids = append(ids, k.ID)
		}
	}
	byID, err := h.Resolver.ResolveIDs(ctx, ids)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve bookmarked clubs", slog.Int("count", len(ids)), slog.Any("err", err))
	}

	clubs := make([]identity.View, 0, len(keys))
	for _, key := range keys {
		if k := identity.ResolveKey(key); k.Kind == identity.KeyID {
			if club, ok := byID[k.ID]; ok {
				clubs = append(clubs, club)
			}
			continue
		}
		club, err := h.Resolver.Resolve(ctx, key)
		if err != nil {
			slog.DebugContext(ctx, "Skipping unresolvable bookmark", slog.String("club", key), slog.Any("err", err))
			continue
		}
		clubs = append(clubs, club)
	}

	writeJSON(w, http.StatusOK, clubs)
}

func (h *handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	view := h.Views.Get(ctx, visitorID(r))
	key := club.BookmarkKey()

	bookmarked, err := view.Bookmarks.Toggle(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save bookmarks", slog.String("club", key), slog.Any("err", err))
	}

	writeJSON(w, http.StatusOK, bookmarkResponse{
		ClubID:     key,
		Bookmarked: bookmarked,
		Saved:      err == nil,
	})
}
