package web

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/topi314/club-directory/internal/tsync"
	"github.com/topi314/club-directory/internal/xquery"
	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/identity"
	"github.com/topi314/club-directory/server/membership"
	"github.com/topi314/club-directory/server/rating"
	"github.com/topi314/club-directory/server/store"
)

const (
	sortName    = "name"
	sortMembers = "members"
)

type clubResponse struct {
	Club       identity.View    `json:"club"`
	Bookmarked bool             `json:"bookmarked"`
	Membership membership.State `json:"membership"`
	Rating     rating.State     `json:"rating"`
}

// resolveClub resolves the {club} path value and answers the request itself if
// that fails.
func (h *handler) resolveClub(w http.ResponseWriter, r *http.Request) (identity.View, bool) {
	ctx := r.Context()
	raw := r.PathValue("club")

	view, err := h.Resolver.Resolve(ctx, raw)
	if err != nil {
		status := storeStatus(err)
		if status == http.StatusNotFound {
			writeError(w, status, "Club not found")
			return identity.View{}, false
		}
		slog.ErrorContext(ctx, "Failed to resolve club", slog.String("club", raw), slog.Any("err", err))
		writeError(w, status, "Failed to load club")
		return identity.View{}, false
	}
	return view, true
}

func (h *handler) GetCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.All())
}

func (h *handler) GetClubs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := xquery.ParseString(query, "category", "")
	search := strings.ToLower(xquery.ParseString(query, "q", ""))
	tags := xquery.ParseStringSlice(query, "tags", nil)
	onlyBookmarked := xquery.ParseBool(query, "bookmarked", false)
	sortBy := xquery.ParseEnum(query, "sort", sortName, sortName, sortMembers)
	limit := xquery.ParseInt(query, "limit", 0)

	var bookmarks func(string) bool
	if onlyBookmarked {
		bookmarks = h.Views.Get(r.Context(), visitorID(r)).Bookmarks.IsBookmarked
	}

	views := slices.DeleteFunc(h.Resolver.ResolveAll(r.Context()), func(v identity.View) bool {
		if category != "" && !strings.EqualFold(v.Category, category) {
			return true
		}
		if len(tags) > 0 && !hasAnyTag(v, tags) {
			return true
		}
		if bookmarks != nil && !bookmarks(v.BookmarkKey()) {
			return true
		}
		return search != "" && !matchesSearch(v, search)
	})

	slices.SortStableFunc(views, func(a, b identity.View) int {
		if sortBy == sortMembers && a.MemberCount != b.MemberCount {
			return b.MemberCount - a.MemberCount
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}

	writeJSON(w, http.StatusOK, views)
}

func hasAnyTag(v identity.View, tags []string) bool {
	return slices.ContainsFunc(v.Tags, func(tag string) bool {
		return slices.ContainsFunc(tags, func(want string) bool {
			return strings.EqualFold(tag, want)
		})
	})
}

func matchesSearch(v identity.View, search string) bool {
	if strings.Contains(strings.ToLower(v.Name), search) || strings.Contains(strings.ToLower(v.Description), search) {
		return true
	}
	return slices.ContainsFunc(v.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), search)
	})
}

func (h *handler) GetClub(w http.ResponseWriter, r *http.Request) {
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	userID := auth.UserID(r)
	view := h.Views.Get(r.Context(), visitorID(r))

	rs := clubResponse{
		Club:       club,
		Bookmarked: view.Bookmarks.IsBookmarked(club.BookmarkKey()),
	}

	eg, _ := tsync.ErrorGroupWithContext(r.Context())
	eg.Go(func(ctx context.Context) error {
		rs.Membership = view.Membership.Check(ctx, userID, club.ID)
		return nil
	})
	eg.Go(func(ctx context.Context) error {
		rs.Rating = view.Rating.Load(ctx, userID, club.ID)
		return nil
	})
	_ = eg.Wait()

	writeJSON(w, http.StatusOK, rs)
}

func (h *handler) ClubMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	if club.ID == 0 {
		writeJSON(w, http.StatusOK, []store.Membership{})
		return
	}

	members, err := h.Store.GetClubMembers(ctx, club.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get club members", slog.Int64("club_id", club.ID), slog.Any("err", err))
		writeError(w, storeStatus(err), "Failed to load club members")
		return
	}
	if members == nil {
		members = []store.Membership{}
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *handler) ClubEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	if club.ID == 0 {
		writeJSON(w, http.StatusOK, []store.Event{})
		return
	}

	events, err := h.Store.GetClubEvents(ctx, club.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get club events", slog.Int64("club_id", club.ID), slog.Any("err", err))
		writeError(w, storeStatus(err), "Failed to load club events")
		return
	}
	if events == nil {
		events = []store.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}
