package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/catalog"
	"github.com/topi314/club-directory/server/store"
)

func NewResolver(cat *catalog.Catalog, clubs store.Clubs) *Resolver {
	return &Resolver{
		catalog: cat,
		clubs:   clubs,
	}
}

type Resolver struct {
	catalog *catalog.Catalog
	clubs   store.Clubs
}

// Resolve looks up a club by slug first and by numeric id second. Store
// failures fall back to the catalog entry when one exists.
func (r *Resolver) Resolve(ctx context.Context, raw string) (View, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))

	if slugPattern.MatchString(raw) {
		view, ok, err := r.resolveSlug(ctx, raw)
		if err != nil {
			return View{}, err
		}
		if ok {
			return view, nil
		}
	}

	key := ResolveKey(raw)
	if key.Kind != KeyID {
		return View{}, fmt.Errorf("failed to resolve club %q: %w", raw, store.ErrNotFound)
	}

	remote, err := r.clubs.GetClubByID(ctx, key.ID)
	if err != nil {
		return View{}, fmt.Errorf("failed to get club by id: %w", err)
	}
	return Merge(r.lookupStatic(remote.Slug), remote), nil
}

func (r *Resolver) resolveSlug(ctx context.Context, slug string) (View, bool, error) {
	static := r.lookupStatic(slug)

	remote, err := r.clubs.GetClubBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			remote = nil
		} else if static != nil {
			slog.WarnContext(ctx, "Failed to get club by slug, using catalog entry", slog.String("slug", slug), slog.Any("err", err), xslog.Component("identity"))
			remote = nil
		} else {
			return View{}, false, fmt.Errorf("failed to get club by slug: %w", err)
		}
	}

	if static == nil && remote == nil {
		return View{}, false, nil
	}
	return Merge(static, remote), true, nil
}

// ResolveIDs looks up clubs by numeric id in one store call. Ids without a
// store row are left out of the result.
func (r *Resolver) ResolveIDs(ctx context.Context, ids []int64) (map[int64]View, error) {
	views := make(map[int64]View, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	remotes, err := r.clubs.GetClubsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get clubs by ids: %w", err)
	}
	for i := range remotes {
		remote := &remotes[i]
		views[remote.ID] = Merge(r.lookupStatic(remote.Slug), remote)
	}
	return views, nil
}

// ResolveAll returns every club the store knows merged with its catalog entry,
// followed by catalog entries without a store row. If the store is unreachable
// only catalog entries are returned.
func (r *Resolver) ResolveAll(ctx context.Context) []View {
	remotes, err := r.clubs.GetClubs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to get clubs, using catalog only", slog.Any("err", err), xslog.Component("identity"))
		remotes = nil
	}

	seen := make(map[string]struct{}, len(remotes))
	views := make([]View, 0, len(remotes))
	for i := range remotes {
		remote := &remotes[i]
		views = append(views, Merge(r.lookupStatic(remote.Slug), remote))
		seen[strings.ToLower(remote.Slug)] = struct{}{}
	}

	if r.catalog == nil {
		return views
	}
	for _, static := range r.catalog.All() {
		if _, ok := seen[strings.ToLower(static.Slug)]; ok {
			continue
		}
		views = append(views, Merge(&static, nil))
	}
	return views
}

func (r *Resolver) lookupStatic(slug string) *catalog.Club {
	if r.catalog == nil || slug == "" {
		return nil
	}
	club, ok := r.catalog.Lookup(slug)
	if !ok {
		return nil
	}
	return &club
}
