package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
	"github.com/redis/go-redis/v9"

	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/bookmarks"
	"github.com/topi314/club-directory/server/catalog"
	"github.com/topi314/club-directory/server/database"
	"github.com/topi314/club-directory/server/identity"
	"github.com/topi314/club-directory/server/remote"
	"github.com/topi314/club-directory/server/store"
	"github.com/topi314/club-directory/server/viewstate"
)

// Sessions keeps signed in users and their login sessions.
type Sessions interface {
	GetSession(ctx context.Context, sessionID string) (*database.SessionWithUser, error)
	CreateSession(ctx context.Context, session store.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
	UpsertUser(ctx context.Context, user store.User) error
}

// Notifier announces membership changes to an external channel.
type Notifier func(ctx context.Context, content string) error

func New(cfg Config) (*Server, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load club catalog: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	var st store.Store
	switch cfg.Store.Driver {
	case StoreDriverRemote:
		st = remote.New(httpClient, cfg.Remote)
	default:
		if err = seedClubs(db, cat); err != nil {
			_ = db.Close()
			return nil, err
		}
		st = db
	}

	var (
		kv          bookmarks.KV
		redisClient *redis.Client
	)
	switch cfg.Bookmarks.Backend {
	case BookmarksBackendRedis:
		redisClient = bookmarks.NewRedis(cfg.Bookmarks.RedisAddr, cfg.Bookmarks.RedisPassword, cfg.Bookmarks.RedisDB)
		kv = bookmarks.NewRedisKV(redisClient)
	default:
		fileKV, err := bookmarks.NewFileKV(cfg.Bookmarks.Path)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open bookmark storage: %w", err)
		}
		kv = fileKV
	}

	var notify Notifier
	if cfg.Notifications.Enabled {
		client, err := webhook.NewWithURL(cfg.Notifications.WebhookURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create webhook client: %w", err)
		}
		notify = func(ctx context.Context, content string) error {
			_, err := client.CreateContent(content, rest.WithCtx(ctx))
			return err
		}
	}

	s := &Server{
		Cfg:        cfg,
		DB:         db,
		Sessions:   db,
		Store:      st,
		Catalog:    cat,
		Resolver:   identity.NewResolver(cat, st),
		Views:      viewstate.New(cfg.ViewState, st, kv, cfg.Bookmarks.Key, clock.New()),
		Auth:       auth.New(cfg.Auth, cfg.Server.PublicURL),
		HttpClient: httpClient,
		Notify:     notify,
		redis:      redisClient,
	}

	return s, nil
}

// seedClubs makes sure every catalog club has a row so memberships and
// ratings can reference it.
func seedClubs(db *database.Database, cat *catalog.Catalog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	all := cat.All()
	clubs := make([]store.Club, 0, len(all))
	for _, club := range all {
		clubs = append(clubs, store.Club{
			Slug:         club.Slug,
			Name:         club.Name,
			Category:     club.Category,
			Description:  club.Description,
			MeetingTimes: club.MeetingTimes,
			Location:     club.Location,
			Advisor:      club.Advisor,
			ImageURL:     club.ImageURL,
			LogoURL:      club.LogoURL,
			Mission:      club.Mission,
		})
	}

	if err := db.UpsertClubs(ctx, clubs); err != nil {
		return fmt.Errorf("failed to seed clubs: %w", err)
	}
	return nil
}

type Server struct {
	Cfg        Config
	DB         *database.Database
	Sessions   Sessions
	Store      store.Store
	Catalog    *catalog.Catalog
	Resolver   *identity.Resolver
	Views      *viewstate.Manager
	Auth       *auth.Auth
	HttpClient *http.Client
	Notify     Notifier

	server *http.Server
	redis  *redis.Client
}

func (s *Server) Start(handler http.Handler) {
	s.server = &http.Server{
		Addr:    s.Cfg.Server.Addr,
		Handler: cleanPathMiddleware(handler),
	}

	go func() {
		slog.Info("Starting server", slog.String("addr", s.Cfg.Server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown failed", slog.Any("err", err))
		}
	}

	s.Views.Close()
	s.Auth.Close()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("Failed to close redis client", slog.Any("err", err))
		}
	}

	if err := s.DB.Close(); err != nil {
		slog.Error("Failed to close database", slog.Any("err", err))
	}
}

// SendNotification posts content to the configured webhook. It is a no-op if
// notifications are disabled.
func (s *Server) SendNotification(ctx context.Context, content string) {
	if s.Notify == nil {
		return
	}

	if err := s.Notify(ctx, content); err != nil {
		slog.ErrorContext(ctx, "Failed to send notification", slog.Any("err", err), xslog.Component("notifier"))
	}
}

func cleanPathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = path.Clean(r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
