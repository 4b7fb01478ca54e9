package server

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/topi314/club-directory/internal/xtime"
	"github.com/topi314/club-directory/server/auth"
	"github.com/topi314/club-directory/server/database"
	"github.com/topi314/club-directory/server/remote"
	"github.com/topi314/club-directory/server/viewstate"
)

func LoadConfig(cfgPath string) (Config, error) {
	file, err := os.Open(cfgPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cfg := defaultConfig()
	if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		Server: ServerConfig{
			Addr:      ":8085",
			PublicURL: "http://localhost:8085",
		},
		Database: database.Config{
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			Database: "club-directory",
			SSLMode:  "disable",
		},
		Store: StoreConfig{
			Driver: StoreDriverDatabase,
		},
		Remote: remote.Config{
			Every:      xtime.Duration(100 * time.Millisecond),
			Burst:      20,
			MaxRetries: 3,
			RetryDelay: xtime.Duration(2 * time.Second),
			Timeout:    xtime.Duration(10 * time.Second),
		},
		Bookmarks: BookmarksConfig{
			Backend: BookmarksBackendFile,
			Path:    "data/bookmarks",
			Key:     "club-directory:bookmarks",
		},
		ViewState: viewstate.Config{
			TTL:        xtime.Duration(30 * time.Minute),
			MessageTTL: xtime.Duration(5 * time.Second),
		},
	}
}

type Config struct {
	Dev           bool                `toml:"dev"`
	Log           LogConfig           `toml:"log"`
	Server        ServerConfig        `toml:"server"`
	Database      database.Config     `toml:"database"`
	Store         StoreConfig         `toml:"store"`
	Remote        remote.Config       `toml:"remote"`
	Bookmarks     BookmarksConfig     `toml:"bookmarks"`
	Auth          auth.Config         `toml:"auth"`
	Notifications NotificationsConfig `toml:"notifications"`
	ViewState     viewstate.Config    `toml:"view_state"`
}

func (c Config) String() string {
	return fmt.Sprintf("Dev: %t\nLog: %s\nServer: %s\nDatabase: %s\nStore: %s\nRemote: %s\nBookmarks: %s\nAuth: %s\nNotifications: %s\nViewState: %s",
		c.Dev,
		c.Log,
		c.Server,
		c.Database,
		c.Store,
		c.Remote,
		c.Bookmarks,
		c.Auth,
		c.Notifications,
		c.ViewState,
	)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverDatabase:
	case StoreDriverRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required for store driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Bookmarks.Backend {
	case BookmarksBackendFile, BookmarksBackendRedis:
	default:
		return fmt.Errorf("unknown bookmarks backend %q", c.Bookmarks.Backend)
	}

	if c.Notifications.Enabled && c.Notifications.WebhookURL == "" {
		return fmt.Errorf("notifications.webhook_url is required when notifications are enabled")
	}
	return nil
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level           slog.Level `toml:"level"`
	Format          LogFormat  `toml:"format"`
	AddSource       bool       `toml:"add_source"`
	MutedComponents []string   `toml:"muted_components"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t\n MutedComponents: %s",
		c.Level,
		c.Format,
		c.AddSource,
		strings.Join(c.MutedComponents, ", "),
	)
}

type ServerConfig struct {
	Addr      string `toml:"addr"`
	PublicURL string `toml:"public_url"`
}

func (c ServerConfig) String() string {
	return fmt.Sprintf("\n Address: %s\n PublicURL: %s",
		c.Addr,
		c.PublicURL,
	)
}

type StoreDriver string

const (
	StoreDriverDatabase StoreDriver = "database"
	StoreDriverRemote   StoreDriver = "remote"
)

type StoreConfig struct {
	Driver StoreDriver `toml:"driver"`
}

func (c StoreConfig) String() string {
	return fmt.Sprintf("\n Driver: %s",
		c.Driver,
	)
}

type BookmarksBackend string

const (
	BookmarksBackendFile  BookmarksBackend = "file"
	BookmarksBackendRedis BookmarksBackend = "redis"
)

type BookmarksConfig struct {
	Backend       BookmarksBackend `toml:"backend"`
	Path          string           `toml:"path"`
	RedisAddr     string           `toml:"redis_addr"`
	RedisPassword string           `toml:"redis_password"`
	RedisDB       int              `toml:"redis_db"`
	Key           string           `toml:"key"`
}

func (c BookmarksConfig) String() string {
	return fmt.Sprintf("\n Backend: %s\n Path: %s\n RedisAddr: %s\n RedisPassword: %s\n RedisDB: %d\n Key: %s",
		c.Backend,
		c.Path,
		c.RedisAddr,
		strings.Repeat("*", len(c.RedisPassword)),
		c.RedisDB,
		c.Key,
	)
}

type NotificationsConfig struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
}

func (c NotificationsConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n WebhookURL: %s",
		c.Enabled,
		strings.Repeat("*", len(c.WebhookURL)),
	)
}
