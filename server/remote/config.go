package remote

import (
	"fmt"
	"strings"

	"github.com/topi314/club-directory/internal/xtime"
)

type Config struct {
	URL        string         `toml:"url"`
	APIKey     string         `toml:"api_key"`
	Every      xtime.Duration `toml:"every"`
	Burst      int            `toml:"burst"`
	MaxRetries int            `toml:"max_retries"`
	RetryDelay xtime.Duration `toml:"retry_delay"`
	Timeout    xtime.Duration `toml:"timeout"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n URL: %s\n APIKey: %s\n Every: %s\n Burst: %d\n MaxRetries: %d\n RetryDelay: %s\n Timeout: %s",
		c.URL,
		strings.Repeat("*", len(c.APIKey)),
		c.Every,
		c.Burst,
		c.MaxRetries,
		c.RetryDelay,
		c.Timeout,
	)
}
