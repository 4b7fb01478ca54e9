package auth

import (
	"fmt"
	"strings"
)

type Config struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Whitelist    []string `toml:"whitelist"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n ClientID: %s\n ClientSecret: %s\n Whitelist: %s",
		c.ClientID,
		strings.Repeat("*", len(c.ClientSecret)),
		strings.Join(c.Whitelist, ", "),
	)
}
