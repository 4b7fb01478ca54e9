// Package catalog serves the build-time club catalog embedded into the binary.
// It is keyed by slug and never changes at runtime.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

//go:embed clubs.json
var clubsJSON []byte

type Club struct {
	Slug         string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	MeetingTimes string   `json:"meeting_times"`
	Location     string   `json:"location"`
	Advisor      string   `json:"advisor"`
	MemberCount  int      `json:"member_count"`
	ImageURL     string   `json:"image_url"`
	LogoURL      string   `json:"logo_url"`
	Mission      string   `json:"mission"`
	Gallery      []string `json:"gallery"`
	Tags         []string `json:"tags"`
}

type Catalog struct {
	clubs  []Club
	bySlug map[string]int
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(clubsJSON)
}

func Parse(data []byte) (*Catalog, error) {
	var clubs []Club
	if err := json.Unmarshal(data, &clubs); err != nil {
		return nil, fmt.Errorf("failed to decode club catalog: %w", err)
	}

	c := &Catalog{
		clubs:  clubs,
		bySlug: make(map[string]int, len(clubs)),
	}
	for i, club := range clubs {
		slug := strings.ToLower(club.Slug)
		if _, ok := c.bySlug[slug]; ok {
			return nil, fmt.Errorf("duplicate catalog slug %q", club.Slug)
		}
		c.bySlug[slug] = i
	}
	return c, nil
}

// Lookup returns the catalog entry for slug. Matching is case-insensitive.
func (c *Catalog) Lookup(slug string) (Club, bool) {
	i, ok := c.bySlug[strings.ToLower(slug)]
	if !ok {
		return Club{}, false
	}
	return c.clubs[i], true
}

func (c *Catalog) All() []Club {
	return slices.Clone(c.clubs)
}
