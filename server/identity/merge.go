package identity

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/topi314/club-directory/server/catalog"
	"github.com/topi314/club-directory/server/store"
)

type Source int

const (
	SourceNone Source = iota
	SourceStatic
	SourceRemote
	SourceBoth
)

func (s Source) String() string {
	switch s {
	case SourceStatic:
		return "static"
	case SourceRemote:
		return "remote"
	case SourceBoth:
		return "both"
	default:
		return "none"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "static":
		*s = SourceStatic
	case "remote":
		*s = SourceRemote
	case "both":
		*s = SourceBoth
	case "none", "":
		*s = SourceNone
	default:
		return fmt.Errorf("unknown club source %q", text)
	}
	return nil
}

// View is the unified club shape returned to clients. String fields are never
// absent; missing values are empty strings.
type View struct {
	ID           int64    `json:"id,omitempty"`
	Slug         string   `json:"slug"`
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
	Source       Source   `json:"source"`
}

// Key returns the canonical key of the view: the numeric id once known,
// otherwise the slug.
func (v View) Key() Key {
	if v.ID > 0 {
		return Key{Kind: KeyID, ID: v.ID}
	}
	return ResolveKey(v.Slug)
}

// BookmarkKey is the identifier bookmarks are stored under. Slugs are preferred
// since they are available before the numeric id is known.
func (v View) BookmarkKey() string {
	if v.Slug != "" {
		return v.Slug
	}
	if v.ID > 0 {
		return strconv.FormatInt(v.ID, 10)
	}
	return ""
}

// Merge combines a catalog entry and a store row. Non-empty store values win,
// catalog values fill the gaps.
func Merge(static *catalog.Club, remote *store.Club) View {
	var v View
	switch {
	case static != nil && remote != nil:
		v.Source = SourceBoth
	case static != nil:
		v.Source = SourceStatic
	case remote != nil:
		v.Source = SourceRemote
	default:
		return View{Gallery: []string{}, Tags: []string{}}
	}

	if static != nil {
		v.Slug = static.Slug
		v.Name = static.Name
		v.Category = static.Category
		v.Description = static.Description
		v.MeetingTimes = static.MeetingTimes
		v.Location = static.Location
		v.Advisor = static.Advisor
		v.MemberCount = static.MemberCount
		v.ImageURL = static.ImageURL
		v.LogoURL = static.LogoURL
		v.Mission = static.Mission
		v.Gallery = slices.Clone(static.Gallery)
		v.Tags = slices.Clone(static.Tags)
	}

	if remote != nil {
		v.ID = remote.ID
		v.Slug = prefer(remote.Slug, v.Slug)
		v.Name = prefer(remote.Name, v.Name)
		v.Category = prefer(remote.Category, v.Category)
		v.Description = prefer(remote.Description, v.Description)
		v.MeetingTimes = prefer(remote.MeetingTimes, v.MeetingTimes)
		v.Location = prefer(remote.Location, v.Location)
		v.Advisor = prefer(remote.Advisor, v.Advisor)
		v.ImageURL = prefer(remote.ImageURL, v.ImageURL)
		v.LogoURL = prefer(remote.LogoURL, v.LogoURL)
		v.Mission = prefer(remote.Mission, v.Mission)
		// the store is authoritative for member counts, including zero
		v.MemberCount = remote.MemberCount
	}

	if v.Gallery == nil {
		v.Gallery = []string{}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}

func prefer(remote string, static string) string {
	if remote != "" {
		return remote
	}
	return static
}
