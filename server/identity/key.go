// Package identity normalizes club identifiers across the static catalog (slugs)
// and the data store (numeric ids) and merges both records into one view.
package identity

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type KeyKind int

const (
	KeyUnresolved KeyKind = iota
	KeyID
	KeySlug
)

func (k KeyKind) String() string {
	switch k {
	case KeyID:
		return "id"
	case KeySlug:
		return "slug"
	default:
		return "unresolved"
	}
}

// Key is a normalized club identifier. Exactly one of ID or Slug is set unless
// Kind is KeyUnresolved.
type Key struct {
	Kind KeyKind
	ID   int64
	Slug string
}

func (k Key) Resolved() bool {
	return k.Kind != KeyUnresolved
}

// String returns the form used for bookmark keys and URLs.
func (k Key) String() string {
	switch k.Kind {
	case KeyID:
		return strconv.FormatInt(k.ID, 10)
	case KeySlug:
		return k.Slug
	default:
		return ""
	}
}

// ResolveKey normalizes a raw identifier. Numbers and numeric strings become
// ids, kebab-case strings become slugs and everything else is unresolved.
// It never panics.
func ResolveKey(v any) Key {
	switch id := v.(type) {
	case int:
		return idKey(int64(id))
	case int32:
		return idKey(int64(id))
	case int64:
		return idKey(id)
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) || math.IsNaN(id) || id > math.MaxInt64 || id < math.MinInt64 {
			return Key{}
		}
		return idKey(int64(id))
	case json.Number:
		return ResolveKey(id.String())
	case string:
		return resolveString(id)
	case Key:
		return id
	default:
		return Key{}
	}
}

func resolveString(s string) Key {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return idKey(id)
	}
	s = strings.ToLower(s)
	if slugPattern.MatchString(s) {
		return Key{Kind: KeySlug, Slug: s}
	}
	return Key{}
}

func idKey(id int64) Key {
	if id <= 0 {
		return Key{}
	}
	return Key{Kind: KeyID, ID: id}
}
