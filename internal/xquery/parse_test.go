package xquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	query := url.Values{
		"sort":       {"Members"},
		"bookmarked": {"on"},
		"category":   {"arts, stem ,,"},
		"limit":      {"abc"},
	}

	assert.Equal(t, "members", ParseEnum(query, "sort", "name", "name", "members"))
	assert.Equal(t, "name", ParseEnum(url.Values{"sort": {"rating"}}, "sort", "name", "name", "members"))
	assert.True(t, ParseBool(query, "bookmarked", false))
	assert.Equal(t, []string{"arts", "stem"}, ParseStringSlice(query, "category", nil))
	assert.Equal(t, 20, ParseInt(query, "limit", 20))
	assert.Equal(t, "", ParseString(query, "q", ""))
}
