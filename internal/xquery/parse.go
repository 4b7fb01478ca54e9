package xquery

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

func ParseBool(query url.Values, name string, defaultValue bool) bool {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := parseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func ParseInt(query url.Values, name string, defaultValue int) int {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func ParseString(query url.Values, name string, defaultValue string) string {
	value := strings.TrimSpace(query.Get(name))
	if value == "" {
		return defaultValue
	}
	return value
}

// ParseEnum returns the query value if it is one of allowed, otherwise defaultValue.
func ParseEnum(query url.Values, name string, defaultValue string, allowed ...string) string {
	value := strings.ToLower(ParseString(query, name, defaultValue))
	if !slices.Contains(allowed, value) {
		return defaultValue
	}
	return value
}

func ParseStringSlice(query url.Values, name string, defaultValue []string) []string {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		result = append(result, part)
	}
	return result
}

// parseBool also accepts the checkbox style values on/off and yes/no.
func parseBool(str string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	default:
		return strconv.ParseBool(str)
	}
}
