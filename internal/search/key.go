package search

import (
	"fmt"
	"strings"
)

// Query builds the upstream search string: the free-text query, plus a
// location qualifier when a location is given.
func Query(query, location string) string {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if location == "" {
		return query
	}
	return fmt.Sprintf(`%s location:"%s"`, query, location)
}

// CacheKey normalizes a query/location pair into a session key. Pairs that
// differ only in case or surrounding whitespace share a key.
func CacheKey(query, location string) string {
	return strings.ToLower(Query(query, location))
}
