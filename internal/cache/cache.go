// Package cache holds gateway read results for a short time so that views
// rendered back to back do not refetch the same collections.
package cache

import (
	"strconv"
	"strings"
)

// Cache is a keyed store with expiry. Implementations are safe for
// concurrent use.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(prefix string) int
	// Purge empties the cache.
	Purge()
	Size() int
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
}

// UserPrefix scopes keys to one identity so a logout can drop everything
// that identity fetched.
func UserPrefix(userID int64) string {
	return "u" + strconv.FormatInt(userID, 10) + "/"
}

// Key builds a cache key for a resource read by userID, e.g. "u7/summary/next".
func Key(userID int64, parts ...string) string {
	return UserPrefix(userID) + strings.Join(parts, "/")
}
