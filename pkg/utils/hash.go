package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// CacheKey hashes the parts into a stable key. Parts are NUL separated so
// ("ab", "c") and ("a", "bc") do not collide.
func CacheKey(parts ...string) string {
	return HashString(strings.Join(parts, "\x00"))
}
