package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	PostIndexPrefix = "post_index_"
	UserIndexPrefix = "user_index_"
)

const (
	PostIndexTTL = time.Hour
	UserIndexTTL = 60 * time.Second
)

// PostIndexKey derives the post listing cache key from its query parameters.
func PostIndexKey(search string, page, perPage int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s%d%d", search, page, perPage)))
	return PostIndexPrefix + hex.EncodeToString(sum[:])
}

// UserIndexKey derives the user listing cache key from its query parameters.
func UserIndexKey(page, perPage int, search string) string {
	return fmt.Sprintf("%s%d_%d_%s", UserIndexPrefix, page, perPage, search)
}
