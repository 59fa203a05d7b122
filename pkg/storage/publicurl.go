package storage

import (
	"net/url"
	"strings"
)

// PublicURL resolves an object path to the public URL of the object store.
// Absolute URLs and empty paths are returned unchanged, as is everything when base is empty.
func PublicURL(base, bucket, path string) string {
	if path == "" || base == "" {
		return path
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}

	joined, err := url.JoinPath(strings.TrimRight(base, "/"), "storage/v1/object/public", bucket, strings.TrimLeft(path, "/"))
	if err != nil {
		return path
	}
	return joined
}
