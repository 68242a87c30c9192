package image_variant

import (
	"net/http"
	"strings"
	"time"
)

// NotModified evaluates If-None-Match and If-Modified-Since against the
// artifact validators. If-None-Match takes precedence when present.
func NotModified(ifNoneMatch, ifModifiedSince, etag string, modTime time.Time) bool {
	if ifNoneMatch != "" {
		return etagListMatches(ifNoneMatch, etag)
	}
	if ifModifiedSince == "" {
		return false
	}
	since, err := http.ParseTime(ifModifiedSince)
	if err != nil {
		return false
	}
	// Last-Modified only carries whole seconds.
	return !modTime.Truncate(time.Second).After(since)
}

// etagListMatches uses weak comparison, as required for If-None-Match.
func etagListMatches(list, etag string) bool {
	for _, candidate := range strings.Split(list, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		if strings.Trim(candidate, `"`) == etag {
			return true
		}
	}
	return false
}
