package image_variant

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strconv"
	"time"

	"imgcache/domain"
)

// CachePath derives the artifact location for (sourcePath, presetName, format):
//
//	{cacheRoot}/{presetName}/{source dir}/{source filename}.{ext}
//
// The source filename keeps its own extension and the format extension is
// appended (a.jpg -> a.jpg.webp) rather than replacing it, so that a.jpg and
// a.png never share an artifact. Consumers of the cache tree that expect
// {basename}.{ext} must strip the format extension instead of swapping it.
// sourcePath must already be cleaned by CleanSourcePath.
func CachePath(cacheRoot, sourcePath, presetName string, format domain.ImageFormat) string {
	return path.Join(cacheRoot, presetName, sourcePath) + "." + format.Extension()
}

// ETag returns an opaque validator derived from the artifact path and mtime,
// so it can be computed from a stat without reading the artifact bytes.
func ETag(cachePath string, modTime time.Time) string {
	h := sha256.New()
	h.Write([]byte(cachePath))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(modTime.UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil)[:16])
}
