package image_variant

import (
	"errors"
	"path"
	"strings"
)

// ErrUnsafeSourcePath is returned for request paths that could escape the
// blob store root or address derived artifacts.
var ErrUnsafeSourcePath = errors.New("unsafe source path")

// CleanSourcePath validates an attacker-controlled relative path and returns
// its normalized form. Paths under cacheRoot are rejected so a derived
// artifact is never treated as a source.
func CleanSourcePath(raw, cacheRoot string) (string, error) {
	if raw == "" || strings.ContainsAny(raw, "\\\x00") || strings.HasPrefix(raw, "/") {
		return "", ErrUnsafeSourcePath
	}
	for _, segment := range strings.Split(raw, "/") {
		if segment == ".." {
			return "", ErrUnsafeSourcePath
		}
	}

	cleaned := path.Clean(raw)
	if cleaned == "." || cleaned == "/" {
		return "", ErrUnsafeSourcePath
	}

	if cacheRoot != "" {
		root := path.Clean(cacheRoot)
		if cleaned == root || strings.HasPrefix(cleaned, root+"/") {
			return "", ErrUnsafeSourcePath
		}
	}

	return cleaned, nil
}
