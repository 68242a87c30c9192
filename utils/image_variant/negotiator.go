package image_variant

import (
	"path"
	"strconv"
	"strings"

	"imgcache/domain"
)

const webpMediaType = "image/webp"

// NegotiateFormat picks the output encoding. WebP wins whenever the client
// lists it, PNG sources stay PNG to keep transparency, everything else is JPEG.
func NegotiateFormat(accept, sourcePath string) domain.ImageFormat {
	if AcceptsWebP(accept) {
		return domain.ImageFormatWebP
	}
	if strings.EqualFold(strings.TrimPrefix(path.Ext(sourcePath), "."), "png") {
		return domain.ImageFormatPNG
	}
	return domain.ImageFormatJPEG
}

// AcceptsWebP reports whether the Accept header names image/webp with a
// non-zero quality. Wildcards such as image/* do not count.
func AcceptsWebP(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, _ := strings.Cut(part, ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), webpMediaType) {
			continue
		}
		if refused(params) {
			continue
		}
		return true
	}
	return false
}

func refused(params string) bool {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(param, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && q == 0
	}
	return false
}
