package domain

import "time"

// ImageFormat is the negotiated output encoding of a derived image.
type ImageFormat string

const (
	ImageFormatWebP ImageFormat = "webp"
	ImageFormatJPEG ImageFormat = "jpeg"
	ImageFormatPNG  ImageFormat = "png"
)

// Extension returns the canonical file extension used in cache paths.
func (f ImageFormat) Extension() string {
	switch f {
	case ImageFormatWebP:
		return "webp"
	case ImageFormatPNG:
		return "png"
	default:
		return "jpg"
	}
}

// ContentType returns the media type served for the format.
func (f ImageFormat) ContentType() string {
	switch f {
	case ImageFormatWebP:
		return "image/webp"
	case ImageFormatPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// Lossy reports whether the preset quality applies to the format.
func (f ImageFormat) Lossy() bool {
	return f != ImageFormatPNG
}

// ImageVariantRequest carries the inbound request fields the variant
// pipeline cares about.
type ImageVariantRequest struct {
	PresetName      string
	SourcePath      string
	Accept          string
	IfNoneMatch     string
	IfModifiedSince string
}

// ImageVariant is a derived image ready for serving.
type ImageVariant struct {
	CachePath  string
	SourcePath string
	Preset     Preset
	Format     ImageFormat
	Data       []byte
	ModTime    time.Time
	ETag       string

	// Width and Height are only known when the variant was transcoded by this request.
	Width  int
	Height int

	CacheHit    bool
	NotModified bool
	// Persisted is false when the artifact could not be written to the blob store.
	Persisted bool
}

// TranscodeResult is the output of a single decode/scale/encode pass.
type TranscodeResult struct {
	Data   []byte
	Width  int
	Height int
}

const (
	// ImageVariantCacheControl is sent with every served variant.
	ImageVariantCacheControl = "public, max-age=31536000, immutable"

	// DefaultCacheRoot is the blob-store prefix for derived artifacts.
	DefaultCacheRoot = "cache"
)
