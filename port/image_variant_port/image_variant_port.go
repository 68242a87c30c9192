package image_variant_port

import (
	"context"
	"time"

	"imgcache/domain"
)

//go:generate mockgen -source=image_variant_port.go -destination=../../mocks/mock_image_variant_port.go -package=mocks

// BlobStorePort abstracts the hierarchical store that holds both original
// images and derived artifacts. Paths are slash-separated and relative.
type BlobStorePort interface {
	Exists(ctx context.Context, p string) (bool, error)
	ModTime(ctx context.Context, p string) (time.Time, error)
	Read(ctx context.Context, p string) ([]byte, error)
	// Write must be atomic: readers see either the previous content or the
	// complete new content, never a partial file.
	Write(ctx context.Context, p string, data []byte) error
}

// TranscodePort resizes image bytes into a preset and encodes them in format.
type TranscodePort interface {
	Transcode(ctx context.Context, data []byte, preset domain.Preset, format domain.ImageFormat) (*domain.TranscodeResult, error)
}

// ImageVariantPort is the inbound side consumed by the REST handler and the CLI.
type ImageVariantPort interface {
	GetVariant(ctx context.Context, req domain.ImageVariantRequest) (*domain.ImageVariant, error)
}
