package transcode_gateway

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imgcache/domain"
	"imgcache/utils/errors"
	"imgcache/utils/image_variant"
)

const component = "TranscodeGateway"

// DecodedFormats lists the source encodings registered with image.Decode.
var DecodedFormats = []string{"jpeg", "png", "gif", "bmp", "tiff", "webp"}

// WebPEncoderModule provides WebP output.
const WebPEncoderModule = "github.com/gen2brain/webp"

// TranscodeGateway implements TranscodePort with pure Go codecs so the
// binary builds with CGO_ENABLED=0.
type TranscodeGateway struct {
	maxSourceBytes int64
}

// NewTranscodeGateway creates a TranscodeGateway. A non-positive
// maxSourceBytes disables the input size guard.
func NewTranscodeGateway(maxSourceBytes int64) *TranscodeGateway {
	return &TranscodeGateway{maxSourceBytes: maxSourceBytes}
}

// Transcode decodes data, fits it inside the preset bounds without upscaling
// and encodes the result as format.
func (g *TranscodeGateway) Transcode(ctx context.Context, data []byte, preset domain.Preset, format domain.ImageFormat) (*domain.TranscodeResult, error) {
	errCtx := map[string]interface{}{"preset": preset.Name, "format": string(format)}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewDecodeFailureError("gateway", component, "Transcode", err, errCtx)
	}
	if len(data) == 0 {
		return nil, errors.NewDecodeFailureError("gateway", component, "Transcode", fmt.Errorf("empty image data"), errCtx)
	}
	if g.maxSourceBytes > 0 && int64(len(data)) > g.maxSourceBytes {
		return nil, errors.NewDecodeFailureError("gateway", component, "Transcode",
			fmt.Errorf("source exceeds size limit: %d > %d", len(data), g.maxSourceBytes), errCtx)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		errCtx["detected_type"] = mtype.String()
		return nil, errors.NewDecodeFailureError("gateway", component, "Transcode",
			fmt.Errorf("not an image: %s", mtype.String()), errCtx)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		errCtx["detected_type"] = mtype.String()
		return nil, errors.NewDecodeFailureError("gateway", component, "Transcode", fmt.Errorf("decode image: %w", err), errCtx)
	}

	resized := resize(img, preset)
	if format == domain.ImageFormatJPEG && !isOpaque(resized) {
		resized = flatten(resized)
	}

	var buf bytes.Buffer
	if err := encode(&buf, resized, format, preset.Quality); err != nil {
		return nil, errors.NewEncodeFailureError("gateway", component, "Transcode", err, errCtx)
	}

	b := resized.Bounds()
	return &domain.TranscodeResult{
		Data:   buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

func resize(img image.Image, preset domain.Preset) image.Image {
	src := img.Bounds()
	w, h := image_variant.FitWithin(src.Dx(), src.Dy(), preset.MaxWidth, preset.MaxHeight)
	if w == src.Dx() && h == src.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

func encode(buf *bytes.Buffer, img image.Image, format domain.ImageFormat, quality int) error {
	switch format {
	case domain.ImageFormatWebP:
		if err := webp.Encode(buf, img, webp.Options{Quality: quality, Method: 4}); err != nil {
			return fmt.Errorf("encode WebP: %w", err)
		}
	case domain.ImageFormatPNG:
		// PNG is lossless; quality does not apply.
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := enc.Encode(buf, img); err != nil {
			return fmt.Errorf("encode PNG: %w", err)
		}
	case domain.ImageFormatJPEG:
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode JPEG: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}

type opaquer interface {
	Opaque() bool
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}

// flatten composites img over white; JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
