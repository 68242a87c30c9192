package rest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"imgcache/config"
	"imgcache/di"
	"imgcache/domain"
	"imgcache/gateway/blob_store_gateway"
	"imgcache/mocks"
	"imgcache/utils/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveHandler(t *testing.T, port *mocks.MockImageVariantPort, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET(imageVariantPrefix+":preset/*", handleImageVariant(port))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleImageVariant_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid preset", errors.NewInvalidPresetError("usecase", "ImageVariantUsecase", "GetVariant", nil), http.StatusNotFound, errors.CodeInvalidPreset},
		{"missing source", errors.NewSourceNotFoundError("usecase", "ImageVariantUsecase", "ResolveSource", nil, nil), http.StatusNotFound, errors.CodeSourceNotFound},
		{"decode failure", errors.NewDecodeFailureError("gateway", "TranscodeGateway", "Transcode", fmt.Errorf("bad huffman"), nil), http.StatusInternalServerError, errors.CodeDecodeFailure},
		{"store down", errors.NewStoreUnavailableError("usecase", "ImageVariantUsecase", "ResolveSource", fmt.Errorf("dial tcp"), nil), http.StatusInternalServerError, errors.CodeStoreUnavailable},
		{"untyped error", fmt.Errorf("something odd"), http.StatusInternalServerError, errors.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			port := mocks.NewMockImageVariantPort(ctrl)
			port.EXPECT().GetVariant(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := serveHandler(t, port, "/img/thumb/a.jpg", nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
			assert.Empty(t, rec.Header().Get("ETag"))
		})
	}
}

func TestHandleImageVariant_PassesDecodedRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	port := mocks.NewMockImageVariantPort(ctrl)
	modTime := time.Date(2024, 4, 2, 3, 4, 5, 0, time.UTC)

	port.EXPECT().GetVariant(gomock.Any(), domain.ImageVariantRequest{
		PresetName:  "small",
		SourcePath:  "albums/summer trip/a.png",
		Accept:      "image/webp",
		IfNoneMatch: `"old"`,
	}).Return(&domain.ImageVariant{
		Format:   domain.ImageFormatPNG,
		Data:     []byte("png-bytes"),
		ModTime:  modTime,
		ETag:     "abc",
		CacheHit: true,
	}, nil)

	rec := serveHandler(t, port, "/img/small/albums/summer%20trip/a.png", map[string]string{
		"Accept":        "image/webp",
		"If-None-Match": `"old"`,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, domain.ImageVariantCacheControl, rec.Header().Get("Cache-Control"))
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
	assert.Equal(t, "Tue, 02 Apr 2024 03:04:05 GMT", rec.Header().Get("Last-Modified"))
	assert.Equal(t, "HIT", rec.Header().Get("X-Image-Cache"))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestHandleImageVariant_NotModified(t *testing.T) {
	ctrl := gomock.NewController(t)
	port := mocks.NewMockImageVariantPort(ctrl)
	port.EXPECT().GetVariant(gomock.Any(), gomock.Any()).Return(&domain.ImageVariant{
		Format:      domain.ImageFormatWebP,
		ModTime:     time.Now(),
		ETag:        "abc",
		CacheHit:    true,
		NotModified: true,
	}, nil)

	rec := serveHandler(t, port, "/img/thumb/a.jpg", map[string]string{"If-None-Match": `"abc"`})

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
}

func TestSplitVariantPath(t *testing.T) {
	tests := []struct {
		in, preset, source string
	}{
		{"/img/thumb/a.jpg", "thumb", "a.jpg"},
		{"/img/thumb/albums/2024/a.jpg", "thumb", "albums/2024/a.jpg"},
		{"/img/thumb/", "thumb", ""},
		{"/img/thumb/../x.jpg", "thumb", "../x.jpg"},
	}
	for _, tt := range tests {
		preset, source := splitVariantPath(tt.in)
		assert.Equal(t, tt.preset, preset, tt.in)
		assert.Equal(t, tt.source, source, tt.in)
	}
}

// Integration through the real router, usecase, transcoder and an in-memory store.

func newTestServer(t *testing.T) (*echo.Echo, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	cfg := &config.Config{
		Storage:   config.StorageConfig{Backend: config.BackendLocal, CacheRoot: "cache"},
		Transcode: config.TranscodeConfig{MaxConcurrency: 2, MaxSourceBytes: 16 << 20},
		OTel:      config.OTelConfig{ServiceName: "imgcache-test"},
	}
	container, err := di.NewApplicationComponentsWithStore(cfg, blob_store_gateway.NewLocalBlobStoreGateway(mem), discardLogger())
	require.NoError(t, err)

	e := echo.New()
	RegisterRoutes(e, container, cfg, discardLogger())
	return e, mem
}

func putJPEG(t *testing.T, fsys afero.Fs, p string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 30, 160, 90, 255
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, afero.WriteFile(fsys, p, buf.Bytes(), 0o644))
	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes(p, past, past))
}

func do(e *echo.Echo, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil).WithContext(context.Background())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImageVariantRoute_MissThenHit(t *testing.T) {
	e, mem := newTestServer(t)
	putJPEG(t, mem, "albums/a.jpg", 1200, 800)
	accept := map[string]string{"Accept": "image/avif,image/webp,*/*;q=0.8"}

	miss := do(e, http.MethodGet, "/img/thumb/albums/a.jpg", accept)
	require.Equal(t, http.StatusOK, miss.Code)
	assert.Equal(t, "image/webp", miss.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", miss.Header().Get("X-Image-Cache"))
	assert.Equal(t, "public, max-age=31536000, immutable", miss.Header().Get("Cache-Control"))
	assert.NotEmpty(t, miss.Header().Get("Last-Modified"))
	assert.NotEmpty(t, miss.Header().Get("X-Request-ID"))

	hit := do(e, http.MethodGet, "/img/thumb/albums/a.jpg", accept)
	require.Equal(t, http.StatusOK, hit.Code)
	assert.Equal(t, "HIT", hit.Header().Get("X-Image-Cache"))
	assert.Equal(t, miss.Body.Bytes(), hit.Body.Bytes())
	assert.Equal(t, miss.Header().Get("ETag"), hit.Header().Get("ETag"))

	conditional := do(e, http.MethodGet, "/img/thumb/albums/a.jpg", map[string]string{
		"Accept":        "image/webp",
		"If-None-Match": hit.Header().Get("ETag"),
	})
	assert.Equal(t, http.StatusNotModified, conditional.Code)
	assert.Empty(t, conditional.Body.Bytes())

	jpegVariant := do(e, http.MethodGet, "/img/thumb/albums/a.jpg", nil)
	require.Equal(t, http.StatusOK, jpegVariant.Code)
	assert.Equal(t, "image/jpeg", jpegVariant.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", jpegVariant.Header().Get("X-Image-Cache"))

	exists, _ := afero.Exists(mem, "cache/thumb/albums/a.jpg.webp")
	assert.True(t, exists)
	exists, _ = afero.Exists(mem, "cache/thumb/albums/a.jpg.jpg")
	assert.True(t, exists)
}

func TestImageVariantRoute_NotFound(t *testing.T) {
	e, mem := newTestServer(t)
	putJPEG(t, mem, "albums/a.jpg", 64, 64)
	require.NoError(t, afero.WriteFile(mem, "secret.jpg", []byte("x"), 0o600))

	for _, target := range []string{
		"/img/ultra/albums/a.jpg",
		"/img/Thumb/albums/a.jpg",
		"/img/thumb/albums/missing.jpg",
		"/img/thumb/albums/../secret.jpg",
		"/img/thumb/albums/%2e%2e/secret.jpg",
		"/img/thumb/cache/thumb/albums/a.jpg.jpg",
	} {
		rec := do(e, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestImageVariantRoute_CorruptSourceIs500(t *testing.T) {
	e, mem := newTestServer(t)
	require.NoError(t, afero.WriteFile(mem, "broken.jpg", []byte("\xff\xd8\xff\xe0 truncated"), 0o644))

	rec := do(e, http.MethodGet, "/img/thumb/broken.jpg", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.CodeDecodeFailure)
}

func TestHealthAndMetrics(t *testing.T) {
	e, mem := newTestServer(t)
	putJPEG(t, mem, "a.jpg", 32, 32)
	require.Equal(t, http.StatusOK, do(e, http.MethodGet, "/img/small/a.jpg", nil).Code)

	health := do(e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())

	m := do(e, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "imgcache_requests_total")
}
