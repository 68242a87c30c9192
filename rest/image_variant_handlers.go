package rest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"imgcache/di"
	"imgcache/domain"
	"imgcache/port/image_variant_port"
	"imgcache/utils/errors"
)

const imageVariantPrefix = "/img/"

// registerImageVariantRoutes serves GET /img/{preset}/{path...}.
func registerImageVariantRoutes(e *echo.Echo, container *di.ApplicationComponents) {
	h := handleImageVariant(container.ImageVariantUsecase)
	e.GET(imageVariantPrefix+":preset/*", h)
	e.HEAD(imageVariantPrefix+":preset/*", h)
}

func handleImageVariant(variants image_variant_port.ImageVariantPort) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		presetName, sourcePath := splitVariantPath(req.URL.Path)

		variant, err := variants.GetVariant(req.Context(), domain.ImageVariantRequest{
			PresetName:      presetName,
			SourcePath:      sourcePath,
			Accept:          req.Header.Get(echo.HeaderAccept),
			IfNoneMatch:     req.Header.Get("If-None-Match"),
			IfModifiedSince: req.Header.Get(echo.HeaderIfModifiedSince),
		})
		if err != nil {
			appErr := errors.AsAppContextError(err)
			return c.JSON(appErr.HTTPStatusCode(), appErr.ToHTTPResponse())
		}

		writeVariantHeaders(c.Response().Header(), variant)
		if variant.NotModified {
			return c.NoContent(http.StatusNotModified)
		}
		return c.Blob(http.StatusOK, variant.Format.ContentType(), variant.Data)
	}
}

// splitVariantPath takes the decoded request path so percent-encoded
// traversal reaches the sanitizer in its decoded form.
func splitVariantPath(p string) (preset, source string) {
	rest := strings.TrimPrefix(p, imageVariantPrefix)
	preset, source, _ = strings.Cut(rest, "/")
	return preset, source
}

func writeVariantHeaders(h http.Header, v *domain.ImageVariant) {
	h.Set(echo.HeaderCacheControl, domain.ImageVariantCacheControl)
	h.Set(echo.HeaderLastModified, v.ModTime.UTC().Format(http.TimeFormat))
	h.Set("ETag", `"`+v.ETag+`"`)
	h.Set(echo.HeaderVary, echo.HeaderAccept)
	if v.CacheHit {
		h.Set("X-Image-Cache", "HIT")
	} else {
		h.Set("X-Image-Cache", "MISS")
	}
}
