package image_variant_usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"imgcache/domain"
	"imgcache/port/image_variant_port"
	"imgcache/utils/errors"
	"imgcache/utils/image_variant"
	"imgcache/utils/logger"
	"imgcache/utils/metrics"
)

const component = "ImageVariantUsecase"

var tracer = otel.Tracer("imgcache/usecase/image_variant_usecase")

// ImageVariantUsecase serves preset variants of stored images, transcoding
// on a cache miss and persisting the artifact next to the other variants.
type ImageVariantUsecase struct {
	presets    *domain.PresetRegistry
	store      image_variant_port.BlobStorePort
	transcoder image_variant_port.TranscodePort
	cacheRoot  string

	// Concurrent misses for one cache path share a single transcode.
	inflight singleflight.Group
	slots    *semaphore.Weighted

	log *logger.ContextLogger
	now func() time.Time
}

// NewImageVariantUsecase creates a new ImageVariantUsecase. maxConcurrency
// bounds simultaneous transcodes; values below 1 are treated as 1.
func NewImageVariantUsecase(
	presets *domain.PresetRegistry,
	store image_variant_port.BlobStorePort,
	transcoder image_variant_port.TranscodePort,
	cacheRoot string,
	maxConcurrency int,
	log *slog.Logger,
) *ImageVariantUsecase {
	if cacheRoot == "" {
		cacheRoot = domain.DefaultCacheRoot
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &ImageVariantUsecase{
		presets:    presets,
		store:      store,
		transcoder: transcoder,
		cacheRoot:  cacheRoot,
		slots:      semaphore.NewWeighted(int64(maxConcurrency)),
		log:        logger.NewContextLogger(log),
		now:        time.Now,
	}
}

// GetVariant resolves req to a served variant. Unknown presets and missing
// sources return errors matching ErrInvalidPreset and ErrSourceNotFound;
// codec failures return ErrDecodeFailure or ErrEncodeFailure. A failed
// artifact write is not an error: the variant is served with Persisted=false.
func (u *ImageVariantUsecase) GetVariant(ctx context.Context, req domain.ImageVariantRequest) (*domain.ImageVariant, error) {
	ctx, span := tracer.Start(ctx, "ImageVariantUsecase.GetVariant",
		trace.WithAttributes(
			attribute.String("imgcache.preset", req.PresetName),
			attribute.String("imgcache.source", req.SourcePath),
		))
	defer span.End()

	preset, ok := u.presets.Lookup(req.PresetName)
	if !ok {
		metrics.RecordRequest(metrics.UnknownPresetLabel, metrics.OutcomeNotFound)
		u.log.WithContext(ctx).Debug("unknown preset", "preset", req.PresetName)
		return nil, errors.NewInvalidPresetError("usecase", component, "GetVariant",
			map[string]interface{}{"preset": req.PresetName})
	}

	src, err := u.ResolveSource(ctx, req.SourcePath)
	if err != nil {
		u.recordFailure(span, preset.Name, err)
		return nil, err
	}
	ctx = logger.WithVariant(ctx, preset.Name, src)

	format := image_variant.NegotiateFormat(req.Accept, src)
	cachePath := image_variant.CachePath(u.cacheRoot, src, preset.Name, format)
	span.SetAttributes(
		attribute.String("imgcache.format", string(format)),
		attribute.String("imgcache.cache_path", cachePath),
	)

	fresh, sourceMod := u.freshness(ctx, src, cachePath)
	if fresh {
		if v, ok := u.serveCached(ctx, req, src, cachePath, preset, format); ok {
			outcome := metrics.OutcomeHit
			if v.NotModified {
				outcome = metrics.OutcomeNotModified
			}
			metrics.RecordRequest(preset.Name, outcome)
			span.SetAttributes(attribute.String("imgcache.outcome", outcome))
			return v, nil
		}
	}

	v, err := u.materialize(ctx, src, sourceMod, cachePath, preset, format)
	if err != nil {
		u.recordFailure(span, preset.Name, err)
		return nil, err
	}
	metrics.RecordRequest(preset.Name, metrics.OutcomeMiss)
	span.SetAttributes(attribute.String("imgcache.outcome", metrics.OutcomeMiss))
	return v, nil
}

// ResolveSource cleans raw and confirms the source exists in the store.
func (u *ImageVariantUsecase) ResolveSource(ctx context.Context, raw string) (string, error) {
	src, err := image_variant.CleanSourcePath(raw, u.cacheRoot)
	if err != nil {
		u.log.WithContext(ctx).Debug("rejected source path", "source_path", raw)
		return "", errors.NewSourceNotFoundError("usecase", component, "ResolveSource", err,
			map[string]interface{}{"source_path": raw})
	}

	exists, err := u.store.Exists(ctx, src)
	if err != nil {
		return "", errors.NewStoreUnavailableError("usecase", component, "ResolveSource", err,
			map[string]interface{}{"source_path": src})
	}
	if !exists {
		u.log.WithContext(ctx).Debug("source not found", "source_path", src)
		return "", errors.NewSourceNotFoundError("usecase", component, "ResolveSource", nil,
			map[string]interface{}{"source_path": src})
	}
	return src, nil
}

// IsFresh reports whether the artifact at cachePath exists and is at least
// as new as the source. Any store error yields false.
func (u *ImageVariantUsecase) IsFresh(ctx context.Context, sourcePath, cachePath string) bool {
	fresh, _ := u.freshness(ctx, sourcePath, cachePath)
	return fresh
}

// freshness is IsFresh plus the source mtime it compared against, which is
// zero when the source could not be stat'ed.
func (u *ImageVariantUsecase) freshness(ctx context.Context, sourcePath, cachePath string) (bool, time.Time) {
	sourceMod, err := u.store.ModTime(ctx, sourcePath)
	if err != nil {
		return false, time.Time{}
	}
	exists, err := u.store.Exists(ctx, cachePath)
	if err != nil || !exists {
		return false, sourceMod
	}
	cacheMod, err := u.store.ModTime(ctx, cachePath)
	if err != nil {
		return false, sourceMod
	}
	return !cacheMod.Before(sourceMod), sourceMod
}

// serveCached answers from the stored artifact. It returns false when the
// artifact vanished or could not be read, so the caller regenerates it.
func (u *ImageVariantUsecase) serveCached(
	ctx context.Context,
	req domain.ImageVariantRequest,
	src, cachePath string,
	preset domain.Preset,
	format domain.ImageFormat,
) (*domain.ImageVariant, bool) {
	modTime, err := u.store.ModTime(ctx, cachePath)
	if err != nil {
		u.log.WithContext(ctx).Warn("cached artifact stat failed, regenerating", "cache_path", cachePath, "error", err)
		return nil, false
	}

	v := &domain.ImageVariant{
		CachePath:  cachePath,
		SourcePath: src,
		Preset:     preset,
		Format:     format,
		ModTime:    modTime,
		ETag:       image_variant.ETag(cachePath, modTime),
		CacheHit:   true,
		Persisted:  true,
	}

	if image_variant.NotModified(req.IfNoneMatch, req.IfModifiedSince, v.ETag, modTime) {
		v.NotModified = true
		return v, true
	}

	data, err := u.store.Read(ctx, cachePath)
	if err != nil {
		u.log.WithContext(ctx).Warn("cached artifact read failed, regenerating", "cache_path", cachePath, "error", err)
		return nil, false
	}
	v.Data = data
	return v, true
}

// materialize transcodes the source and stores the artifact. Callers racing
// on the same cachePath and source mtime share one execution, which runs on
// a context detached from any single request so a disconnect cannot abort
// it. A caller that saw a newer source never joins an older flight.
func (u *ImageVariantUsecase) materialize(
	ctx context.Context,
	src string,
	sourceMod time.Time,
	cachePath string,
	preset domain.Preset,
	format domain.ImageFormat,
) (*domain.ImageVariant, error) {
	detached := context.WithoutCancel(ctx)
	key := cachePath + "@" + strconv.FormatInt(sourceMod.UnixNano(), 10)
	ch := u.inflight.DoChan(key, func() (interface{}, error) {
		return u.transcodeAndStore(detached, src, sourceMod, cachePath, preset, format)
	})

	select {
	case <-ctx.Done():
		return nil, errors.NewUnknownContextError("request canceled while transcoding", "usecase", component, "materialize", ctx.Err(),
			map[string]interface{}{"cache_path": cachePath})
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			metrics.RecordCoalesced()
		}
		shared := res.Val.(*domain.ImageVariant)
		out := *shared
		return &out, nil
	}
}

func (u *ImageVariantUsecase) transcodeAndStore(
	ctx context.Context,
	src string,
	sourceMod time.Time,
	cachePath string,
	preset domain.Preset,
	format domain.ImageFormat,
) (*domain.ImageVariant, error) {
	ctx, span := tracer.Start(ctx, "ImageVariantUsecase.transcodeAndStore")
	defer span.End()

	if err := u.slots.Acquire(ctx, 1); err != nil {
		return nil, errors.NewUnknownContextError("transcode slot unavailable", "usecase", component, "transcodeAndStore", err, nil)
	}
	metrics.TranscodesInFlight.Inc()
	defer func() {
		metrics.TranscodesInFlight.Dec()
		u.slots.Release(1)
	}()

	data, err := u.store.Read(ctx, src)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("usecase", component, "transcodeAndStore", err,
			map[string]interface{}{"source_path": src})
	}

	start := u.now()
	result, err := u.transcoder.Transcode(ctx, data, preset, format)
	if err != nil {
		u.log.WithContext(ctx).Error("transcode failed",
			"source_path", src,
			"format", string(format),
			"error", err,
		)
		return nil, err
	}
	elapsed := u.now().Sub(start)
	metrics.RecordTranscode(preset.Name, string(format), elapsed, len(result.Data))

	v := &domain.ImageVariant{
		CachePath:  cachePath,
		SourcePath: src,
		Preset:     preset,
		Format:     format,
		Data:       result.Data,
		Width:      result.Width,
		Height:     result.Height,
		Persisted:  true,
	}

	if u.sourceChanged(ctx, src, sourceMod) {
		// Bytes from an older source must not overwrite a newer artifact.
		u.log.WithContext(ctx).Debug("source changed during transcode, not caching", "cache_path", cachePath)
		v.Persisted = false
	} else if err := u.store.Write(ctx, cachePath, result.Data); err != nil {
		writeErr := errors.NewCacheWriteFailureError("usecase", component, "transcodeAndStore", err,
			map[string]interface{}{"cache_path": cachePath})
		metrics.RecordCacheWriteFailure(preset.Name)
		u.log.WithContext(ctx).Warn("serving variant without caching it", "cache_path", cachePath, "error", writeErr)
		v.Persisted = false
	}

	v.ModTime = u.now()
	if v.Persisted {
		if mt, err := u.store.ModTime(ctx, cachePath); err == nil {
			v.ModTime = mt
		}
	}
	v.ETag = image_variant.ETag(cachePath, v.ModTime)

	u.log.WithContext(ctx).Info("variant transcoded",
		"cache_path", cachePath,
		"format", string(format),
		"width", v.Width,
		"height", v.Height,
		"bytes", len(v.Data),
		"duration_ms", elapsed.Milliseconds(),
	)
	return v, nil
}

// sourceChanged reports whether the source mtime moved away from the one the
// transcode was started for. Unknown states count as unchanged.
func (u *ImageVariantUsecase) sourceChanged(ctx context.Context, src string, sourceMod time.Time) bool {
	if sourceMod.IsZero() {
		return false
	}
	current, err := u.store.ModTime(ctx, src)
	if err != nil {
		return false
	}
	return !current.Equal(sourceMod)
}

// Warm materializes the variant for sourcePath without serving it. accept
// selects the format the same way a browser's Accept header would.
func (u *ImageVariantUsecase) Warm(ctx context.Context, presetName, sourcePath, accept string) (*domain.ImageVariant, error) {
	v, err := u.GetVariant(ctx, domain.ImageVariantRequest{
		PresetName: presetName,
		SourcePath: sourcePath,
		Accept:     accept,
	})
	if err != nil {
		return nil, fmt.Errorf("warm %s/%s: %w", presetName, sourcePath, err)
	}
	return v, nil
}

func (u *ImageVariantUsecase) recordFailure(span trace.Span, preset string, err error) {
	outcome := metrics.OutcomeError
	if errors.IsClientError(err) {
		outcome = metrics.OutcomeNotFound
	} else {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecordRequest(preset, outcome)
}
