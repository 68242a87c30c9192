package di

import (
	"fmt"
	"log/slog"

	"imgcache/config"
	"imgcache/domain"
	"imgcache/driver/blob_driver"
	"imgcache/gateway/blob_store_gateway"
	"imgcache/gateway/transcode_gateway"
	"imgcache/port/image_variant_port"
	"imgcache/usecase/image_variant_usecase"
)

type ApplicationComponents struct {
	Presets             *domain.PresetRegistry
	BlobStore           image_variant_port.BlobStorePort
	ImageVariantUsecase *image_variant_usecase.ImageVariantUsecase
}

// NewApplicationComponents wires the blob store selected by cfg.Storage.Backend.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	store, err := newBlobStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return NewApplicationComponentsWithStore(cfg, store, log)
}

// NewApplicationComponentsWithStore wires everything on top of an existing store.
func NewApplicationComponentsWithStore(cfg *config.Config, store image_variant_port.BlobStorePort, log *slog.Logger) (*ApplicationComponents, error) {
	presets, err := cfg.PresetRegistry()
	if err != nil {
		return nil, fmt.Errorf("build preset registry: %w", err)
	}

	transcodeGatewayImpl := transcode_gateway.NewTranscodeGateway(cfg.Transcode.MaxSourceBytes)
	imageVariantUsecase := image_variant_usecase.NewImageVariantUsecase(
		presets,
		store,
		transcodeGatewayImpl,
		cfg.Storage.CacheRoot,
		cfg.Transcode.MaxConcurrency,
		log,
	)

	return &ApplicationComponents{
		Presets:             presets,
		BlobStore:           store,
		ImageVariantUsecase: imageVariantUsecase,
	}, nil
}

func newBlobStore(cfg config.StorageConfig) (image_variant_port.BlobStorePort, error) {
	switch cfg.Backend {
	case config.BackendMinio:
		client, err := blob_driver.NewMinioClient(blob_driver.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Region:    cfg.Minio.Region,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return blob_store_gateway.NewMinioBlobStoreGateway(client, cfg.Minio.Bucket, cfg.Minio.Prefix), nil
	case config.BackendLocal:
		fsys, err := blob_driver.NewLocalFs(cfg.Root)
		if err != nil {
			return nil, err
		}
		return blob_store_gateway.NewLocalBlobStoreGateway(fsys), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
