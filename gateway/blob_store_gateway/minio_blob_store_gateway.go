package blob_store_gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
)

// MinioBlobStoreGateway implements BlobStorePort on an S3-compatible bucket.
// Object keys are the slash-separated store paths under an optional prefix.
// PutObject replaces objects atomically, which satisfies the Write contract.
type MinioBlobStoreGateway struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioBlobStoreGateway(client *minio.Client, bucket, prefix string) *MinioBlobStoreGateway {
	return &MinioBlobStoreGateway{client: client, bucket: bucket, prefix: prefix}
}

func (g *MinioBlobStoreGateway) key(p string) string {
	if g.prefix == "" {
		return p
	}
	return path.Join(g.prefix, p)
}

func (g *MinioBlobStoreGateway) Exists(ctx context.Context, p string) (bool, error) {
	_, err := g.client.StatObject(ctx, g.bucket, g.key(p), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", p, translate(err))
	}
	return true, nil
}

func (g *MinioBlobStoreGateway) ModTime(ctx context.Context, p string) (time.Time, error) {
	info, err := g.client.StatObject(ctx, g.bucket, g.key(p), minio.StatObjectOptions{})
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", p, translate(err))
	}
	return info.LastModified, nil
}

func (g *MinioBlobStoreGateway) Read(ctx context.Context, p string) ([]byte, error) {
	obj, err := g.client.GetObject(ctx, g.bucket, g.key(p), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", p, translate(err))
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, translate(err))
	}
	return data, nil
}

func (g *MinioBlobStoreGateway) Write(ctx context.Context, p string, data []byte) error {
	_, err := g.client.PutObject(ctx, g.bucket, g.key(p), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mimetype.Detect(data).String()})
	if err != nil {
		return fmt.Errorf("put %s: %w", p, translate(err))
	}
	return nil
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// translate maps S3 error codes onto io/fs sentinels.
func translate(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	}
	return err
}
