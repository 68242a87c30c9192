package blob_store_gateway

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// LocalBlobStoreGateway implements BlobStorePort on an afero filesystem. In
// production the filesystem is an afero.BasePathFs rooted at the storage
// directory; tests use afero.NewMemMapFs.
type LocalBlobStoreGateway struct {
	fs afero.Fs
}

func NewLocalBlobStoreGateway(fsys afero.Fs) *LocalBlobStoreGateway {
	return &LocalBlobStoreGateway{fs: fsys}
}

func (g *LocalBlobStoreGateway) Exists(ctx context.Context, p string) (bool, error) {
	info, err := g.fs.Stat(filepath.FromSlash(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", p, err)
	}
	return !info.IsDir(), nil
}

func (g *LocalBlobStoreGateway) ModTime(ctx context.Context, p string) (time.Time, error) {
	info, err := g.fs.Stat(filepath.FromSlash(p))
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		return time.Time{}, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return info.ModTime(), nil
}

func (g *LocalBlobStoreGateway) Read(ctx context.Context, p string) ([]byte, error) {
	data, err := afero.ReadFile(g.fs, filepath.FromSlash(p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Write stages data in a temp file next to the target and renames it into
// place, so concurrent readers never observe a partial artifact.
func (g *LocalBlobStoreGateway) Write(ctx context.Context, p string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.FromSlash(p)
	dir := filepath.FromSlash(path.Dir(p))
	if err := g.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", p, err)
	}

	tmp, err := afero.TempFile(g.fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", p, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = g.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp for %s: %w", p, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", p, err)
	}
	if err = g.fs.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp for %s: %w", p, err)
	}
	if err = g.fs.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename into %s: %w", p, err)
	}
	return nil
}
