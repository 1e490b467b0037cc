package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DiskStore keeps objects in a local folder. The API serves them back under urlPrefix.
type DiskStore struct {
	rootPath  string
	urlPrefix string
}

func NewDiskStore(rootPath, urlPrefix string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &DiskStore{
		rootPath:  rootPath,
		urlPrefix: urlPrefix,
	}, nil
}

func (ds *DiskStore) pathFor(key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(ds.rootPath, filepath.FromSlash(key)), nil
}

func (ds *DiskStore) Put(ctx context.Context, key string, body io.Reader, size int64, _ string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "media.disk.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("media.key", key))
	span.SetAttributes(attribute.Int64("media.size", size))

	p, err := ds.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	// write next to the target and rename, so readers never see half a file
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (ds *DiskStore) Open(ctx context.Context, key string) (*os.File, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "media.disk.open")
	defer span.End()

	p, err := ds.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}

func (ds *DiskStore) Delete(ctx context.Context, key string) error {
	_, span := tracing.GlobalTracer.Start(ctx, "media.disk.delete")
	defer span.End()

	p, err := ds.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	log.Debugf("disk media: object [%s] deleted", key)
	return nil
}

func (ds *DiskStore) URL(_ context.Context, key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}
	return ds.urlPrefix + (&url.URL{Path: key}).EscapedPath(), nil
}

func (ds *DiskStore) DeletePrefix(ctx context.Context, prefix string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "media.disk.deleteprefix")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dir := filepath.Clean(filepath.FromSlash(prefix))
	if dir == "." || !ValidKey(filepath.ToSlash(dir)) {
		return ErrInvalidKey
	}
	return os.RemoveAll(filepath.Join(ds.rootPath, dir))
}
