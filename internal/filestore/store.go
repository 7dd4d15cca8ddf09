package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xxxsen/pdfrag/internal/config"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

// Object is an opened source file. Close releases it, including any local
// copy made while fetching it.
type Object interface {
	io.ReaderAt
	io.Closer
	Size() int64
	Name() string
}

type Store interface {
	Open(ctx context.Context, key string) (Object, error)
}

type Args struct {
	Bucket string
	S3     config.S3Config
}

type Factory func(ctx context.Context, args Args) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(scheme string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(scheme))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

// Resolver opens source locations: plain paths go to the local filesystem,
// "s3://bucket/key" to object storage.
type Resolver struct {
	s3 config.S3Config
}

func NewResolver(s3 config.S3Config) *Resolver {
	return &Resolver{s3: s3}
}

func (r *Resolver) Open(ctx context.Context, location string) (Object, error) {
	scheme, bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	registryMu.RLock()
	factory := registry[scheme]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("%w: unsupported source scheme: %s", appErr.ErrConfiguration, scheme)
	}
	store, err := factory(ctx, Args{Bucket: bucket, S3: r.s3})
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, key)
}

// ParseLocation splits a source location into scheme, bucket and key. Paths
// without a scheme are local files.
func ParseLocation(location string) (scheme, bucket, key string, err error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", "", "", fmt.Errorf("%w: source location is empty", appErr.ErrConfiguration)
	}
	idx := strings.Index(location, "://")
	if idx < 0 {
		return "local", "", location, nil
	}
	scheme = strings.ToLower(location[:idx])
	rest := location[idx+3:]
	if scheme == "file" {
		return "local", "", rest, nil
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", "", fmt.Errorf("%w: invalid source location: %s", appErr.ErrConfiguration, location)
	}
	return scheme, bucket, key, nil
}
