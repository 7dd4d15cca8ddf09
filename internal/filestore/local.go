package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type localStore struct{}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(ctx context.Context, args Args) (Store, error) {
	_ = ctx
	_ = args
	return &localStore{}, nil
}

func (s *localStore) Open(ctx context.Context, key string) (Object, error) {
	_ = ctx
	file, err := os.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file not found at path: %s", appErr.ErrNotFound, key)
		}
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: path is a directory: %s", appErr.ErrNotFound, key)
	}
	return &fileObject{File: file, size: info.Size(), name: key}, nil
}

type fileObject struct {
	*os.File
	size    int64
	name    string
	cleanup func() error
}

func (o *fileObject) Size() int64 {
	return o.size
}

func (o *fileObject) Name() string {
	return o.name
}

func (o *fileObject) Close() error {
	err := o.File.Close()
	if o.cleanup != nil {
		if cerr := o.cleanup(); err == nil {
			err = cerr
		}
	}
	return err
}
