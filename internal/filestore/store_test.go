package filestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/pdfrag/internal/config"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location string
		scheme   string
		bucket   string
		key      string
		wantErr  bool
	}{
		{location: "docs/report.pdf", scheme: "local", key: "docs/report.pdf"},
		{location: "/abs/report.pdf", scheme: "local", key: "/abs/report.pdf"},
		{location: "file:///abs/report.pdf", scheme: "local", key: "/abs/report.pdf"},
		{location: "s3://bucket/path/to/report.pdf", scheme: "s3", bucket: "bucket", key: "path/to/report.pdf"},
		{location: "S3://bucket/report.pdf", scheme: "s3", bucket: "bucket", key: "report.pdf"},
		{location: "s3://bucket", wantErr: true},
		{location: "s3:///report.pdf", wantErr: true},
		{location: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			scheme, bucket, key, err := ParseLocation(tt.location)
			if tt.wantErr {
				require.ErrorIs(t, err, appErr.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.scheme, scheme)
			require.Equal(t, tt.bucket, bucket)
			require.Equal(t, tt.key, key)
		})
	}
}

func TestResolverOpensLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 body"), 0o600))

	obj, err := NewResolver(config.S3Config{}).Open(context.Background(), path)
	require.NoError(t, err)
	defer obj.Close()
	require.Equal(t, int64(13), obj.Size())
	require.Equal(t, path, obj.Name())
	buf := make([]byte, 4)
	_, err = obj.ReadAt(buf, 1)
	require.NoError(t, err)
	require.Equal(t, "PDF-", string(buf))
}

func TestResolverLocalMissingFile(t *testing.T) {
	_, err := NewResolver(config.S3Config{}).Open(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorIs(t, err, appErr.ErrNotFound)

	_, err = NewResolver(config.S3Config{}).Open(context.Background(), t.TempDir())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestResolverUnknownScheme(t *testing.T) {
	_, err := NewResolver(config.S3Config{}).Open(context.Background(), "gs://bucket/doc.pdf")
	require.ErrorIs(t, err, appErr.ErrConfiguration)
}

func TestResolverS3(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/report.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7 remote"))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		}
	}))
	defer srv.Close()

	resolver := NewResolver(config.S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
	})
	obj, err := resolver.Open(context.Background(), "s3://docs/report.pdf")
	require.NoError(t, err)
	require.Equal(t, int64(15), obj.Size())
	require.Equal(t, "s3://docs/report.pdf", obj.Name())
	tmpName := obj.(*fileObject).File.Name()
	require.FileExists(t, tmpName)
	require.NoError(t, obj.Close())
	require.NoFileExists(t, tmpName)

	_, err = resolver.Open(context.Background(), "s3://docs/missing.pdf")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
