package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xxxsen/pdfrag/internal/db"
	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
	"github.com/xxxsen/pdfrag/internal/repo"
)

type storeOpener func(ctx context.Context, dsn string) (*sql.DB, error)

// openStore connects to postgres and makes sure the vector tables exist.
func openStore(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %w", appErr.ErrProvider, err)
	}
	if err := db.ApplyMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: migrations: %w", appErr.ErrProvider, err)
	}
	return conn, nil
}

// lazyStore connects on the first write, so a run that fails earlier never
// touches the database.
type lazyStore struct {
	dsn  string
	open storeOpener
}

func (s *lazyStore) Upsert(ctx context.Context, collection string, records []model.Record) error {
	conn, err := s.open(ctx, s.dsn)
	if err != nil {
		return err
	}
	defer conn.Close()
	return repo.NewVectorStore(conn).Upsert(ctx, collection, records)
}
