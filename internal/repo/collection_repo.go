package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/pdfrag/internal/model"
	"github.com/xxxsen/pdfrag/internal/pkg/dbutil"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type CollectionRepo struct {
	db *sqlx.DB
}

func NewCollectionRepo(db *sql.DB) *CollectionRepo {
	return &CollectionRepo{db: sqlx.NewDb(db, "postgres")}
}

// Ensure returns the named collection, creating it first when missing.
func (r *CollectionRepo) Ensure(ctx context.Context, name string) (*model.Collection, error) {
	item, err := r.GetByName(ctx, name)
	if err == nil {
		return item, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}
	sqlStr, args, err := builder.BuildInsert("langchain_pg_collection", []map[string]interface{}{
		{"uuid": uuid.NewString(), "name": name},
	})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil && !dbutil.IsConflict(err) {
		return nil, err
	}
	// a concurrent ingest may have won the insert, read back whichever row exists
	return r.GetByName(ctx, name)
}

func (r *CollectionRepo) GetByName(ctx context.Context, name string) (*model.Collection, error) {
	where := map[string]interface{}{
		"name":   name,
		"_limit": []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("langchain_pg_collection", where, []string{"uuid", "name"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var item model.Collection
	if err := r.db.GetContext(ctx, &item, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: collection %s", appErr.ErrNotFound, name)
		}
		return nil, err
	}
	return &item, nil
}
