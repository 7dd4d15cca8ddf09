package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

// VectorStore is the pgvector-backed store shared by ingestion and chat.
type VectorStore struct {
	collections *CollectionRepo
	embeddings  *EmbeddingRepo
}

func NewVectorStore(db *sql.DB) *VectorStore {
	return &VectorStore{
		collections: NewCollectionRepo(db),
		embeddings:  NewEmbeddingRepo(db),
	}
}

func (s *VectorStore) Upsert(ctx context.Context, collection string, records []model.Record) error {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", collection))
	coll, err := s.collections.Ensure(ctx, collection)
	if err != nil {
		logger.Error("ensure collection failed", zap.Error(err))
		return fmt.Errorf("%w: ensure collection %s: %w", appErr.ErrProvider, collection, err)
	}
	if err := s.embeddings.Upsert(ctx, coll.UUID, records); err != nil {
		logger.Error("upsert records failed", zap.Int("records", len(records)), zap.Error(err))
		return fmt.Errorf("%w: upsert into %s: %w", appErr.ErrProvider, collection, err)
	}
	logger.Info("records upserted", zap.Int("records", len(records)))
	return nil
}

func (s *VectorStore) Search(ctx context.Context, collection string, query []float32, k int) ([]model.SearchResult, error) {
	results, err := s.embeddings.Search(ctx, collection, query, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %w", appErr.ErrProvider, collection, err)
	}
	return results, nil
}
