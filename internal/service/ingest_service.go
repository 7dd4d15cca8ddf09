package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/ai"
	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type IngestService struct {
	loader     DocumentLoader
	chunker    *ai.Chunker
	embedder   ai.IEmbedder
	store      VectorWriter
	collection string
}

func NewIngestService(loader DocumentLoader, chunker *ai.Chunker, embedder ai.IEmbedder, store VectorWriter, collection string) *IngestService {
	return &IngestService{
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Ingest loads the document at location, splits and embeds it and writes every
// chunk to the collection in one batch. It returns the number of records
// written. Any failure aborts the run before the store is touched.
func (s *IngestService) Ingest(ctx context.Context, location string) (int, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("source", location), zap.String("collection", s.collection))
	start := time.Now()

	docs, err := s.loader.Load(ctx, location)
	if err != nil {
		logger.Error("load document failed", zap.Error(err))
		return 0, err
	}
	logger.Info("document loaded", zap.Int("pages", len(docs)))

	chunks := s.chunker.SplitDocuments(ctx, docs)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: no chunks produced from %s", appErr.ErrProcessing, location)
	}

	records, err := s.buildRecords(ctx, chunks)
	if err != nil {
		logger.Error("embed chunks failed", zap.Error(err))
		return 0, err
	}
	if err := s.store.Upsert(ctx, s.collection, records); err != nil {
		return 0, err
	}
	logger.Info("ingestion completed",
		zap.Int("records", len(records)),
		zap.String("embedding_model", s.embedder.ModelName()),
		zap.Duration("cost", time.Since(start)),
	)
	return len(records), nil
}

func (s *IngestService) buildRecords(ctx context.Context, chunks []model.Chunk) ([]model.Record, error) {
	records := make([]model.Record, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk.Content, ai.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		records = append(records, model.Record{
			ID:        chunkID(i),
			Content:   chunk.Content,
			Metadata:  sanitizeMetadata(chunk.Metadata),
			Embedding: vec,
		})
	}
	return records, nil
}

// sanitizeMetadata drops nil and empty string values.
func sanitizeMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		out[k] = v
	}
	return out
}
