package service

import (
	"context"

	"github.com/xxxsen/pdfrag/internal/model"
)

type DocumentLoader interface {
	Load(ctx context.Context, location string) ([]model.Document, error)
}

type VectorWriter interface {
	Upsert(ctx context.Context, collection string, records []model.Record) error
}

type VectorSearcher interface {
	Search(ctx context.Context, collection string, query []float32, k int) ([]model.SearchResult, error)
}
