package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type fakeLoader struct {
	docs []model.Document
	err  error
}

func (f *fakeLoader) Load(ctx context.Context, location string) ([]model.Document, error) {
	return f.docs, f.err
}

type fakeEmbedder struct {
	calls     []string
	taskTypes []string
	failAt    int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls = append(f.calls, text)
	f.taskTypes = append(f.taskTypes, taskType)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, fmt.Errorf("%w: embed refused", appErr.ErrProvider)
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embed"
}

type fakeStore struct {
	upserts    int
	collection string
	records    []model.Record
	results    []model.SearchResult
	searchK    int
	err        error
}

func (f *fakeStore) Upsert(ctx context.Context, collection string, records []model.Record) error {
	f.upserts++
	f.collection = collection
	f.records = append(f.records, records...)
	return f.err
}

func (f *fakeStore) Search(ctx context.Context, collection string, query []float32, k int) ([]model.SearchResult, error) {
	f.collection = collection
	f.searchK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeGenerator struct {
	prompt string
	answer string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}
