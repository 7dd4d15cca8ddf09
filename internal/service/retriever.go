package service

import (
	"context"
	"sort"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/ai"
	"github.com/xxxsen/pdfrag/internal/model"
)

const DefaultTopK = 10

type Retriever struct {
	embedder   ai.IEmbedder
	store      VectorSearcher
	collection string
}

func NewRetriever(embedder ai.IEmbedder, store VectorSearcher, collection string) *Retriever {
	return &Retriever{embedder: embedder, store: store, collection: collection}
}

// Retrieve returns up to k chunks closest to question, best first. k outside
// 1..DefaultTopK falls back to DefaultTopK. No score threshold is applied.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]model.SearchResult, error) {
	if k <= 0 || k > DefaultTopK {
		k = DefaultTopK
	}
	vec, err := r.embedder.Embed(ctx, question, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	results, err := r.store.Search(ctx, r.collection, vec, k)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	logutil.GetLogger(ctx).Debug("chunks retrieved", zap.Int("k", k), zap.Int("results", len(results)))
	return results, nil
}
