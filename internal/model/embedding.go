package model

// Record is a chunk as persisted in the vector store.
type Record struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding"`
}

// SearchResult is a chunk returned by a similarity query. Higher scores are
// more similar.
type SearchResult struct {
	ID    string  `json:"id"`
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
