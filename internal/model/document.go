package model

// Document is one loaded unit of the source file, a single PDF page.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Chunk is a slice of a Document sized for embedding.
type Chunk struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}
