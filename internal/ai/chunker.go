package ai

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/model"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Chunker splits text recursively: it tries paragraph breaks first, then line
// breaks, then spaces and finally cuts between characters. Pieces are merged
// greedily up to size characters, and consecutive chunks share up to overlap
// characters.
type Chunker struct {
	size       int
	overlap    int
	separators []string
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Chunker{size: size, overlap: overlap, separators: defaultSeparators}
}

// SplitDocuments splits every document and gives each chunk its own copy of
// the document metadata. Chunks keep document order.
func (c *Chunker) SplitDocuments(ctx context.Context, docs []model.Document) []model.Chunk {
	logger := logutil.GetLogger(ctx)
	var chunks []model.Chunk
	for i, doc := range docs {
		parts := c.Split(doc.Content)
		logger.Debug("document split", zap.Int("document", i), zap.Int("chars", utf8.RuneCountInString(doc.Content)), zap.Int("chunks", len(parts)))
		for _, part := range parts {
			chunks = append(chunks, model.Chunk{
				Content:  part,
				Metadata: copyMetadata(doc.Metadata),
			})
		}
	}
	logger.Info("chunking completed", zap.Int("documents", len(docs)), zap.Int("total_chunks", len(chunks)))
	return chunks
}

func (c *Chunker) Split(text string) []string {
	return c.splitText(text, c.separators)
}

func (c *Chunker) splitText(text string, separators []string) []string {
	var final []string
	separator := separators[len(separators)-1]
	var next []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			next = separators[i+1:]
			break
		}
	}

	var good []string
	for _, s := range splitKeepSeparator(text, separator) {
		if utf8.RuneCountInString(s) < c.size {
			good = append(good, s)
			continue
		}
		if len(good) > 0 {
			final = append(final, c.merge(good)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, s)
			continue
		}
		final = append(final, c.splitText(s, next)...)
	}
	if len(good) > 0 {
		final = append(final, c.merge(good)...)
	}
	return final
}

// merge joins small pieces into chunks of at most size characters. Once a
// chunk is emitted, pieces are dropped from its front until no more than
// overlap characters remain, and those carry over into the next chunk.
func (c *Chunker) merge(splits []string) []string {
	var docs []string
	var current []string
	total := 0
	for _, d := range splits {
		l := utf8.RuneCountInString(d)
		if total+l > c.size && len(current) > 0 {
			if doc := joinChunk(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > c.overlap || (total+l > c.size && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, d)
		total += l
	}
	if doc := joinChunk(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepSeparator splits text on sep and glues each separator to the start
// of the piece that follows it. An empty sep splits into characters.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinChunk(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, ""))
}

func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
