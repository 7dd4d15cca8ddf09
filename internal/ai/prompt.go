package ai

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xxxsen/pdfrag/internal/model"
)

// FallbackAnswer is what the model is told to reply when the context does not
// hold the answer.
const FallbackAnswer = "I don't have the information needed to answer your question."

const answerPromptTemplate = `CONTEXT:
%s

RULES:
- Answer only based on the CONTEXT.
- If the information is not explicitly in the CONTEXT, answer:
  "%s"
- Never make things up or use outside knowledge.
- Never give opinions or interpretations beyond what is written.

EXAMPLES OF OUT-OF-CONTEXT QUESTIONS:
Question: "What is the capital of France?"
Answer: "%s"

Question: "How many customers did we have in 2024?"
Answer: "%s"

Question: "Do you think this is good or bad?"
Answer: "%s"

USER QUESTION:
%s

ANSWER THE "USER QUESTION"
`

// BuildAnswerPrompt renders the retrieved context and the question into the
// context-only answering prompt.
func BuildAnswerPrompt(question string, results []model.SearchResult) string {
	return fmt.Sprintf(answerPromptTemplate,
		FormatContext(results),
		FallbackAnswer,
		FallbackAnswer,
		FallbackAnswer,
		FallbackAnswer,
		question,
	)
}

// FormatContext serializes results in rank order. Each block carries the
// rank, the score with four decimals, the metadata sorted by key and the
// chunk content as stored.
func FormatContext(results []model.SearchResult) string {
	if len(results) == 0 {
		return "(no context)"
	}
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		var sb strings.Builder
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("] score=")
		sb.WriteString(strconv.FormatFloat(r.Score, 'f', 4, 64))
		sb.WriteString("\n")
		if meta := formatMetadata(r.Chunk.Metadata); meta != "" {
			sb.WriteString("metadata: ")
			sb.WriteString(meta)
			sb.WriteString("\n")
		}
		sb.WriteString(r.Chunk.Content)
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}

func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return strings.Join(pairs, ", ")
}
