package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type fakeGenerator struct {
	prompt   string
	answer   string
	err      error
	deadline bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	_, f.deadline = ctx.Deadline()
	return f.answer, f.err
}

func TestManagerAnswerReturnsRawCompletion(t *testing.T) {
	gen := &fakeGenerator{answer: "  raw answer\n"}
	m := NewManager(gen, ManagerConfig{})
	results := []model.SearchResult{{Chunk: model.Chunk{Content: "chunk body"}, Score: 0.7}}

	res, err := m.Answer(context.Background(), "what?", results)
	require.NoError(t, err)
	require.Equal(t, "  raw answer\n", res)
	require.Equal(t, BuildAnswerPrompt("what?", results), gen.prompt)
	require.False(t, gen.deadline)
}

func TestManagerAnswerAppliesTimeout(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	m := NewManager(gen, ManagerConfig{Timeout: 5})
	_, err := m.Answer(context.Background(), "q", nil)
	require.NoError(t, err)
	require.True(t, gen.deadline)
}

func TestManagerAnswerPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(&fakeGenerator{err: boom}, ManagerConfig{})
	_, err := m.Answer(context.Background(), "q", nil)
	require.ErrorIs(t, err, boom)

	_, err = NewManager(nil, ManagerConfig{}).Answer(context.Background(), "q", nil)
	require.ErrorIs(t, err, appErr.ErrConfiguration)
}
