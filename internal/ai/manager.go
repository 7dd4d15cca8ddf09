package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/model"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type ManagerConfig struct {
	// Timeout in seconds for one generation call, 0 leaves it to the provider.
	Timeout int
}

// Manager turns retrieved context into answers.
type Manager struct {
	generator IGenerator
	cfg       ManagerConfig
}

func NewManager(generator IGenerator, cfg ManagerConfig) *Manager {
	return &Manager{generator: generator, cfg: cfg}
}

// Answer asks the generator to answer question from results only and returns
// the completion untouched.
func (m *Manager) Answer(ctx context.Context, question string, results []model.SearchResult) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("%w: generator not configured", appErr.ErrConfiguration)
	}
	prompt := BuildAnswerPrompt(question, results)
	logutil.GetLogger(ctx).Debug("answer prompt built", zap.Int("context_items", len(results)), zap.Int("prompt_chars", len(prompt)))
	return m.generateText(ctx, prompt)
}

func (m *Manager) generateText(ctx context.Context, prompt string) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	return m.generator.Generate(ctx, prompt)
}
