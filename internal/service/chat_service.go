package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/ai"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type ChatService struct {
	retriever *Retriever
	manager   *ai.Manager
}

func NewChatService(retriever *Retriever, manager *ai.Manager) *ChatService {
	return &ChatService{retriever: retriever, manager: manager}
}

// Ask answers question from the top DefaultTopK chunks of the collection.
func (s *ChatService) Ask(ctx context.Context, question string) (string, error) {
	logger := logutil.GetLogger(ctx)
	results, err := s.retriever.Retrieve(ctx, question, DefaultTopK)
	if err != nil {
		logger.Error("retrieve context failed", zap.String("kind", appErr.Kind(err)), zap.Error(err))
		return "", err
	}
	answer, err := s.manager.Answer(ctx, question, results)
	if err != nil {
		logger.Error("generate answer failed", zap.String("kind", appErr.Kind(err)), zap.Error(err))
		return "", err
	}
	return answer, nil
}
