package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/pdfrag/internal/ai"
	"github.com/xxxsen/pdfrag/internal/config"
	"github.com/xxxsen/pdfrag/internal/filestore"
	"github.com/xxxsen/pdfrag/internal/loader"
	"github.com/xxxsen/pdfrag/internal/repl"
	"github.com/xxxsen/pdfrag/internal/repo"
	"github.com/xxxsen/pdfrag/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pdfrag",
		Short:         "answer questions about a pdf from a pgvector collection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "split, embed and store the pdf at PDF_PATH",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if err := cfg.ValidateIngest(); err != nil {
				return err
			}
			return runIngest(cmd.Context(), cfg)
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "ask questions about the ingested pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			started := false
			err := func() error {
				cfg, err := setup()
				if err != nil {
					return err
				}
				if err := cfg.ValidateChat(); err != nil {
					return err
				}
				return withDB(cmd.Context(), cfg, func(conn *sql.DB) error {
					chat, err := newChatService(cfg, conn)
					if err != nil {
						return err
					}
					started = true
					return repl.New(chat, cmd.InOrStdin(), out).Run(cmd.Context())
				})
			}()
			// the loop prints its own failure message
			if err != nil && !started {
				fmt.Fprintln(out, repl.FailureMessage)
			}
			return err
		},
	}

	rootCmd.AddCommand(ingestCmd, chatCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logutil.GetLogger(context.Background()).Fatal("run failed", zap.Error(err))
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		cfg.LogConfig.FileCount,
		cfg.LogConfig.FileSize,
		cfg.LogConfig.KeepDays,
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded",
		zap.String("embedding_provider", cfg.EmbeddingProvider),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("collection", cfg.CollectionName),
	)
	return cfg, nil
}

func withDB(ctx context.Context, cfg *config.Config, fn func(conn *sql.DB) error) error {
	conn, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func runIngest(ctx context.Context, cfg *config.Config) error {
	embedder, err := ai.NewEmbedderFromConfig(cfg)
	if err != nil {
		return err
	}
	n, err := newIngestService(cfg, embedder, openStore).Ingest(ctx, cfg.PDFPath)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("pdf ingested", zap.String("source", cfg.PDFPath), zap.Int("chunks", n))
	return nil
}

// newIngestService wires ingestion so the database is only reached once the
// document is loaded, split and embedded.
func newIngestService(cfg *config.Config, embedder ai.IEmbedder, open storeOpener) *service.IngestService {
	return service.NewIngestService(
		loader.NewPDFLoader(filestore.NewResolver(cfg.S3)),
		ai.NewChunker(ai.DefaultChunkSize, ai.DefaultChunkOverlap),
		embedder,
		&lazyStore{dsn: cfg.DatabaseURL, open: open},
		cfg.CollectionName,
	)
}

func newChatService(cfg *config.Config, conn *sql.DB) (*service.ChatService, error) {
	embedder, err := ai.NewEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	generator, err := ai.NewGeneratorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewChatService(
		service.NewRetriever(embedder, repo.NewVectorStore(conn), cfg.CollectionName),
		ai.NewManager(generator, ai.ManagerConfig{Timeout: cfg.LLMTimeout}),
	), nil
}
