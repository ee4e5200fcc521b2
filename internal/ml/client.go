// Package ml talks to the external embedding service that turns free text
// into CLIP vectors for the smart search path.
package ml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/arawak/praline/internal/search"
)

// ErrUnavailable wraps every failure to reach or use the embedding service
// so callers can map it to a distinct, recoverable signal.
var ErrUnavailable = errors.New("machine learning service unavailable")

type Client struct {
	logger *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{logger: logger.With("component", "ml")}
}

// EmbedText requests a text embedding from the configured service. The
// client is rebuilt per call because the service address and model are
// runtime configuration, not construction-time state.
func (c *Client) EmbedText(ctx context.Context, cfg search.MachineLearningConfig, text string) ([]float32, error) {
	// The local embedding service is OpenAI-compatible and unauthenticated.
	client, err := openai.New(
		openai.WithBaseURL(cfg.URL),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	vectors, err := embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		c.logger.Error("embedding request failed", "url", cfg.URL, "model", cfg.Model, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}
	return vectors[0], nil
}
