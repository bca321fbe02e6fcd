package repository

import (
	"context"
	"fmt"

	workerconfig "go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/dto"
	"go-stock-sentiment/pkg/logger"

	"google.golang.org/genai"
)

// Classifier scores a piece of text for financial sentiment.
type Classifier interface {
	ModelName() string
	Score(ctx context.Context, text string) (*dto.SentimentScore, error)
}

// NewClassifier creates the classifier selected by cfg.Classifier.Provider.
func NewClassifier(ctx context.Context, cfg *workerconfig.Config, log *logger.Logger) (Classifier, error) {
	switch cfg.Classifier.Provider {
	case "finbert", "":
		return NewFinbertRepository(cfg, log), nil
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		return NewGeminiClassifierRepository(cfg, log, genAiClient), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider: %s", cfg.Classifier.Provider)
	}
}
