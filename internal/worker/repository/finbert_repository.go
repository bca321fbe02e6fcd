package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	workerconfig "go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/dto"
	"go-stock-sentiment/pkg/logger"
)

const finbertModelName = "finbert"

// finbertRepository scores text against a FinBERT HTTP sidecar.
type finbertRepository struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
}

// NewFinbertRepository creates a Classifier backed by the FinBERT sidecar.
func NewFinbertRepository(cfg *workerconfig.Config, log *logger.Logger) Classifier {
	return &finbertRepository{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.Finbert.BaseURL,
		logger:  log,
	}
}

func (r *finbertRepository) ModelName() string {
	return finbertModelName
}

// Score posts the text to the sidecar's /score endpoint.
func (r *finbertRepository) Score(ctx context.Context, text string) (*dto.SentimentScore, error) {
	payload, err := json.Marshal(dto.FinbertScoreRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/score", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from scoring service: %d - %s", resp.StatusCode, string(body))
	}

	var score dto.SentimentScore
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, fmt.Errorf("failed to decode score response: %w", err)
	}
	return &score, nil
}
