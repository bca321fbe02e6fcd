package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	workerconfig "go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/dto"
	"go-stock-sentiment/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiClassifierRepository is a Classifier that uses the Google Gemini API.
type geminiClassifierRepository struct {
	cfg            *workerconfig.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiClassifierRepository creates a Classifier backed by the Gemini API.
func NewGeminiClassifierRepository(cfg *workerconfig.Config, log *logger.Logger, genAiClient *genai.Client) Classifier {
	maxPerMinute := cfg.Gemini.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 10
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	return &geminiClassifierRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
	}
}

func (r *geminiClassifierRepository) ModelName() string {
	return r.cfg.Gemini.Model
}

// Score asks the model for a JSON verdict and parses it out of the reply.
func (r *geminiClassifierRepository) Score(ctx context.Context, text string) (*dto.SentimentScore, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	prompt := buildSentimentPrompt(text)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}

	return parseSentimentResponse(resp.Text())
}

func buildSentimentPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("You are a financial sentiment classifier. Rate the sentiment of the following social media post about stocks.\n")
	sb.WriteString("Respond with ONLY a JSON object of this exact shape, no prose:\n")
	sb.WriteString(`{"score": <float -1 to 1>, "pos_prob": <float 0 to 1>, "neg_prob": <float 0 to 1>}` + "\n\n")
	sb.WriteString("Post:\n")
	sb.WriteString(text)
	return sb.String()
}

func parseSentimentResponse(raw string) (*dto.SentimentScore, error) {
	if raw == "" {
		return nil, fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := strings.TrimSpace(strings.Trim(raw, "`json\n`"))

	var score dto.SentimentScore
	if err := json.Unmarshal([]byte(jsonString), &score); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score from Gemini response: %w", err)
	}
	return &score, nil
}
