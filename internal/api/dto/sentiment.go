package dto

import "time"

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TickerStats aggregates the scored rows for one ticker over a window.
type TickerStats struct {
	Ticker       string     `json:"ticker"`
	Mentions     int64      `json:"mentions"`
	AvgScore     float64    `json:"avg_score"`
	AvgPosProb   float64    `json:"avg_pos_prob"`
	AvgNegProb   float64    `json:"avg_neg_prob"`
	LastScoredAt *time.Time `json:"last_scored_at,omitempty"`
}

// TimelinePoint is one day's aggregate for a ticker.
type TimelinePoint struct {
	Date     string  `json:"date"`
	Mentions int64   `json:"mentions"`
	AvgScore float64 `json:"avg_score"`
}

// TrendingTicker is one entry of the trending ranking.
type TrendingTicker struct {
	Ticker   string  `json:"ticker"`
	Mentions int64   `json:"mentions"`
	AvgScore float64 `json:"avg_score"`
}

// SentimentRow is one scored row as exposed by the API.
type SentimentRow struct {
	SourceID  string    `json:"source_id"`
	Ticker    string    `json:"ticker"`
	ModelName string    `json:"model_name"`
	Score     float64   `json:"score"`
	PosProb   float64   `json:"pos_prob"`
	NegProb   float64   `json:"neg_prob"`
	CreatedAt time.Time `json:"created_at"`
	ScoredAt  time.Time `json:"scored_at"`
}

// CollectResponse reports the outcome of an on-demand collection.
type CollectResponse struct {
	Ticker          string `json:"ticker"`
	EventsPublished int    `json:"events_published"`
	Completed       bool   `json:"completed"`
}

// SearchResponse is the combined view returned by the search endpoint.
type SearchResponse struct {
	Ticker    string          `json:"ticker"`
	Collected bool            `json:"collected"`
	Stats     *TickerStats    `json:"stats"`
	Timeline  []TimelinePoint `json:"timeline"`
	Recent    []SentimentRow  `json:"recent"`
}

// ValidateTickerRequest is the body of the validate-ticker endpoint.
type ValidateTickerRequest struct {
	Ticker string `json:"ticker"`
}

// ValidateTickerResponse reports S&P 500 membership of a symbol.
type ValidateTickerResponse struct {
	Ticker string `json:"ticker"`
	Valid  bool   `json:"valid"`
}
