package entity

import "time"

// CandidateEvent is the unit of work carried through the mention queue: one
// social-media post plus the tickers extracted from it. It is JSON-encoded
// into the stream entry's payload field.
type CandidateEvent struct {
	SourceID      string    `json:"source_id"`
	SourceChannel string    `json:"source_channel"`
	OccurredAt    time.Time `json:"occurred_at"`
	Tickers       []string  `json:"tickers"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
}

// ScoringText returns the text the classifier scores: title and body joined,
// scored once per event regardless of how many tickers it mentions.
func (e *CandidateEvent) ScoringText() string {
	if e.Body == "" {
		return e.Title
	}
	return e.Title + "  " + e.Body
}
