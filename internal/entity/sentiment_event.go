package entity

import "time"

// SentimentEvent is one immutable scored row per (source post, ticker) pair.
// Rows are append-only; nothing in the pipeline updates or deletes them.
type SentimentEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SourceID  string    `gorm:"not null;index" json:"source_id"`
	Ticker    string    `gorm:"not null;index" json:"ticker"`
	ModelName string    `gorm:"not null" json:"model_name"`
	Score     float64   `gorm:"not null" json:"score"`
	PosProb   float64   `gorm:"not null" json:"pos_prob"`
	NegProb   float64   `gorm:"not null" json:"neg_prob"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ScoredAt  time.Time `gorm:"not null;autoCreateTime;index" json:"scored_at"`
}

// TableName specifies the table name for the SentimentEvent model.
func (SentimentEvent) TableName() string {
	return "sentiment_events"
}
