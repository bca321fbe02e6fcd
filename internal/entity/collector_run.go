package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CollectorRun is the audit record for one broad collection pass.
type CollectorRun struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StartedAt       time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	SourcesFailed   pq.StringArray `gorm:"type:text[]" json:"sources_failed"`
	PostsSeen       int            `json:"posts_seen"`
	EventsPublished int            `json:"events_published"`
	Details         datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the CollectorRun model.
func (CollectorRun) TableName() string {
	return "collector_runs"
}
