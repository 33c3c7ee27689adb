package store

import "time"

// CachedVerdict is a judge verdict persisted so re-runs can skip the API call.
type CachedVerdict struct {
	ID               uint   `gorm:"primaryKey"`
	Model            string `gorm:"size:128;uniqueIndex:idx_verdict_key"`
	Description      string `gorm:"type:text;uniqueIndex:idx_verdict_key"`
	DomainNormalized string `gorm:"size:255;uniqueIndex:idx_verdict_key"`
	Domain           string `gorm:"size:255"`
	Relevance        float64
	Brandability     float64
	Safety           float64
	Comment          string `gorm:"type:text"`
	RunID            string `gorm:"size:64;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
