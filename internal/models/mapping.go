package models

import "time"

// ExternalMapping records one imported catalog recipe. The unique external
// id guarantees at most one import per catalog entry, so repeat lookups
// never spend catalog quota again.
type ExternalMapping struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	InternalID string    `gorm:"size:128;not null" json:"internal_id"`
	ExternalID string    `gorm:"size:128;not null;uniqueIndex" json:"external_id"`
	CreatedAt  time.Time `json:"created_at"`
}
