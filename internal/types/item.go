package types

import (
	"time"

	"github.com/google/uuid"
)

// Item is the deduplicated catalog entry for a physical packing object.
// Generated list items snapshot its fields so later edits or deletions never
// rewrite history.
type Item struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Weight     *float64  `gorm:"column:weight;check:weight >= 0" json:"weight,omitempty"`
	Dimensions string    `gorm:"column:dimensions" json:"dimensions,omitempty"` // "WxHxD"
	Category   string    `gorm:"column:category" json:"category,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "items" }
