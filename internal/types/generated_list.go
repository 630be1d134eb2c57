package types

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedList is the AI-produced packing list. The unique index on TripID
// enforces the one-list-per-trip invariant; a concurrent duplicate generation
// loses with a constraint violation.
type GeneratedList struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TripID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"trip_id"`
	Trip      *Trip     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TripID;references:ID" json:"trip,omitempty"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items []*GeneratedListItem `gorm:"foreignKey:GeneratedListID;references:ID" json:"items,omitempty"`
}

func (GeneratedList) TableName() string { return "generated_lists" }
