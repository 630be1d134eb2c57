package types

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedListItem is a denormalized snapshot of an item at generation time.
// ItemID is nullable and deletion-restricted: the source catalog entry may
// change or disappear without touching historical lists.
type GeneratedListItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GeneratedListID uuid.UUID      `gorm:"type:uuid;not null;index" json:"generated_list_id"`
	GeneratedList   *GeneratedList `gorm:"constraint:OnDelete:CASCADE;foreignKey:GeneratedListID;references:ID" json:"generated_list,omitempty"`
	ItemID          *uuid.UUID     `gorm:"type:uuid;index" json:"item_id,omitempty"`
	Item            *Item          `gorm:"constraint:OnDelete:RESTRICT;foreignKey:ItemID;references:ID" json:"item,omitempty"`
	Quantity        int            `gorm:"column:quantity;not null;check:quantity > 0" json:"quantity"`
	IsPacked        bool           `gorm:"column:is_packed;not null;default:false" json:"is_packed"`
	ItemName        string         `gorm:"column:item_name;not null" json:"item_name"`
	ItemWeight      *float64       `gorm:"column:item_weight;check:item_weight >= 0" json:"item_weight,omitempty"`
	ItemDimensions  string         `gorm:"column:item_dimensions" json:"item_dimensions,omitempty"`
	ItemCategory    string         `gorm:"column:item_category" json:"item_category,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (GeneratedListItem) TableName() string { return "generated_list_items" }
