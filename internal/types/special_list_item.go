package types

import (
	"github.com/google/uuid"
)

// SpecialListItem is the association row between a special list and a catalog
// item, carrying the per-list quantity.
type SpecialListItem struct {
	SpecialListID uuid.UUID    `gorm:"type:uuid;primaryKey" json:"special_list_id"`
	SpecialList   *SpecialList `gorm:"constraint:OnDelete:CASCADE;foreignKey:SpecialListID;references:ID" json:"special_list,omitempty"`
	ItemID        uuid.UUID    `gorm:"type:uuid;primaryKey;index" json:"item_id"`
	Item          *Item        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ItemID;references:ID" json:"item,omitempty"`
	Quantity      int          `gorm:"column:quantity;not null;default:1;check:quantity > 0" json:"quantity"`
}

func (SpecialListItem) TableName() string { return "special_list_items" }
