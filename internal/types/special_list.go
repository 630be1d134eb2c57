package types

import (
	"time"

	"github.com/google/uuid"
)

type SpecialList struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name      string    `gorm:"column:name;not null;index" json:"name"`
	Category  string    `gorm:"column:category;not null" json:"category"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items []*SpecialListItem `gorm:"foreignKey:SpecialListID;references:ID" json:"items,omitempty"`
	Tags  []*Tag             `gorm:"many2many:special_list_tags" json:"tags,omitempty"`
}

func (SpecialList) TableName() string { return "special_lists" }
