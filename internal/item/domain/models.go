// Package domain contains persistence models for the item service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Item is a tenant-owned resource. Every row belongs to exactly one
// organization.
type Item struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name           string            `gorm:"type:text;not null" json:"name"`
	Description    string            `gorm:"type:text" json:"description"`
	Price          float64           `gorm:"not null;default:0" json:"price"`
	OrganizationID string            `gorm:"type:text;not null;index" json:"organization_id"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Item) TableName() string { return "items" }
