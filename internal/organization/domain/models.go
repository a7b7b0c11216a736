// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Organization represents a tenant. Its id is a stable client-visible string
// such as "org_1", not a numeric row id.
type Organization struct {
	ID        string            `gorm:"primaryKey;type:text" json:"id"`
	Name      string            `gorm:"type:text;not null;uniqueIndex:ux_organizations_name" json:"name"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
