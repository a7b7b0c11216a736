// Package domain contains persistence models for the permission catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Permission names follow the "action:resource" convention, for example
// "read:items". Platform-level permissions are hidden from tenant callers.
type Permission struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"type:text;not null;uniqueIndex:ux_permissions_name" json:"name"`
	Description     string       `gorm:"type:text" json:"description"`
	IsPlatformLevel bool         `gorm:"column:is_platform_level;not null;default:false" json:"is_platform_level"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Permission) TableName() string { return "permissions" }
