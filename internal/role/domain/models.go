// Package domain contains persistence models for the role service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is a named bundle of permissions. Platform-level roles grant
// platform-admin standing to their holders.
type Role struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"type:text;not null;uniqueIndex:ux_roles_name" json:"name"`
	Description     string       `gorm:"type:text" json:"description"`
	IsPlatformLevel bool         `gorm:"column:is_platform_level;not null;default:false" json:"is_platform_level"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Role) TableName() string { return "roles" }

// RolePermission links a role to a granted permission.
type RolePermission struct {
	RoleID       snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"role_id"`
	PermissionID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"permission_id"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (RolePermission) TableName() string { return "role_permissions" }
