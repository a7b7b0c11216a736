// Package domain contains persistence models for the user service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is an account inside one organization. A nil OrganizationID marks a
// platform-level account that belongs to no tenant.
type User struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Username       string       `gorm:"type:text;not null;uniqueIndex:ux_users_org_username,priority:2" json:"username"`
	Email          string       `gorm:"type:text" json:"email"`
	Name           string       `gorm:"type:text" json:"name"`
	PasswordHash   string       `gorm:"type:text;not null;column:password_hash" json:"-"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	OrganizationID *string      `gorm:"type:text;index;uniqueIndex:ux_users_org_username,priority:1" json:"organization_id"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// UserRole links a user to a held role.
type UserRole struct {
	UserID    snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	RoleID    snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"role_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UserRole) TableName() string { return "user_roles" }
