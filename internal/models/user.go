// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role classifies a user's privilege level. The set is closed: legacy mixed-casing
// role strings from older imports must be normalized before they reach this type.
type Role string

const (
	// RoleUser is a regular storefront customer.
	RoleUser Role = "USER"
	// RoleAdmin is a standard administrator.
	RoleAdmin Role = "ADMIN"
	// RoleRootAdmin is the top-level administrator.
	RoleRootAdmin Role = "ROOT_ADMIN"
)

// IsAdminTier reports whether the role carries administrative privileges.
func (r Role) IsAdminTier() bool {
	return r == RoleAdmin || r == RoleRootAdmin
}

// UserStatus represents account lifecycle states.
type UserStatus string

const (
	// UserStatusActive indicates a usable account.
	UserStatusActive UserStatus = "active"
	// UserStatusBlocked indicates an account barred from the API.
	UserStatusBlocked UserStatus = "blocked"
)

// User represents an account in the Concierge application. Rows are written by the
// auth subsystem; this service reads them to resolve ownership and admin status.
// Only the public fields carry JSON tags: users appear in API responses solely as
// embedded owner/sender views, which must not leak account details.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"-"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(20);not null;default:'USER';index" json:"role"`
	Status    UserStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicUser is the subset of user fields safe to embed in API responses.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Public returns the user's public fields.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}
