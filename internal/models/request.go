package models

import "time"

// RequestStatus is an open string set, not a fixed enum: admins may set any
// non-empty value. The constants below cover the statuses the UI knows about.
type RequestStatus string

const (
	// RequestStatusPending indicates the request is awaiting review.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved indicates the request was accepted.
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected indicates the request was denied.
	RequestStatusRejected RequestStatus = "rejected"
	// RequestStatusClosed indicates the request was completed or abandoned.
	RequestStatusClosed RequestStatus = "closed"
)

// Request is a user-submitted support/project request tracked through a status lifecycle.
type Request struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OwnerUserID uint          `gorm:"not null;index" json:"owner_user_id"`
	Owner       *User         `gorm:"foreignKey:OwnerUserID" json:"owner,omitempty"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Status      RequestStatus `gorm:"type:varchar(40);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
