package models

import "time"

// NotificationType identifies the triggering action of a notification.
type NotificationType string

const (
	// NotificationTypeNewRequest is sent to each admin when a request is created.
	NotificationTypeNewRequest NotificationType = "new_request"
	// NotificationTypeNewMessage is sent to admins when a customer sends a message.
	NotificationTypeNewMessage NotificationType = "new_message"
	// NotificationTypeAdminReply is sent to the request owner when an admin replies.
	NotificationTypeAdminReply NotificationType = "admin_reply"
	// NotificationTypeStatusUpdate is sent to the request owner on a status change.
	NotificationTypeStatusUpdate NotificationType = "status_update"
)

// Notification is a persisted, per-user alert generated as a side effect of
// request/message activity. RequestID is a real foreign key so that deleting a
// request removes its notifications without matching on content text.
type Notification struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	RecipientUserID uint             `gorm:"not null;index" json:"recipient_user_id"`
	RequestID       *uint            `gorm:"index" json:"request_id,omitempty"`
	Type            NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Content         string           `gorm:"type:text;not null" json:"content"`
	IsRead          bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt       time.Time        `json:"created_at"`
}
