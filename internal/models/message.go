package models

import "time"

// Message is a chat entry attached to a Request, authored by the request owner
// or an admin. Message rows are removed in bulk when the parent request is deleted.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequestID   uint      `gorm:"not null;index" json:"request_id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	MessageType string    `gorm:"size:40;not null;default:'text'" json:"message_type"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
