package server

import (
	"context"
	"encoding/json"
	"log"

	"concierge/internal/models"
	"concierge/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventNewRequest     = "new_request"
	EventNewMessage     = "new_message"
	EventAdminReply     = "admin_reply"
	EventStatusUpdate   = "status_update"
	EventMessageRead    = "message_read"
	EventRequestDeleted = "request_deleted"
)

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
	observability.RecordRealtimeEvent(eventType)
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
	observability.RecordRealtimeEvent(eventType)
}

// publishNotificationEvents pushes one event per persisted notification row.
// Rows are already in the database, so a dropped push only delays the client
// until its next poll.
func (s *Server) publishNotificationEvents(rows []models.Notification, extra map[string]interface{}) {
	for _, n := range rows {
		payload := map[string]interface{}{
			"notification_id": n.ID,
			"content":         n.Content,
			"created_at":      n.CreatedAt,
		}
		if n.RequestID != nil {
			payload["request_id"] = *n.RequestID
		}
		for k, v := range extra {
			payload[k] = v
		}
		s.publishUserEvent(n.RecipientUserID, string(n.Type), payload)
	}
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}
}

func userSummaryPtr(user *models.User) map[string]interface{} {
	if user == nil {
		return nil
	}
	return userSummary(*user)
}
