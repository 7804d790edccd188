package database

import "concierge/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Request{},
		&models.Message{},
		&models.Notification{},
	}
}
