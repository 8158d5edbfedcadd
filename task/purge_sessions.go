package task

import (
	"time"

	"arena-app/database"
	"arena-app/logger"
	"arena-app/models"
)

// PurgeExpiredSessions deletes session rows past their expiry.
func PurgeExpiredSessions() {
	result := database.DB.
		Where("expires_at < ?", time.Now()).
		Delete(&models.Session{})

	if result.Error != nil {
		logger.Error("failed to purge expired sessions: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Info("purged %d expired sessions", result.RowsAffected)
	}
}
