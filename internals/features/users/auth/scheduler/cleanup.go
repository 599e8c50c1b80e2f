// internals/features/users/auth/scheduler/cleanup.go
package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	authModel "leanmaker_backend/internals/features/users/auth/model"
)

// StartTokenCleanupScheduler removes expired blacklist entries and refresh
// tokens once a day. Runs until the process exits.
func StartTokenCleanupScheduler(db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		cleanupExpiredTokens(db)
		for range ticker.C {
			cleanupExpiredTokens(db)
		}
	}()
}

func cleanupExpiredTokens(db *gorm.DB) {
	now := time.Now().UTC()

	res := db.Unscoped().
		Where("expired_at < ?", now).
		Delete(&authModel.TokenBlacklist{})
	if res.Error != nil {
		log.Println("[ERROR] blacklist cleanup:", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[INFO] blacklist cleanup removed %d tokens", res.RowsAffected)
	}

	res = db.
		Where("expires_at < ? OR revoked_at IS NOT NULL", now.Add(-24*time.Hour)).
		Delete(&authModel.RefreshToken{})
	if res.Error != nil {
		log.Println("[ERROR] refresh token cleanup:", res.Error)
	}
}
