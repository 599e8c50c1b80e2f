package middlewares

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	opsModel "leanmaker_backend/internals/features/ops/model"
)

// ActivityLogMiddleware records successful mutating requests from
// authenticated users into activity_logs. Reads and failures are skipped
// to keep the table useful as an audit trail rather than an access log.
func ActivityLogMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		if key := c.Get("X-API-Key"); key != "" {
			recordApiUsage(db, c, key, time.Since(start))
		}

		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return err
		}
		if err != nil || c.Response().StatusCode() >= 300 {
			return err
		}

		rawID, _ := c.Locals("user_id").(string)
		userID, parseErr := uuid.Parse(rawID)
		if parseErr != nil {
			return err
		}

		entry := opsModel.ActivityLogModel{
			UserID:    userID,
			Action:    fmt.Sprintf("%s %s", c.Method(), routePath(c)),
			Details:   c.OriginalURL(),
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		}
		if dbErr := db.Create(&entry).Error; dbErr != nil {
			log.Printf("[ERROR] activity log write failed: %v", dbErr)
		}
		return err
	}
}

func recordApiUsage(db *gorm.DB, c *fiber.Ctx, key string, took time.Duration) {
	var apiKey opsModel.ApiKeyModel
	if err := db.Where("key = ? AND is_active = true", key).First(&apiKey).Error; err != nil {
		return
	}
	usage := opsModel.ApiUsageModel{
		ApiKeyID:       apiKey.ID,
		Endpoint:       routePath(c),
		Method:         c.Method(),
		StatusCode:     c.Response().StatusCode(),
		ResponseTimeMs: int(took.Milliseconds()),
	}
	if err := db.Create(&usage).Error; err != nil {
		log.Printf("[ERROR] api usage write failed: %v", err)
		return
	}
	now := time.Now()
	db.Model(&apiKey).Updates(map[string]interface{}{
		"usage_count":  gorm.Expr("usage_count + 1"),
		"last_used_at": now,
	})
}

// routePath prefers the registered pattern (/api/projects/:id/) over the
// concrete URL so identical actions group together.
func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return strings.SplitN(c.OriginalURL(), "?", 2)[0]
}
