// internals/features/strikes/service/strike_service.go
package service

import (
	"time"

	"gorm.io/gorm"

	strikeModel "leanmaker_backend/internals/features/strikes/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
)

// SyncStrikeCount recounts the active, unexpired strikes, mirrors the count
// on the profile and flips the suspension both ways. Callers that gate on
// the suspension should use the returned count rather than the stale
// mirror, since a strike can expire between strike events.
func SyncStrikeCount(tx *gorm.DB, student *studentModel.StudentProfileModel) (int, error) {
	var count int64
	err := tx.Model(&strikeModel.StrikeModel{}).
		Where("student_id = ? AND is_active = ?", student.ID, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	updates := map[string]any{"strikes": count}
	switch {
	case count >= studentModel.SuspensionThreshold && student.Status != studentModel.StatusSuspended:
		updates["status"] = studentModel.StatusSuspended
	case count < studentModel.SuspensionThreshold && student.Status == studentModel.StatusSuspended:
		updates["status"] = studentModel.StatusApproved
	}
	if err := tx.Model(&studentModel.StudentProfileModel{}).
		Where("id = ?", student.ID).
		Updates(updates).Error; err != nil {
		return 0, err
	}

	student.Strikes = int(count)
	if status, ok := updates["status"]; ok {
		student.Status = status.(string)
	}
	return int(count), nil
}
