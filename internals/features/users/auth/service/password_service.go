// internals/features/users/auth/service/password_service.go
package service

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authDTO "leanmaker_backend/internals/features/users/auth/dto"
	userModel "leanmaker_backend/internals/features/users/user/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

// ChangePassword updates the caller's password after checking the old one.
// Existing sessions stay valid; only refresh tokens are revoked.
// POST /api/users/change-password/
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req authDTO.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	if err := user.CheckPassword(req.OldPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update password")
	}
	if err := db.Model(&user).Update("password", user.Password).Error; err != nil {
		log.Println("[ERROR] change password:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update password")
	}

	if err := RevokeUserRefreshTokens(db, user.ID); err != nil {
		log.Println("[ERROR] revoke refresh after password change:", err)
	}

	return helper.JsonUpdated(c, "password changed", nil)
}
