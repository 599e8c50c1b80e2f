// internals/features/users/user/controller/user_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	teacherModel "leanmaker_backend/internals/features/users/teachers/model"
	userDTO "leanmaker_backend/internals/features/users/user/dto"
	userModel "leanmaker_backend/internals/features/users/user/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

// GetProfile returns the caller's account plus its role profile.
// GET /api/users/profile/
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user userModel.UserModel
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	body := fiber.Map{"user": user}
	attachRoleProfile(uc.DB, &user, body)

	return helper.JsonOK(c, "profile", body)
}

func attachRoleProfile(db *gorm.DB, user *userModel.UserModel, body fiber.Map) {
	switch user.Role {
	case constants.RoleStudent:
		var p studentModel.StudentProfileModel
		if err := db.First(&p, "user_id = ?", user.ID).Error; err == nil {
			body["student_profile"] = p
		}
	case constants.RoleCompany:
		var p companyModel.CompanyProfileModel
		if err := db.First(&p, "user_id = ?", user.ID).Error; err == nil {
			body["company_profile"] = p
		}
	case constants.RoleTeacher:
		var p teacherModel.TeacherProfileModel
		if err := db.First(&p, "user_id = ?", user.ID).Error; err == nil {
			body["teacher_profile"] = p
		}
	}
}

// UpdateProfile patches the caller's basic account fields. Email and role
// never change here.
// PATCH /api/users/profile/
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req userDTO.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := uc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var user userModel.UserModel
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) > 0 {
		if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
		}
	}

	return helper.JsonUpdated(c, "profile updated", user)
}

// ListUsers is the admin user directory with role filter and name/email
// search.
// GET /api/users/
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := uc.DB.Model(&userModel.UserModel{})
	if role := c.Query("role"); role != "" {
		if !constants.IsValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown role filter")
		}
		q = q.Where("role = ?", role)
	}
	if active := c.Query("is_active"); active != "" {
		q = q.Where("is_active = ?", active == "true")
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list users")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list users")
	}

	return helper.JsonList(c, "users", users, helper.BuildPagination(total, paging))
}

// GetUser returns any account with its role profile. Admin only.
// GET /api/users/:id/
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var user userModel.UserModel
	if err := uc.DB.First(&user, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	body := fiber.Map{"user": user}
	attachRoleProfile(uc.DB, &user, body)

	return helper.JsonOK(c, "user", body)
}

// SetUserActive flips is_active. Deactivating does not touch issued tokens;
// the auth middleware rejects inactive users on the next request.
// PATCH /api/users/:id/activate/ and /api/users/:id/deactivate/
func (uc *UserController) SetUserActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
		}

		var user userModel.UserModel
		if err := uc.DB.First(&user, "id = ?", id).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		if user.Role == constants.RoleAdmin {
			return helper.JsonError(c, fiber.StatusForbidden, "Admin accounts cannot be toggled here")
		}

		if user.IsActive != active {
			if err := uc.DB.Model(&user).Update("is_active", active).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update user")
			}
			user.IsActive = active
		}

		msg := "user deactivated"
		if active {
			msg = "user activated"
		}
		return helper.JsonUpdated(c, msg, user)
	}
}
