// internals/features/users/teachers/controller/teacher_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "leanmaker_backend/internals/features/users/students/model"
	teacherDTO "leanmaker_backend/internals/features/users/teachers/dto"
	teacherModel "leanmaker_backend/internals/features/users/teachers/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type TeacherController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{DB: db, Validate: validator.New()}
}

func (tc *TeacherController) findOwnProfile(c *fiber.Ctx) (*teacherModel.TeacherProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var profile teacherModel.TeacherProfileModel
	if err := tc.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GET /api/teachers/me/
func (tc *TeacherController) GetMyProfile(c *fiber.Ctx) error {
	profile, err := tc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}
	return helper.JsonOK(c, "teacher profile", profile)
}

// PATCH /api/teachers/me/
func (tc *TeacherController) UpdateMyProfile(c *fiber.Ctx) error {
	profile, err := tc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}

	var req teacherDTO.UpdateTeacherProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := tc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	updates := map[string]any{}
	if req.Department != nil {
		updates["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		updates["position"] = strings.TrimSpace(*req.Position)
	}
	if len(updates) > 0 {
		if err := tc.DB.Model(profile).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
		}
	}

	if err := tc.DB.First(profile, "id = ?", profile.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
	}
	return helper.JsonUpdated(c, "teacher profile updated", profile)
}

// ListTeachers is the admin teacher directory.
// GET /api/teachers/
func (tc *TeacherController) ListTeachers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := tc.DB.Model(&teacherModel.TeacherProfileModel{}).Preload("User")
	if dept := strings.TrimSpace(c.Query("department")); dept != "" {
		q = q.Where("LOWER(department) LIKE ?", "%"+strings.ToLower(dept)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list teachers")
	}

	var teachers []teacherModel.TeacherProfileModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&teachers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list teachers")
	}

	return helper.JsonList(c, "teachers", teachers, helper.BuildPagination(total, paging))
}

// ListMyStudents returns the student profiles the calling teacher supervises.
// GET /api/teachers/me/students/
func (tc *TeacherController) ListMyStudents(c *fiber.Ctx) error {
	profile, err := tc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}
	paging := helper.ResolvePaging(c)

	base := tc.DB.Model(&studentModel.StudentProfileModel{}).
		Joins("JOIN teacher_supervisions ts ON ts.student_id = student_profiles.id").
		Where("ts.teacher_id = ?", profile.ID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list students")
	}

	var students []studentModel.StudentProfileModel
	if err := base.Preload("User").Order("student_profiles.created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list students")
	}

	return helper.JsonList(c, "supervised students", students, helper.BuildPagination(total, paging))
}

// AssignSupervision links a teacher to a student. Admin only, idempotent.
// POST /api/teachers/supervisions/
func (tc *TeacherController) AssignSupervision(c *fiber.Ctx) error {
	var req teacherDTO.AssignSupervisionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := tc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	teacherID, _ := uuid.Parse(req.TeacherID)
	studentID, _ := uuid.Parse(req.StudentID)

	var teacher teacherModel.TeacherProfileModel
	if err := tc.DB.First(&teacher, "id = ?", teacherID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}
	var student studentModel.StudentProfileModel
	if err := tc.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	var existing teacherModel.SupervisionModel
	err := tc.DB.First(&existing, "teacher_id = ? AND student_id = ?", teacherID, studentID).Error
	if err == nil {
		return helper.JsonOK(c, "supervision already exists", existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not assign supervision")
	}

	supervision := teacherModel.SupervisionModel{TeacherID: teacherID, StudentID: studentID}
	if err := tc.DB.Create(&supervision).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not assign supervision")
	}

	return helper.JsonCreated(c, "supervision assigned", supervision)
}

// RemoveSupervision unlinks a teacher from a student. Admin only.
// DELETE /api/teachers/supervisions/:id/
func (tc *TeacherController) RemoveSupervision(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid supervision id")
	}

	res := tc.DB.Delete(&teacherModel.SupervisionModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not remove supervision")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Supervision not found")
	}

	return helper.JsonDeleted(c, "supervision removed", nil)
}
