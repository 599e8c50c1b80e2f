package database

import (
	"gorm.io/gorm"

	applicationModel "leanmaker_backend/internals/features/applications/model"
	calendarModel "leanmaker_backend/internals/features/calendar/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	evaluationModel "leanmaker_backend/internals/features/evaluations/model"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	opsModel "leanmaker_backend/internals/features/ops/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	strikeModel "leanmaker_backend/internals/features/strikes/model"
	authModel "leanmaker_backend/internals/features/users/auth/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	teacherModel "leanmaker_backend/internals/features/users/teachers/model"
	userModel "leanmaker_backend/internals/features/users/user/model"
	workHourModel "leanmaker_backend/internals/features/work_hours/model"
)

// AutoMigrate creates or updates every table the API touches. Parent tables
// go first so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},

		&catalogModel.AreaModel{},
		&catalogModel.TRLLevelModel{},
		&catalogModel.ProjectStatusModel{},
		&catalogModel.EvaluationCategoryModel{},
		&catalogModel.PlatformSettingModel{},

		&studentModel.StudentProfileModel{},
		&studentModel.APILevelRequestModel{},
		&companyModel.CompanyProfileModel{},
		&teacherModel.TeacherProfileModel{},
		&teacherModel.SupervisionModel{},

		&projectModel.ProjectModel{},
		&applicationModel.ApplicationModel{},
		&applicationModel.AssignmentModel{},
		&applicationModel.InterviewModel{},
		&workHourModel.WorkHourModel{},
		&evaluationModel.EvaluationModel{},
		&strikeModel.StrikeModel{},
		&strikeModel.DisciplinaryRecordModel{},

		&notificationModel.NotificationModel{},
		&notificationModel.MassNotificationModel{},
		&notificationModel.MassNotificationTargetModel{},
		&notificationModel.EventRegistrationModel{},

		&calendarModel.CalendarEventModel{},
		&calendarModel.CalendarEventAttendeeModel{},
		&calendarModel.EventReminderModel{},

		&opsModel.ActivityLogModel{},
		&opsModel.ApiKeyModel{},
		&opsModel.ApiUsageModel{},
		&opsModel.ApiRateLimitModel{},
		&opsModel.BackupModel{},
		&opsModel.ReportModel{},
	)
}
