// internals/features/dashboard/controller/dashboard_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	applicationModel "leanmaker_backend/internals/features/applications/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	evaluationModel "leanmaker_backend/internals/features/evaluations/model"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	strikeModel "leanmaker_backend/internals/features/strikes/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	userModel "leanmaker_backend/internals/features/users/user/model"
	workHourModel "leanmaker_backend/internals/features/work_hours/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

// Number of months covered by the activity series.
const activityMonths = 6

// Number of students on the admin leaderboard.
const topStudentLimit = 5

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

func count(db *gorm.DB, model any, query string, args ...any) int64 {
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0
	}
	return n
}

func distinctCount(db *gorm.DB, model any, column string, query string, args ...any) int64 {
	var n int64
	if err := db.Model(model).Where(query, args...).Distinct(column).Count(&n).Error; err != nil {
		return 0
	}
	return n
}

// statusIDs resolves project status names to a reusable id subquery.
func (dc *DashboardController) statusIDs(names ...string) *gorm.DB {
	return dc.DB.Table("project_statuses").Select("id").Where("name IN ?", names)
}

type monthlyPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type monthSample struct {
	At    time.Time
	Value float64
}

// monthlySeries buckets samples into the last n calendar months, oldest
// first. Months without samples read as zeros.
func monthlySeries(samples []monthSample, n int) []monthlyPoint {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

	totals := make([]float64, n)
	for _, s := range samples {
		at := s.At.UTC()
		idx := (at.Year()-start.Year())*12 + int(at.Month()) - int(start.Month())
		if idx >= 0 && idx < n {
			totals[idx] += s.Value
		}
	}

	out := make([]monthlyPoint, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, monthlyPoint{
			Month: start.AddDate(0, i, 0).Format("2006-01"),
			Value: totals[i],
		})
	}
	return out
}

// Admin returns the platform-wide counters. Empty tables read as zeros.
// GET /api/dashboard/admin/
func (dc *DashboardController) Admin(c *fiber.Ctx) error {
	// running projects plus published ones that already took students
	activeProjects := count(dc.DB, &projectModel.ProjectModel{},
		"status_id IN (?) OR (status_id IN (?) AND current_students > 0)",
		dc.statusIDs(catalogModel.StatusActive, catalogModel.StatusInProgress),
		dc.statusIDs(catalogModel.StatusPublished))

	type topStudent struct {
		StudentID  uuid.UUID `json:"student_id"`
		TotalHours float64   `json:"total_hours"`
	}
	topStudents := make([]topStudent, 0, topStudentLimit)
	if err := dc.DB.Model(&studentModel.StudentProfileModel{}).
		Select("id AS student_id, total_hours").
		Where("total_hours > 0").
		Order("total_hours DESC").
		Limit(topStudentLimit).
		Scan(&topStudents).Error; err != nil {
		topStudents = topStudents[:0]
	}

	stats := fiber.Map{
		"total_users":        count(dc.DB, &userModel.UserModel{}, ""),
		"active_users":       count(dc.DB, &userModel.UserModel{}, "is_active = ?", true),
		"total_students":     count(dc.DB, &studentModel.StudentProfileModel{}, ""),
		"approved_students":  count(dc.DB, &studentModel.StudentProfileModel{}, "status = ?", studentModel.StatusApproved),
		"suspended_students": count(dc.DB, &studentModel.StudentProfileModel{}, "status = ?", studentModel.StatusSuspended),
		"total_companies":    count(dc.DB, &companyModel.CompanyProfileModel{}, ""),
		"active_companies":   count(dc.DB, &companyModel.CompanyProfileModel{}, "status = ?", companyModel.StatusActive),
		"total_projects":     count(dc.DB, &projectModel.ProjectModel{}, ""),
		"active_projects":    activeProjects,
		"total_applications": count(dc.DB, &applicationModel.ApplicationModel{}, ""),
		"pending_applications": count(dc.DB, &applicationModel.ApplicationModel{},
			"status = ?", applicationModel.StatusPending),
		"active_strikes":       count(dc.DB, &strikeModel.StrikeModel{}, "is_active = ?", true),
		"pending_work_hours":   count(dc.DB, &workHourModel.WorkHourModel{}, "approved = ? AND rejected = ?", false, false),
		"pending_api_requests": count(dc.DB, &studentModel.APILevelRequestModel{}, "status = ?", "pending"),
		"unsent_notifications": count(dc.DB, &notificationModel.MassNotificationModel{}, "status = ?", notificationModel.MassDraft),
		"top_students":         topStudents,
	}
	return helper.JsonOK(c, "admin dashboard", stats)
}

// Company summarizes the calling company's pipeline.
// GET /api/dashboard/company/
func (dc *DashboardController) Company(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var company companyModel.CompanyProfileModel
	if err := dc.DB.First(&company, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
	}

	projectIDs := func() *gorm.DB {
		return dc.DB.Table("projects").Select("id").Where("company_id = ?", company.ID)
	}

	var statusSplit []struct {
		Name string
		N    int64
	}
	projectsByStatus := fiber.Map{}
	if err := dc.DB.Table("projects").
		Select("project_statuses.name AS name, COUNT(*) AS n").
		Joins("JOIN project_statuses ON project_statuses.id = projects.status_id").
		Where("projects.company_id = ?", company.ID).
		Group("project_statuses.name").
		Scan(&statusSplit).Error; err == nil {
		for _, s := range statusSplit {
			projectsByStatus[s.Name] = s.N
		}
	}

	var areaSplit []struct {
		Name string
		N    int64
	}
	areaDistribution := fiber.Map{}
	if err := dc.DB.Table("projects").
		Select("areas.name AS name, COUNT(*) AS n").
		Joins("JOIN areas ON areas.id = projects.area_id").
		Where("projects.company_id = ?", company.ID).
		Group("areas.name").
		Scan(&areaSplit).Error; err == nil {
		for _, a := range areaSplit {
			areaDistribution[a.Name] = a.N
		}
	}

	// students on this company's completed projects the company has not
	// evaluated yet
	completedIDs := func() *gorm.DB {
		return dc.DB.Table("projects").Select("projects.id").
			Where("projects.company_id = ? AND projects.status_id IN (?)",
				company.ID, dc.statusIDs(catalogModel.StatusCompleted))
	}
	evaluationsPending := distinctCount(dc.DB, &applicationModel.ApplicationModel{}, "student_id",
		"project_id IN (?) AND status IN ? AND student_id NOT IN (?)",
		completedIDs(),
		[]string{applicationModel.StatusAccepted, applicationModel.StatusCompleted},
		dc.DB.Table("evaluations").Select("student_id").
			Where("project_id IN (?) AND direction = ?",
				completedIDs(), evaluationModel.DirectionCompanyToStudent))

	var applied []monthSample
	var appliedAt []time.Time
	since := time.Now().UTC().AddDate(0, -activityMonths, 0)
	if err := dc.DB.Model(&applicationModel.ApplicationModel{}).
		Where("project_id IN (?) AND applied_at >= ?", projectIDs(), since).
		Pluck("applied_at", &appliedAt).Error; err == nil {
		for _, at := range appliedAt {
			applied = append(applied, monthSample{At: at, Value: 1})
		}
	}

	stats := fiber.Map{
		"total_projects":     company.TotalProjects,
		"projects_by_status": projectsByStatus,
		"projects_completed": company.ProjectsCompleted,
		"rating":             company.Rating,
		"total_hours":        company.TotalHoursOffered,
		"total_applications": count(dc.DB, &applicationModel.ApplicationModel{}, "project_id IN (?)", projectIDs()),
		"pending_applications": count(dc.DB, &applicationModel.ApplicationModel{},
			"project_id IN (?) AND status = ?", projectIDs(), applicationModel.StatusPending),
		"accepted_students": distinctCount(dc.DB, &applicationModel.ApplicationModel{}, "student_id",
			"project_id IN (?) AND status = ?", projectIDs(), applicationModel.StatusAccepted),
		"evaluations_pending": evaluationsPending,
		"area_distribution":   areaDistribution,
		"unapproved_hours": count(dc.DB, &workHourModel.WorkHourModel{},
			"company_id = ? AND approved = ? AND rejected = ?", company.ID, false, false),
		"monthly_applications": monthlySeries(applied, activityMonths),
	}
	return helper.JsonOK(c, "company dashboard", stats)
}

// Student summarizes the calling student's standing.
// GET /api/dashboard/student/
func (dc *DashboardController) Student(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var student studentModel.StudentProfileModel
	if err := dc.DB.First(&student, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}

	// same filters the available-projects listing applies
	availableProjects := count(dc.DB, &projectModel.ProjectModel{},
		"status_id IN (?) AND current_students < max_students AND min_api_level <= ? AND id NOT IN (?)",
		dc.statusIDs(catalogModel.StatusPublished), student.APILevel,
		dc.DB.Table("applications").Select("project_id").Where("student_id = ?", student.ID))

	since := time.Now().UTC().AddDate(0, -activityMonths, 0)

	var applied []monthSample
	var appliedAt []time.Time
	if err := dc.DB.Model(&applicationModel.ApplicationModel{}).
		Where("student_id = ? AND applied_at >= ?", student.ID, since).
		Pluck("applied_at", &appliedAt).Error; err == nil {
		for _, at := range appliedAt {
			applied = append(applied, monthSample{At: at, Value: 1})
		}
	}

	var hours []monthSample
	var entries []workHourModel.WorkHourModel
	if err := dc.DB.
		Where("student_id = ? AND approved = ? AND date >= ?", student.ID, true, since).
		Find(&entries).Error; err == nil {
		for _, e := range entries {
			hours = append(hours, monthSample{At: e.Date, Value: e.HoursWorked})
		}
	}

	stats := fiber.Map{
		"status":             student.Status,
		"api_level":          student.APILevel,
		"strikes":            student.Strikes,
		"gpa":                student.GPA,
		"completed_projects": student.CompletedProjects,
		"total_hours":        student.TotalHours,
		"available_projects": availableProjects,
		"total_applications": count(dc.DB, &applicationModel.ApplicationModel{}, "student_id = ?", student.ID),
		"active_applications": count(dc.DB, &applicationModel.ApplicationModel{},
			"student_id = ? AND status IN ?", student.ID,
			[]string{applicationModel.StatusPending, applicationModel.StatusReviewing, applicationModel.StatusInterviewed}),
		"accepted_applications": count(dc.DB, &applicationModel.ApplicationModel{},
			"student_id = ? AND status = ?", student.ID, applicationModel.StatusAccepted),
		"unread_notifications": count(dc.DB, &notificationModel.NotificationModel{},
			"recipient_id = ? AND read = ? AND archived = ?", userID, false, false),
		"monthly_applications": monthlySeries(applied, activityMonths),
		"monthly_hours":        monthlySeries(hours, activityMonths),
	}
	return helper.JsonOK(c, "student dashboard", stats)
}

// Me routes the caller to their role's dashboard.
// GET /api/dashboard/me/
func (dc *DashboardController) Me(c *fiber.Ctx) error {
	switch authMid.GetUserRole(c) {
	case constants.RoleAdmin:
		return dc.Admin(c)
	case constants.RoleCompany:
		return dc.Company(c)
	case constants.RoleStudent:
		return dc.Student(c)
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "No dashboard for this role")
	}
}
