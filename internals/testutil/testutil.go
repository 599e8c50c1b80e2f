// Package testutil holds the shared fixtures the feature test suites use:
// an isolated in-memory database, seeded reference rows, and account
// factories that return ready-to-use bearer tokens.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"leanmaker_backend/internals/configs"
	"leanmaker_backend/internals/constants"
	database "leanmaker_backend/internals/databases"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	authService "leanmaker_backend/internals/features/users/auth/service"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	userModel "leanmaker_backend/internals/features/users/user/model"
)

// OpenDB returns a migrated, seeded database private to the calling test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	if configs.JWTSecret == "" {
		configs.JWTSecret = "test-secret"
		configs.JWTRefreshSecret = "test-refresh-secret"
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	seedProjectStatuses(t, db)
	return db
}

func seedProjectStatuses(t *testing.T, db *gorm.DB) {
	t.Helper()
	names := []string{
		catalogModel.StatusDraft, catalogModel.StatusPublished,
		catalogModel.StatusActive, catalogModel.StatusInProgress,
		catalogModel.StatusPaused, catalogModel.StatusCompleted,
		catalogModel.StatusCancelled, catalogModel.StatusDeleted,
	}
	for _, name := range names {
		require.NoError(t, db.Create(&catalogModel.ProjectStatusModel{Name: name}).Error)
	}
}

// StatusID resolves a seeded project status name.
func StatusID(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	var status catalogModel.ProjectStatusModel
	require.NoError(t, db.Where("name = ?", name).First(&status).Error)
	return status.ID
}

// NewUser creates an active account and returns it with a signed access token.
func NewUser(t *testing.T, db *gorm.DB, role, email string) (*userModel.UserModel, string) {
	t.Helper()
	user := &userModel.UserModel{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("secret1234"))
	require.NoError(t, db.Create(user).Error)

	access, _, err := authService.IssueTokenPair(db, user, "go-test", "127.0.0.1")
	require.NoError(t, err)
	return user, access
}

// NewStudent creates a student account with an approved profile.
func NewStudent(t *testing.T, db *gorm.DB, email string) (*studentModel.StudentProfileModel, string) {
	t.Helper()
	user, token := NewUser(t, db, constants.RoleStudent, email)
	profile := &studentModel.StudentProfileModel{
		UserID:   user.ID,
		Career:   "Ingeniería Informática",
		Status:   studentModel.StatusApproved,
		APILevel: 1,
	}
	require.NoError(t, db.Create(profile).Error)
	profile.User = user
	return profile, token
}

// NewCompany creates a company account with an active profile.
func NewCompany(t *testing.T, db *gorm.DB, email string) (*companyModel.CompanyProfileModel, string) {
	t.Helper()
	user, token := NewUser(t, db, constants.RoleCompany, email)
	profile := &companyModel.CompanyProfileModel{
		UserID:       user.ID,
		CompanyName:  "Test SpA " + uuid.NewString()[:8],
		RUT:          uuid.NewString()[:12],
		CompanyEmail: "contacto+" + email,
		Status:       companyModel.StatusActive,
	}
	require.NoError(t, db.Create(profile).Error)
	profile.User = user
	return profile, token
}

// NewProject creates a project for the company in the given status.
func NewProject(t *testing.T, db *gorm.DB, companyID uuid.UUID, statusName string, maxStudents int) *projectModel.ProjectModel {
	t.Helper()
	project := &projectModel.ProjectModel{
		CompanyID:   companyID,
		StatusID:    StatusID(t, db, statusName),
		Title:       "Proyecto de prueba",
		Description: "Descripción de prueba.",
		MaxStudents: maxStudents,
		Modality:    projectModel.ModalityRemote,
		MinAPILevel: 1,
	}
	if statusName != catalogModel.StatusDraft {
		now := time.Now()
		project.PublishedAt = &now
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// NewApp builds a Fiber app and lets the caller mount the routes under test
// on its /api group.
func NewApp(register func(api fiber.Router)) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	register(app.Group("/api"))
	return app
}

// NewRequest builds a JSON request with an optional bearer token and body.
func NewRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Request performs a JSON request against the app.
func Request(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	resp, err := app.Test(NewRequest(t, method, path, token, body), -1)
	require.NoError(t, err)
	return resp
}

// DecodeBody unmarshals a JSON response body into a generic map.
func DecodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &out))
	return out
}
