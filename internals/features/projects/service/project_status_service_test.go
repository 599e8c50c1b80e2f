package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	applicationModel "leanmaker_backend/internals/features/applications/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	"leanmaker_backend/internals/features/projects/service"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	"leanmaker_backend/internals/testutil"
)

func statusOf(t *testing.T, db *gorm.DB, project *projectModel.ProjectModel) string {
	t.Helper()
	var fresh projectModel.ProjectModel
	require.NoError(t, db.First(&fresh, "id = ?", project.ID).Error)
	name, err := service.StatusName(db, fresh.StatusID)
	require.NoError(t, err)
	return name
}

func TestTransitionHappyPath(t *testing.T) {
	db := testutil.OpenDB(t)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 2)

	for _, target := range []string{
		catalogModel.StatusPublished,
		catalogModel.StatusActive,
		catalogModel.StatusInProgress,
		catalogModel.StatusCompleted,
	} {
		require.NoError(t, service.Transition(db, project, target))
		assert.Equal(t, target, statusOf(t, db, project))
	}

	var fresh projectModel.ProjectModel
	require.NoError(t, db.First(&fresh, "id = ?", project.ID).Error)
	assert.NotNil(t, fresh.PublishedAt)
	assert.NotNil(t, fresh.CompletedAt)
}

func TestTransitionRejectsSkips(t *testing.T) {
	db := testutil.OpenDB(t)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")

	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 1)
	err := service.Transition(db, project, catalogModel.StatusInProgress)
	assert.ErrorIs(t, err, service.ErrBadTransition)

	done := testutil.NewProject(t, db, company.ID, catalogModel.StatusCompleted, 1)
	err = service.Transition(db, done, catalogModel.StatusActive)
	assert.ErrorIs(t, err, service.ErrBadTransition)

	// same-status transition is a no-op, not an error
	assert.NoError(t, service.Transition(db, project, catalogModel.StatusDraft))
}

func TestPauseAndResumeRestorePreviousStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusInProgress, 1)

	require.NoError(t, service.Pause(db, project))
	assert.Equal(t, catalogModel.StatusPaused, statusOf(t, db, project))

	require.NoError(t, service.Resume(db, project))
	assert.Equal(t, catalogModel.StatusInProgress, statusOf(t, db, project))

	var fresh projectModel.ProjectModel
	require.NoError(t, db.First(&fresh, "id = ?", project.ID).Error)
	assert.Nil(t, fresh.PausedFrom)
}

func TestPauseRefusedFromDraft(t *testing.T) {
	db := testutil.OpenDB(t)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 1)

	assert.Error(t, service.Pause(db, project))
}

func TestCompleteCascadesToTeam(t *testing.T) {
	db := testutil.OpenDB(t)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusInProgress, 1)

	application := applicationModel.ApplicationModel{
		ProjectID: project.ID,
		StudentID: student.ID,
		Status:    applicationModel.StatusAccepted,
	}
	require.NoError(t, db.Create(&application).Error)
	assignment := applicationModel.AssignmentModel{
		ApplicationID: application.ID,
		Status:        applicationModel.AssignmentActive,
	}
	require.NoError(t, db.Create(&assignment).Error)

	require.NoError(t, service.Transition(db, project, catalogModel.StatusCompleted))

	var freshApp applicationModel.ApplicationModel
	require.NoError(t, db.First(&freshApp, "id = ?", application.ID).Error)
	assert.Equal(t, applicationModel.StatusCompleted, freshApp.Status)

	var freshAssignment applicationModel.AssignmentModel
	require.NoError(t, db.First(&freshAssignment, "id = ?", assignment.ID).Error)
	assert.Equal(t, applicationModel.AssignmentCompleted, freshAssignment.Status)

	var freshStudent studentModel.StudentProfileModel
	require.NoError(t, db.First(&freshStudent, "id = ?", student.ID).Error)
	assert.Equal(t, 1, freshStudent.CompletedProjects)

	var notes int64
	require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
		Where("recipient_id = ?", student.UserID).Count(&notes).Error)
	assert.Equal(t, int64(1), notes)
}
