// internals/features/projects/service/project_status_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationModel "leanmaker_backend/internals/features/applications/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
)

var ErrBadTransition = errors.New("status transition not allowed")

// StatusRef resolves a seeded project status row by name.
func StatusRef(tx *gorm.DB, name string) (*catalogModel.ProjectStatusModel, error) {
	var status catalogModel.ProjectStatusModel
	if err := tx.First(&status, "name = ?", name).Error; err != nil {
		return nil, fmt.Errorf("project status %q not seeded: %w", name, err)
	}
	return &status, nil
}

// StatusName resolves the name behind a status id.
func StatusName(tx *gorm.DB, id uuid.UUID) (string, error) {
	var status catalogModel.ProjectStatusModel
	if err := tx.First(&status, "id = ?", id).Error; err != nil {
		return "", err
	}
	return status.Name, nil
}

// allowedTransitions maps a current status name to the names it may move to
// through the plain transition endpoints. Pause and resume are handled
// separately because resume needs the remembered previous status.
var allowedTransitions = map[string][]string{
	catalogModel.StatusDraft:      {catalogModel.StatusPublished, catalogModel.StatusCancelled, catalogModel.StatusDeleted},
	catalogModel.StatusPublished:  {catalogModel.StatusActive, catalogModel.StatusCancelled, catalogModel.StatusDeleted},
	catalogModel.StatusActive:     {catalogModel.StatusInProgress, catalogModel.StatusCompleted, catalogModel.StatusCancelled},
	catalogModel.StatusInProgress: {catalogModel.StatusCompleted, catalogModel.StatusCancelled},
	catalogModel.StatusCancelled:  {catalogModel.StatusDeleted},
	catalogModel.StatusCompleted:  {catalogModel.StatusDeleted},
	catalogModel.StatusPaused:     {catalogModel.StatusCancelled},
	catalogModel.StatusDeleted:    {catalogModel.StatusDraft},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition moves a project to the named status inside one transaction,
// applying the side effects each target status carries.
func Transition(db *gorm.DB, project *projectModel.ProjectModel, target string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		current, err := StatusName(tx, project.StatusID)
		if err != nil {
			return err
		}
		if current == target {
			return nil
		}
		if !transitionAllowed(current, target) {
			return fmt.Errorf("%w: %s -> %s", ErrBadTransition, current, target)
		}

		ref, err := StatusRef(tx, target)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{"status_id": ref.ID, "paused_from": nil}
		switch target {
		case catalogModel.StatusPublished:
			updates["published_at"] = now
		case catalogModel.StatusCompleted:
			updates["completed_at"] = now
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			return err
		}
		project.StatusID = ref.ID
		project.PausedFrom = nil

		if target == catalogModel.StatusCompleted {
			return completeProjectCascade(tx, project, now)
		}
		return nil
	})
}

// Pause remembers the current status so Resume can restore it.
func Pause(db *gorm.DB, project *projectModel.ProjectModel) error {
	return db.Transaction(func(tx *gorm.DB) error {
		current, err := StatusName(tx, project.StatusID)
		if err != nil {
			return err
		}
		switch current {
		case catalogModel.StatusPublished, catalogModel.StatusActive, catalogModel.StatusInProgress:
		case catalogModel.StatusPaused:
			return nil
		default:
			return fmt.Errorf("%w: %s -> %s", ErrBadTransition, current, catalogModel.StatusPaused)
		}

		ref, err := StatusRef(tx, catalogModel.StatusPaused)
		if err != nil {
			return err
		}
		if err := tx.Model(project).Updates(map[string]any{
			"status_id":   ref.ID,
			"paused_from": current,
		}).Error; err != nil {
			return err
		}
		project.StatusID = ref.ID
		project.PausedFrom = &current
		return nil
	})
}

// Resume restores the status the project was paused from.
func Resume(db *gorm.DB, project *projectModel.ProjectModel) error {
	return db.Transaction(func(tx *gorm.DB) error {
		current, err := StatusName(tx, project.StatusID)
		if err != nil {
			return err
		}
		if current != catalogModel.StatusPaused {
			return fmt.Errorf("%w: project is not paused", ErrBadTransition)
		}

		previous := catalogModel.StatusPublished
		if project.PausedFrom != nil && *project.PausedFrom != "" {
			previous = *project.PausedFrom
		}
		ref, err := StatusRef(tx, previous)
		if err != nil {
			return err
		}
		if err := tx.Model(project).Updates(map[string]any{
			"status_id":   ref.ID,
			"paused_from": nil,
		}).Error; err != nil {
			return err
		}
		project.StatusID = ref.ID
		project.PausedFrom = nil
		return nil
	})
}

// completeProjectCascade closes out the accepted applications, bumps the
// per-student and per-company completion counters and notifies the
// students. Runs inside the completing transaction.
func completeProjectCascade(tx *gorm.DB, project *projectModel.ProjectModel, now time.Time) error {
	var accepted []applicationModel.ApplicationModel
	if err := tx.
		Where("project_id = ? AND status = ?", project.ID, applicationModel.StatusAccepted).
		Find(&accepted).Error; err != nil {
		return err
	}

	for i := range accepted {
		app := &accepted[i]
		if err := tx.Model(app).Update("status", applicationModel.StatusCompleted).Error; err != nil {
			return err
		}
		if err := tx.Model(&applicationModel.AssignmentModel{}).
			Where("application_id = ? AND status = ?", app.ID, applicationModel.AssignmentActive).
			Update("status", applicationModel.AssignmentCompleted).Error; err != nil {
			return err
		}
		if err := tx.Model(&studentModel.StudentProfileModel{}).
			Where("id = ?", app.StudentID).
			Update("completed_projects", gorm.Expr("completed_projects + 1")).Error; err != nil {
			return err
		}

		var student studentModel.StudentProfileModel
		if err := tx.First(&student, "id = ?", app.StudentID).Error; err != nil {
			return err
		}
		note := notificationModel.NotificationModel{
			RecipientID:   student.UserID,
			Title:         "Project completed",
			Message:       fmt.Sprintf("The project %q has been marked as completed.", project.Title),
			Type:          notificationModel.TypeSuccess,
			Priority:      "normal",
			ProjectID:     &project.ID,
			ApplicationID: &app.ID,
			CreatedAt:     now,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
	}

	return tx.Model(&companyModel.CompanyProfileModel{}).
		Where("id = ?", project.CompanyID).
		Update("projects_completed", gorm.Expr("projects_completed + 1")).Error
}
