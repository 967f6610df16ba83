package repo

import (
	"errors"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMissingIdentifier = errors.New("either userId or workspaceId must be provided")

// WorkspaceLookup addresses a workspace by its id, or by its owner when no id
// is known yet.
type WorkspaceLookup struct {
	WorkspaceID uuid.UUID
	UserID      uuid.UUID
}

type WorkspaceRepo struct {
	db *gorm.DB
}

type WorkspaceRepoInterface interface {
	Create(workspace *models.Workspace) error
	Get(lookup WorkspaceLookup) (*models.Workspace, error)
	ListByUser(userID uuid.UUID) ([]models.Workspace, error)
	SaveStep(lookup WorkspaceLookup, fields map[string]interface{}, nextStep int) error
	MarkOnboardingComplete(lookup WorkspaceLookup) error
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepoInterface {
	return &WorkspaceRepo{db: db}
}

func (r *WorkspaceRepo) Create(workspace *models.Workspace) error {
	if workspace.ID == uuid.Nil {
		workspace.ID = uuid.New()
	}
	if workspace.CurrentStep == 0 {
		workspace.CurrentStep = 1
	}
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = time.Now()
	return r.db.Create(workspace).Error
}

// scope narrows a query to the workspace the lookup points at.
func (r *WorkspaceRepo) scope(lookup WorkspaceLookup) (*gorm.DB, error) {
	query := r.db.Model(&models.Workspace{})
	switch {
	case lookup.WorkspaceID != uuid.Nil:
		return query.Where("id = ?", lookup.WorkspaceID), nil
	case lookup.UserID != uuid.Nil:
		return query.Where("user_id = ?", lookup.UserID), nil
	default:
		return nil, ErrMissingIdentifier
	}
}

// Get returns the addressed workspace. A user lookup picks the most recently
// created workspace of that user.
func (r *WorkspaceRepo) Get(lookup WorkspaceLookup) (*models.Workspace, error) {
	query, err := r.scope(lookup)
	if err != nil {
		return nil, err
	}

	var workspace models.Workspace
	if err := query.Order("created_at desc").First(&workspace).Error; err != nil {
		return nil, notFound(err, "get workspace")
	}
	return &workspace, nil
}

func (r *WorkspaceRepo) ListByUser(userID uuid.UUID) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&workspaces).Error
	return workspaces, err
}

// SaveStep applies a partial update and moves current_step to nextStep.
func (r *WorkspaceRepo) SaveStep(lookup WorkspaceLookup, fields map[string]interface{}, nextStep int) error {
	query, err := r.scope(lookup)
	if err != nil {
		return err
	}

	updates := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		updates[k] = v
	}
	updates["current_step"] = nextStep
	updates["updated_at"] = time.Now()

	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "save workspace step")
	}
	return nil
}

func (r *WorkspaceRepo) MarkOnboardingComplete(lookup WorkspaceLookup) error {
	query, err := r.scope(lookup)
	if err != nil {
		return err
	}
	result := query.Updates(map[string]interface{}{
		"onboarding_complete": true,
		"updated_at":          time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "complete onboarding")
	}
	return nil
}
