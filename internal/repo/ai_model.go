package repo

import (
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AIModelRepo struct {
	db *gorm.DB
}

type AIModelRepoInterface interface {
	Create(model *models.AIModel) error
	Resolve(id uuid.UUID, workspaceID uuid.UUID) (*models.AIModel, error)
	ListForWorkspace(workspaceID uuid.UUID) ([]models.AIModel, error)
}

func NewAIModelRepository(db *gorm.DB) AIModelRepoInterface {
	return &AIModelRepo{db: db}
}

func (r *AIModelRepo) Create(model *models.AIModel) error {
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	model.CreatedAt = time.Now()
	model.UpdatedAt = time.Now()
	return r.db.Create(model).Error
}

// visibleTo scopes a query to active personas owned by the workspace or shared
// globally.
func (r *AIModelRepo) visibleTo(workspaceID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.AIModel{}).
		Where("is_active = ?", true).
		Where("workspace_id = ? OR workspace_id IS NULL", workspaceID)
}

func (r *AIModelRepo) Resolve(id uuid.UUID, workspaceID uuid.UUID) (*models.AIModel, error) {
	var candidates []models.AIModel
	if err := r.visibleTo(workspaceID).Where("id = ?", id).Find(&candidates).Error; err != nil {
		return nil, notFound(err, "resolve ai model")
	}

	model := PreferWorkspaceScoped(candidates, workspaceID)
	if model == nil {
		return nil, notFound(gorm.ErrRecordNotFound, "resolve ai model")
	}
	return model, nil
}

// ListForWorkspace returns the personas a workspace can talk to. When a
// workspace has its own copy of a global persona (same name) only the copy is
// returned.
func (r *AIModelRepo) ListForWorkspace(workspaceID uuid.UUID) ([]models.AIModel, error) {
	var all []models.AIModel
	if err := r.visibleTo(workspaceID).Order("created_at asc").Find(&all).Error; err != nil {
		return nil, err
	}
	return DedupeByName(all, workspaceID), nil
}

// PreferWorkspaceScoped picks the first row owned by the workspace, falling
// back to the first global row. Rows owned by other workspaces are ignored.
func PreferWorkspaceScoped(candidates []models.AIModel, workspaceID uuid.UUID) *models.AIModel {
	for i := range candidates {
		if ws := candidates[i].WorkspaceID; ws != nil && *ws == workspaceID {
			return &candidates[i]
		}
	}
	for i := range candidates {
		if candidates[i].IsGlobal() {
			return &candidates[i]
		}
	}
	return nil
}

// DedupeByName keeps one persona per name, preferring the workspace's own
// row. Result order follows the first appearance of each name.
func DedupeByName(all []models.AIModel, workspaceID uuid.UUID) []models.AIModel {
	groups := map[string][]models.AIModel{}
	order := []string{}
	for _, m := range all {
		key := strings.ToLower(strings.TrimSpace(m.Name))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	out := make([]models.AIModel, 0, len(order))
	for _, key := range order {
		if m := PreferWorkspaceScoped(groups[key], workspaceID); m != nil {
			out = append(out, *m)
		}
	}
	return out
}
