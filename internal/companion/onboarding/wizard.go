package onboarding

import (
	"fmt"
	"strings"

	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	StepName = iota + 1
	StepPreferences
	StepInterests
	StepPersonality
	StepComplete
)

var (
	privacyLevels        = []string{"high", "medium", "low"}
	communicationMethods = []string{"chat", "voice", "video"}
)

// ValidationError is a rejected step submission. Nothing was written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StepInput carries the fields of one wizard step. Only the fields that
// belong to the submitted step are read.
type StepInput struct {
	UserID      uuid.UUID `json:"-"`
	WorkspaceID uuid.UUID `json:"-"`

	Name string `json:"name"`

	PreferredCommunication []string `json:"preferred_communication"`
	PrivacyLevel           string   `json:"privacy_level"`
	MemoryEnabled          *bool    `json:"memory_enabled"`

	Interests []string `json:"interests"`
	Goals     []string `json:"goals"`

	PersonalityType string `json:"personality_type"`
	Age             *int   `json:"age"`
	Gender          string `json:"gender"`
}

func (in StepInput) lookup() repo.WorkspaceLookup {
	return repo.WorkspaceLookup{WorkspaceID: in.WorkspaceID, UserID: in.UserID}
}

type Wizard struct {
	workspaces repo.WorkspaceRepoInterface
	aiModels   repo.AIModelRepoInterface
}

func NewWizard(workspaces repo.WorkspaceRepoInterface, aiModels repo.AIModelRepoInterface) *Wizard {
	return &Wizard{workspaces: workspaces, aiModels: aiModels}
}

// Submit saves one step and returns the workspace as stored afterwards. Every
// submission but the last moves current_step forward by one.
func (w *Wizard) Submit(step int, in StepInput) (*models.Workspace, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"step":         step,
		"user_id":      in.UserID,
		"workspace_id": in.WorkspaceID,
	})

	if step == StepName {
		return w.submitName(in)
	}
	if step < StepName || step > StepComplete {
		return nil, invalid("unknown onboarding step %d", step)
	}
	if in.WorkspaceID == uuid.Nil && in.UserID == uuid.Nil {
		return nil, repo.ErrMissingIdentifier
	}

	ws, err := w.workspaces.Get(in.lookup())
	if err != nil {
		return nil, err
	}
	target := repo.WorkspaceLookup{WorkspaceID: ws.ID}

	var fields map[string]interface{}
	switch step {
	case StepPreferences:
		fields, err = preferenceFields(in)
	case StepInterests:
		fields = map[string]interface{}{
			"interests": datatypes.JSONSlice[string](cleanList(in.Interests)),
			"goals":     datatypes.JSONSlice[string](cleanList(in.Goals)),
		}
	case StepPersonality:
		fields, err = personalityFields(in)
	case StepComplete:
		if err := w.workspaces.MarkOnboardingComplete(target); err != nil {
			return nil, fmt.Errorf("complete onboarding: %w", err)
		}
		log.Info("onboarding complete")
		return w.workspaces.Get(target)
	}
	if err != nil {
		return nil, err
	}

	if err := w.workspaces.SaveStep(target, fields, step+1); err != nil {
		return nil, fmt.Errorf("save step %d: %w", step, err)
	}
	log.Debug("onboarding step saved")
	return w.workspaces.Get(target)
}

// submitName creates the workspace when none is addressed yet, otherwise it
// renames it and moves on to the second step.
func (w *Wizard) submitName(in StepInput) (*models.Workspace, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Workspace name is required.")
	}

	if in.WorkspaceID == uuid.Nil {
		if in.UserID == uuid.Nil {
			return nil, invalid("userId is required")
		}
		ws := &models.Workspace{UserID: in.UserID, Name: name, CurrentStep: StepName}
		if err := w.workspaces.Create(ws); err != nil {
			return nil, fmt.Errorf("create workspace: %w", err)
		}
		logger.Log.WithFields(logrus.Fields{"user_id": in.UserID, "workspace_id": ws.ID}).Info("workspace created")
		return ws, nil
	}

	target := repo.WorkspaceLookup{WorkspaceID: in.WorkspaceID}
	if _, err := w.workspaces.Get(target); err != nil {
		return nil, err
	}
	if err := w.workspaces.SaveStep(target, map[string]interface{}{"name": name}, StepPreferences); err != nil {
		return nil, fmt.Errorf("save step 1: %w", err)
	}
	return w.workspaces.Get(target)
}

func preferenceFields(in StepInput) (map[string]interface{}, error) {
	methods := cleanList(in.PreferredCommunication)
	for _, m := range methods {
		if !oneOf(m, communicationMethods) {
			return nil, invalid("invalid communication method %q, expected one of %s", m, strings.Join(communicationMethods, ", "))
		}
	}
	fields := map[string]interface{}{
		"preferred_communication": datatypes.JSONSlice[string](methods),
	}
	if in.PrivacyLevel != "" {
		if !oneOf(in.PrivacyLevel, privacyLevels) {
			return nil, invalid("invalid privacy level %q, expected one of %s", in.PrivacyLevel, strings.Join(privacyLevels, ", "))
		}
		fields["privacy_level"] = in.PrivacyLevel
	}
	if in.MemoryEnabled != nil {
		fields["memory_enabled"] = *in.MemoryEnabled
	}
	return fields, nil
}

func personalityFields(in StepInput) (map[string]interface{}, error) {
	if in.Age != nil && (*in.Age < 0 || *in.Age > 150) {
		return nil, invalid("invalid age %d", *in.Age)
	}
	return map[string]interface{}{
		"personality_type": strings.TrimSpace(in.PersonalityType),
		"age":              in.Age,
		"gender":           strings.TrimSpace(in.Gender),
	}, nil
}

// ResumeStep is the step a returning user should continue at. Callers decide
// whether to redirect.
func ResumeStep(ws *models.Workspace) int {
	switch {
	case ws == nil:
		return StepName
	case ws.OnboardingComplete:
		return StepComplete
	case ws.CurrentStep < StepName:
		return StepName
	case ws.CurrentStep > StepComplete:
		return StepComplete
	default:
		return ws.CurrentStep
	}
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
