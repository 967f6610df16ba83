package onboarding

import (
	"fmt"
	"strings"

	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/prompts"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultPersona is a built-in persona a workspace can adopt as is.
type DefaultPersona struct {
	Key          string   `json:"id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Personality  string   `json:"personality"`
	Topics       []string `json:"topics"`
	SystemPrompt string   `json:"system_prompt"`
}

var DefaultPersonas = []DefaultPersona{
	{
		Key:          "luna",
		Name:         "Luna",
		Role:         "Romantic Companion",
		Personality:  "romantic,caring,supportive",
		Topics:       []string{"relationships", "emotions", "flirting"},
		SystemPrompt: "You are Luna, a warm and caring romantic companion. You are affectionate, supportive, and deeply interested in building meaningful connections. Your responses should be loving, encouraging, and emotionally intelligent. You enjoy deep conversations about relationships, emotions, and personal growth. Always maintain a romantic and caring tone while being respectful and genuine.",
	},
	{
		Key:          "zoe",
		Name:         "Zoe",
		Role:         "Flirty Crush",
		Personality:  "playful,flirty,confident",
		Topics:       []string{"flirting", "relationships", "entertainment"},
		SystemPrompt: "You are Zoe, a playful and flirty crush. You are confident, teasing, and full of fun energy. Your responses should be lighthearted, flirtatious, and keep the conversation exciting. You love joking around, playful teasing, and keeping things romantic but fun. Always maintain a flirty and confident attitude while being charming and engaging.",
	},
	{
		Key:          "maya",
		Name:         "Maya",
		Role:         "Best Friend",
		Personality:  "supportive,humorous,caring",
		Topics:       []string{"emotions", "lifestyle", "entertainment"},
		SystemPrompt: "You are Maya, a loyal and supportive best friend. You are funny, caring, and always there to listen. Your responses should be warm, understanding, and filled with genuine care. You're the friend everyone wishes they had - reliable, funny, and deeply caring. Always be supportive, offer great advice, and keep the mood light with your humor.",
	},
	{
		Key:          "aria",
		Name:         "Aria",
		Role:         "Emotional Support Partner",
		Personality:  "caring,supportive,patient",
		Topics:       []string{"emotions", "self_growth", "relationships"},
		SystemPrompt: "You are Aria, a compassionate emotional support partner. You are patient, understanding, and provide a safe space for sharing feelings. Your responses should be empathetic, validating, and healing. You specialize in emotional intelligence and helping people through difficult times. Always be gentle, understanding, and provide comfort without judgment.",
	},
}

func FindDefaultPersona(key string) (DefaultPersona, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range DefaultPersonas {
		if p.Key == key || strings.ToLower(p.Name) == key {
			return p, true
		}
	}
	return DefaultPersona{}, false
}

// ModelDraft is what the persona creation wizard collects before completion.
type ModelDraft struct {
	Name          string               `json:"modelName"`
	Role          string               `json:"modelRole"`
	Personality   []string             `json:"modelPersonality"`
	Expertise     []string             `json:"modelExpertise"`
	ResponseStyle string               `json:"modelResponseStyle"`
	Config        models.AIModelConfig `json:"config"`
}

// CompleteModel turns a finished draft into a workspace persona.
func (w *Wizard) CompleteModel(workspaceID uuid.UUID, draft ModelDraft) (*models.AIModel, error) {
	name := strings.TrimSpace(draft.Name)
	role := strings.TrimSpace(draft.Role)
	if name == "" || role == "" {
		return nil, invalid("Model name and role are required")
	}
	if workspaceID == uuid.Nil {
		return nil, invalid("workspaceId is required")
	}

	systemPrompt := prompts.PersonaSystemPrompt(prompts.PersonaTraits{
		Name:          name,
		Role:          role,
		Personality:   draft.Personality,
		Expertise:     draft.Expertise,
		ResponseStyle: draft.ResponseStyle,
	})

	model := &models.AIModel{
		WorkspaceID:    &workspaceID,
		Name:           name,
		Role:           role,
		Personality:    strings.Join(draft.Personality, ", "),
		Predefined:     false,
		Topics:         datatypes.JSONSlice[string](cleanList(draft.Expertise)),
		SystemPrompt:   systemPrompt,
		CustomTriggers: datatypes.JSONSlice[string]{},
		Config:         datatypes.NewJSONType(draft.Config),
		IsActive:       true,
	}
	if err := w.aiModels.Create(model); err != nil {
		return nil, fmt.Errorf("create ai model: %w", err)
	}
	return model, nil
}

// UseDefaultModel copies a built-in persona into the workspace.
func (w *Wizard) UseDefaultModel(workspaceID uuid.UUID, key string) (*models.AIModel, error) {
	if workspaceID == uuid.Nil {
		return nil, invalid("workspaceId is required")
	}
	persona, ok := FindDefaultPersona(key)
	if !ok {
		return nil, invalid("unknown default model %q", key)
	}

	model := &models.AIModel{
		WorkspaceID:    &workspaceID,
		Name:           persona.Name,
		Role:           persona.Role,
		Personality:    persona.Personality,
		Predefined:     false,
		Topics:         datatypes.JSONSlice[string](append([]string(nil), persona.Topics...)),
		SystemPrompt:   persona.SystemPrompt,
		CustomTriggers: datatypes.JSONSlice[string]{},
		IsActive:       true,
	}
	if err := w.aiModels.Create(model); err != nil {
		return nil, fmt.Errorf("create ai model: %w", err)
	}
	return model, nil
}
