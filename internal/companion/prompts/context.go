package prompts

import (
	"strconv"
	"strings"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
)

const (
	NoUserContext    = "No user context available."
	BasicUserProfile = "Basic user profile available."
)

// WorkspaceContext renders the profile fields of a workspace as "Label: value"
// lines in a fixed order. Empty fields are left out.
func WorkspaceContext(ws *models.Workspace) string {
	if ws == nil {
		return NoUserContext
	}

	parts := []string{}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Name", ws.Name)
	if ws.Age != nil && *ws.Age > 0 {
		add("Age", strconv.Itoa(*ws.Age))
	}
	add("Gender", ws.Gender)
	add("Interests", joinList(ws.Interests))
	add("Goals", joinList(ws.Goals))
	add("Personality Type", ws.PersonalityType)
	add("Communication Style", joinList(ws.PreferredCommunication))

	if len(parts) == 0 {
		return BasicUserProfile
	}
	return strings.Join(parts, "\n")
}

// Compose builds the system message sent with every completion: the user's
// workspace context followed by the persona's own prompt, verbatim.
func Compose(ws *models.Workspace, personaPrompt string) string {
	profile := WorkspaceContext(ws)
	if personaPrompt == "" {
		return profile
	}
	return profile + "\n\n" + personaPrompt
}

func joinList(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}
