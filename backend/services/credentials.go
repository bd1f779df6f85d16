package services

import "learnforge/backend/models"

// AgentRole names one logical AI agent. Each role resolves its own
// provider/model/credential independently of the others.
type AgentRole string

const (
	AgentCourseStructure  AgentRole = "course_structure_agent"
	AgentLectureNotes     AgentRole = "content_generation_agent"
	AgentTutorialExercise AgentRole = "tutorial_exercise_agent"
	AgentPracticalTask    AgentRole = "practical_task_agent"
	AgentQuiz             AgentRole = "quiz_agent"
	AgentAudiobook        AgentRole = "audiobook_agent"
)

var AllAgentRoles = []AgentRole{
	AgentCourseStructure,
	AgentLectureNotes,
	AgentTutorialExercise,
	AgentPracticalTask,
	AgentQuiz,
	AgentAudiobook,
}

// AgentConfig is the resolved provider/model/credential for one agent call.
// An empty APIKey means the gateway falls back to the process-wide default.
type AgentConfig struct {
	Provider Provider
	Model    string
	APIKey   string
}

// ResolveAgentConfig picks the provider, model and credential for one agent:
// the agent's own key row wins, then the user's provider preference, then
// auto. The model preference follows the chosen provider.
func ResolveAgentConfig(user *models.User, keys []models.AgentKey, role AgentRole) AgentConfig {
	resolved := AgentConfig{Provider: ProviderAuto}
	if user.AIProviderPreference != "" {
		resolved.Provider = Provider(user.AIProviderPreference)
	}

	for _, k := range keys {
		if k.Agent != string(role) {
			continue
		}
		if k.Provider != "" {
			resolved.Provider = Provider(k.Provider)
		}
		resolved.APIKey = k.APIKey
		break
	}

	switch resolved.Provider {
	case ProviderOpenAI:
		resolved.Model = user.OpenAIModel
	case ProviderGemini:
		resolved.Model = user.GeminiModel
	default:
		// Auto mode leaves the model empty so whichever backend answers
		// applies its own default.
	}
	return resolved
}

// ResolveAgents resolves every agent role at once for a generation pass.
func ResolveAgents(user *models.User, keys []models.AgentKey) map[AgentRole]AgentConfig {
	agents := make(map[AgentRole]AgentConfig, len(AllAgentRoles))
	for _, role := range AllAgentRoles {
		agents[role] = ResolveAgentConfig(user, keys, role)
	}
	return agents
}
