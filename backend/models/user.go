package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `json:"display_name"`

	// AI generation preferences. The provider preference applies when an
	// agent has no key row of its own.
	AIProviderPreference string `gorm:"default:auto" json:"ai_provider_preference"` // openai, gemini, auto
	OpenAIModel          string `gorm:"default:gpt-4" json:"openai_model"`
	GeminiModel          string `gorm:"default:gemini-pro" json:"gemini_model"`

	AgentKeys []AgentKey `json:"-"`
}

// AgentKey holds one user's provider/credential override for a single
// logical agent (course structure, quiz, audiobook, ...). No row means the
// agent falls back to the user's provider preference and the process-wide
// default key.
type AgentKey struct {
	gorm.Model
	UserID   uint   `gorm:"index:idx_agent_keys_user_agent,unique" json:"user_id"`
	Agent    string `gorm:"index:idx_agent_keys_user_agent,unique" json:"agent"`
	Provider string `json:"provider"` // openai or gemini
	APIKey   string `json:"-"`
}
