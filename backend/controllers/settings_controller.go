package controllers

import (
	"errors"

	"learnforge/backend/config"
	"learnforge/backend/models"
	"learnforge/backend/services"
	"learnforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	AI  *services.AIService
}

func NewSettingsController(db *gorm.DB, cfg *config.Config, ai *services.AIService) *SettingsController {
	return &SettingsController{DB: db, Cfg: cfg, AI: ai}
}

// [+] GetSettings godoc
// @Summary Get the caller's AI generation settings
// @Description Stored API keys are reported as present/absent, never echoed
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /settings [get]
func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return err
	}

	var user models.User
	if err := sc.DB.Preload("AgentKeys").First(&user, userID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query user")
	}

	agents := fiber.Map{}
	for _, role := range services.AllAgentRoles {
		entry := fiber.Map{"provider": "", "has_key": false}
		for _, k := range user.AgentKeys {
			if k.Agent == string(role) {
				entry = fiber.Map{"provider": k.Provider, "has_key": k.APIKey != ""}
				break
			}
		}
		agents[string(role)] = entry
	}

	return c.JSON(fiber.Map{
		"ai_provider_preference": user.AIProviderPreference,
		"openai_model":           user.OpenAIModel,
		"gemini_model":           user.GeminiModel,
		"agents":                 agents,
		"server_providers": fiber.Map{
			"openai": sc.AI.IsConfigured(services.ProviderOpenAI),
			"gemini": sc.AI.IsConfigured(services.ProviderGemini),
		},
	})
}

// [+] UpdateSettings godoc
// @Summary Update the caller's AI generation settings
// @Description Per-agent entries upsert a key row; an empty api_key removes it
// @Tags settings
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Settings"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /settings [put]
func (sc *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return err
	}

	type AgentInput struct {
		Provider string `json:"provider"`
		APIKey   string `json:"api_key"`
	}
	type SettingsInput struct {
		AIProviderPreference *string               `json:"ai_provider_preference"`
		OpenAIModel          *string               `json:"openai_model"`
		GeminiModel          *string               `json:"gemini_model"`
		Agents               map[string]AgentInput `json:"agents"`
	}

	var input SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := sc.DB.First(&user, userID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query user")
	}

	if input.AIProviderPreference != nil {
		switch *input.AIProviderPreference {
		case string(services.ProviderOpenAI), string(services.ProviderGemini), string(services.ProviderAuto):
			user.AIProviderPreference = *input.AIProviderPreference
		default:
			return utils.BadRequest(c, "Invalid provider, use openai, gemini or auto")
		}
	}
	if input.OpenAIModel != nil {
		user.OpenAIModel = *input.OpenAIModel
	}
	if input.GeminiModel != nil {
		user.GeminiModel = *input.GeminiModel
	}

	for agent, entry := range input.Agents {
		if !validAgentRole(agent) {
			return utils.BadRequest(c, "Unknown agent "+agent)
		}
		if entry.Provider != "" &&
			entry.Provider != string(services.ProviderOpenAI) &&
			entry.Provider != string(services.ProviderGemini) {
			return utils.BadRequest(c, "Invalid provider for agent "+agent)
		}
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		for agent, entry := range input.Agents {
			var key models.AgentKey
			err := tx.Where("user_id = ? AND agent = ?", userID, agent).First(&key).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if entry.APIKey == "" {
					continue
				}
				key = models.AgentKey{
					UserID:   userID,
					Agent:    agent,
					Provider: entry.Provider,
					APIKey:   entry.APIKey,
				}
				if err := tx.Create(&key).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if entry.APIKey == "" {
					// Hard delete: a soft-deleted row would still hold the
					// unique (user, agent) slot.
					if err := tx.Unscoped().Delete(&key).Error; err != nil {
						return err
					}
					continue
				}
				if entry.Provider != "" {
					key.Provider = entry.Provider
				}
				key.APIKey = entry.APIKey
				if err := tx.Save(&key).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not save settings")
	}

	return sc.GetSettings(c)
}

func validAgentRole(agent string) bool {
	for _, role := range services.AllAgentRoles {
		if agent == string(role) {
			return true
		}
	}
	return false
}
