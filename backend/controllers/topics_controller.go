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

type TopicsController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Content *services.ContentService
}

func NewTopicsController(db *gorm.DB, cfg *config.Config, content *services.ContentService) *TopicsController {
	return &TopicsController{DB: db, Cfg: cfg, Content: content}
}

// [+] GetTopic godoc
// @Summary Get one topic with its generated content
// @Tags topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} models.Topic
// @Failure 404 {object} utils.ErrorResponse
// @Router /topics/{id} [get]
func (tc *TopicsController) GetTopic(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return err
	}

	topic, _, _, err := tc.ownedTopic(c, userID)
	if topic == nil {
		return err
	}
	return c.JSON(topic)
}

// [+] GenerateContent godoc
// @Summary Generate all content sections for a topic
// @Description Lecture notes first, then exercises, tasks, quiz and audio
// @Tags topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} models.Topic
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /topics/{id}/generate-content [post]
func (tc *TopicsController) GenerateContent(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return err
	}

	topic, course, module, err := tc.ownedTopic(c, userID)
	if topic == nil {
		return err
	}

	agents, err := tc.resolveAgents(c, userID)
	if agents == nil {
		return err
	}

	if err := tc.Content.GenerateTopicContent(c.Context(), topic, course, module, agents); err != nil {
		return utils.InternalServerError(c, err.Error())
	}
	return c.JSON(topic)
}

// [+] RegenerateSection godoc
// @Summary Regenerate a single content section of a topic
// @Tags topics
// @Produce json
// @Param id path int true "Topic ID"
// @Param section path string true "Section" Enums(lecture_notes, audio, tutorial_exercises, practical_tasks, quiz)
// @Success 200 {object} models.Topic
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /topics/{id}/regenerate/{section} [post]
func (tc *TopicsController) RegenerateSection(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return err
	}

	topic, course, module, err := tc.ownedTopic(c, userID)
	if topic == nil {
		return err
	}

	agents, err := tc.resolveAgents(c, userID)
	if agents == nil {
		return err
	}

	section := c.Params("section")
	if err := tc.Content.RegenerateSection(c.Context(), topic, course, module, section, agents); err != nil {
		if errors.Is(err, services.ErrLectureNotesRequired) || errors.Is(err, services.ErrUnknownSection) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, err.Error())
	}
	return c.JSON(topic)
}

// [+] UpdatePracticalTask godoc
// @Summary Mark a practical task completed or not
// @Tags topics
// @Accept json
// @Produce json
// @Param id path int true "Topic ID"
// @Param request body map[string]interface{} true "task_index and completed"
// @Success 200 {object} models.Topic
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /topics/{id}/practical-task [patch]
func (tc *TopicsController) UpdatePracticalTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return err
	}

	topic, _, _, err := tc.ownedTopic(c, userID)
	if topic == nil {
		return err
	}

	type TaskInput struct {
		TaskIndex int  `json:"task_index"`
		Completed bool `json:"completed"`
	}
	var input TaskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.TaskIndex < 0 || input.TaskIndex >= len(topic.PracticalTasks) {
		return utils.BadRequest(c, "Invalid task index")
	}

	topic.PracticalTasks[input.TaskIndex].Completed = input.Completed
	if err := tc.DB.Save(topic).Error; err != nil {
		return utils.InternalServerError(c, "Could not update topic")
	}
	return c.JSON(topic)
}

// ownedTopic loads the :id topic plus its course and module, hiding other
// users' topics behind 404.
func (tc *TopicsController) ownedTopic(c *fiber.Ctx, userID uint) (*models.Topic, *models.Course, *models.Module, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, nil, nil, utils.BadRequest(c, "Invalid topic ID")
	}

	var topic models.Topic
	if err := tc.DB.First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, utils.NotFound(c, "Topic not found")
		}
		return nil, nil, nil, utils.InternalServerError(c, "Could not query topic")
	}

	var course models.Course
	if err := tc.DB.First(&course, topic.CourseID).Error; err != nil {
		return nil, nil, nil, utils.InternalServerError(c, "Could not query course")
	}
	if course.CreatedBy != userID {
		return nil, nil, nil, utils.NotFound(c, "Topic not found")
	}

	var module models.Module
	if err := tc.DB.First(&module, topic.ModuleID).Error; err != nil {
		return nil, nil, nil, utils.InternalServerError(c, "Could not query module")
	}

	return &topic, &course, &module, nil
}

func (tc *TopicsController) resolveAgents(c *fiber.Ctx, userID uint) (map[services.AgentRole]services.AgentConfig, error) {
	var user models.User
	if err := tc.DB.Preload("AgentKeys").First(&user, userID).Error; err != nil {
		return nil, utils.InternalServerError(c, "Could not query user")
	}
	return services.ResolveAgents(&user, user.AgentKeys), nil
}
