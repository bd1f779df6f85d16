package controllers

import (
	"errors"
	"strconv"
	"time"

	"learnforge/backend/config"
	"learnforge/backend/models"
	"learnforge/backend/services"
	"learnforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// [+] UpdateProgress godoc
// @Summary Record progress for a course, module or topic
// @Description Finds or creates the progress row for the key tuple; quiz
// @Description answers are graded server-side against the topic's MCQs
// @Tags progress
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Progress update"
// @Success 200 {object} models.Progress
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /progress [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return err
	}

	type ProgressInput struct {
		CourseID  uint           `json:"course_id"`
		ModuleID  *uint          `json:"module_id"`
		TopicID   *uint          `json:"topic_id"`
		Type      string         `json:"type"`
		Completed bool           `json:"completed"`
		Answers   map[string]any `json:"answers"`
	}
	var input ProgressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == 0 || input.Type == "" {
		return utils.BadRequest(c, "course_id and type are required")
	}
	switch input.Type {
	case models.ProgressTypeCourse, models.ProgressTypeModule, models.ProgressTypeTopic:
	default:
		return utils.BadRequest(c, "Invalid progress type")
	}

	var course models.Course
	if err := pc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query course")
	}
	if course.CreatedBy != userID {
		return utils.NotFound(c, "Course not found")
	}

	progress, err := pc.findOrCreate(userID, input.CourseID, input.ModuleID, input.TopicID, input.Type)
	if err != nil {
		return utils.InternalServerError(c, "Could not query progress")
	}

	now := time.Now().UTC()
	progress.LastAccessedAt = now

	if input.Answers != nil {
		if input.TopicID == nil {
			return utils.BadRequest(c, "Quiz answers require a topic_id")
		}
		var topic models.Topic
		if err := pc.DB.First(&topic, *input.TopicID).Error; err != nil {
			return utils.NotFound(c, "Topic not found")
		}

		score := services.ComputeQuizScore(topic.Quiz, input.Answers)
		progress.QuizScore = &score

		// Every answers submission is a scored attempt, retakes included.
		// A completion event without answers only flips the flags below.
		progress.QuizAttempts = append(progress.QuizAttempts, models.QuizAttempt{
			Score:       score,
			SubmittedAt: now,
			Answers:     input.Answers,
		})
	}

	if input.Completed {
		progress.Completed = true
		progress.CompletedAt = &now
	}

	if err := pc.DB.Save(progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	if input.Type == models.ProgressTypeCourse && input.Completed {
		course.Status = models.CourseStatusCompleted
		if err := pc.DB.Save(&course).Error; err != nil {
			return utils.InternalServerError(c, "Could not update course")
		}
	}

	return c.JSON(progress)
}

// [+] GetProgress godoc
// @Summary List the caller's progress rows
// @Tags progress
// @Produce json
// @Param course_id query int false "Filter by course"
// @Param topic_id query int false "Filter by topic"
// @Success 200 {array} models.Progress
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return err
	}

	q := pc.DB.Where("user_id = ?", userID)
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		q = q.Where("course_id = ?", courseID)
	}
	if topicID := c.QueryInt("topic_id"); topicID > 0 {
		q = q.Where("topic_id = ?", topicID)
	}

	var rows []models.Progress
	if err := q.Order("last_accessed_at desc").Find(&rows).Error; err != nil {
		return utils.InternalServerError(c, "Could not query progress")
	}
	return c.JSON(rows)
}

// [+] GetCourseProgress godoc
// @Summary Per-topic progress summary for one course
// @Tags progress
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /progress/course/{courseId} [get]
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return err
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := pc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query course")
	}
	if course.CreatedBy != userID {
		return utils.NotFound(c, "Course not found")
	}

	var rows []models.Progress
	if err := pc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&rows).Error; err != nil {
		return utils.InternalServerError(c, "Could not query progress")
	}

	topicProgress := fiber.Map{}
	completedTopics := 0
	for i := range rows {
		p := &rows[i]
		if p.Type != models.ProgressTypeTopic || p.TopicID == nil {
			continue
		}
		topicProgress[strconv.FormatUint(uint64(*p.TopicID), 10)] = p
		if p.Completed {
			completedTopics++
		}
	}

	var totalTopics int64
	if err := pc.DB.Model(&models.Topic{}).
		Where("course_id = ?", courseID).Count(&totalTopics).Error; err != nil {
		return utils.InternalServerError(c, "Could not count topics")
	}

	return c.JSON(fiber.Map{
		"course_id":        course.ID,
		"course_status":    course.Status,
		"total_topics":     totalTopics,
		"completed_topics": completedTopics,
		"topic_progress":   topicProgress,
	})
}

// findOrCreate returns the single progress row for the key tuple, matching
// null module/topic columns explicitly so course- and module-level rows do
// not collide.
func (pc *ProgressController) findOrCreate(userID, courseID uint, moduleID, topicID *uint, progressType string) (*models.Progress, error) {
	q := pc.DB.Where("user_id = ? AND course_id = ? AND type = ?", userID, courseID, progressType)
	if moduleID == nil {
		q = q.Where("module_id IS NULL")
	} else {
		q = q.Where("module_id = ?", *moduleID)
	}
	if topicID == nil {
		q = q.Where("topic_id IS NULL")
	} else {
		q = q.Where("topic_id = ?", *topicID)
	}

	var progress models.Progress
	err := q.First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.Progress{
			UserID:   userID,
			CourseID: courseID,
			ModuleID: moduleID,
			TopicID:  topicID,
			Type:     progressType,
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
