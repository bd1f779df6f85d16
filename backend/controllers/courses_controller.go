package controllers

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"learnforge/backend/config"
	"learnforge/backend/models"
	"learnforge/backend/services"
	"learnforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxOutlineSize = 10 << 20 // 10 MB

type CoursesController struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Structure *services.StructureService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, structure *services.StructureService) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Structure: structure}
}

// [+] CreateCourse godoc
// @Summary Create a new course
// @Description Creates a course draft, optionally with an outline file (pdf, txt or md)
// @Tags courses
// @Accept mpfd
// @Produce json
// @Success 200 {object} models.Course
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return err
	}

	course := models.Course{
		CreatedBy: userID,
		Status:    models.CourseStatusDraft,
	}

	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		course.Title = c.FormValue("title")
		course.Goal = c.FormValue("goal")

		if file, err := c.FormFile("outline"); err == nil {
			ext := strings.ToLower(filepath.Ext(file.Filename))
			if ext != ".pdf" && ext != ".txt" && ext != ".md" {
				return utils.BadRequest(c, "Outline must be a pdf, txt or md file")
			}
			if file.Size > maxOutlineSize {
				return utils.BadRequest(c, "Outline file too large, maximum is 10MB")
			}

			name := fmt.Sprintf("outline-%s%s", uuid.NewString(), ext)
			if err := os.MkdirAll(cc.Cfg.UploadsDir, 0o755); err != nil {
				return utils.InternalServerError(c, "Could not store outline file")
			}
			path := filepath.Join(cc.Cfg.UploadsDir, name)
			if err := c.SaveFile(file, path); err != nil {
				return utils.InternalServerError(c, "Could not store outline file")
			}

			text, err := services.ExtractOutlineText(path)
			if err != nil {
				os.Remove(path)
				return utils.BadRequest(c, "Could not read outline file: "+err.Error())
			}
			course.OutlineFile = name
			course.OutlineText = text
		}
	} else {
		type CreateInput struct {
			Title       string `json:"title"`
			Goal        string `json:"goal"`
			OutlineText string `json:"outline_text"`
		}
		var input CreateInput
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
		course.Title = input.Title
		course.Goal = input.Goal
		course.OutlineText = input.OutlineText
	}

	if course.Title == "" || course.Goal == "" {
		return utils.BadRequest(c, "Title and goal are required")
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}
	return c.JSON(course)
}

// [+] GetCourses godoc
// @Summary List the caller's courses
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return err
	}

	var courses []models.Course
	if err := cc.DB.Where("created_by = ?", userID).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query courses")
	}
	return c.JSON(courses)
}

// [+] GetCourse godoc
// @Summary Get one course with its modules and topics
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return err
	}

	course, err := cc.ownedCourse(c, userID)
	if course == nil {
		return err
	}

	var modules []models.Module
	if err := cc.DB.Where("course_id = ?", course.ID).
		Order(`"order" asc`).Find(&modules).Error; err != nil {
		return utils.InternalServerError(c, "Could not query modules")
	}

	var topics []models.Topic
	if err := cc.DB.Where("course_id = ?", course.ID).
		Order(`"order" asc`).Find(&topics).Error; err != nil {
		return utils.InternalServerError(c, "Could not query topics")
	}

	topicsByModule := make(map[uint][]models.Topic, len(modules))
	ready := 0
	for _, t := range topics {
		topicsByModule[t.ModuleID] = append(topicsByModule[t.ModuleID], t)
		if t.Status == models.TopicStatusReady {
			ready++
		}
	}

	// Keep the stored completion percentage current with topic readiness.
	if len(topics) > 0 {
		pct := int(math.Round(float64(ready) / float64(len(topics)) * 100))
		if pct != course.ProgressPercentage {
			course.ProgressPercentage = pct
			if err := cc.DB.Save(course).Error; err != nil {
				return utils.InternalServerError(c, "Could not update course")
			}
		}
	}

	moduleViews := make([]fiber.Map, 0, len(modules))
	for _, m := range modules {
		moduleViews = append(moduleViews, fiber.Map{
			"id":               m.ID,
			"title":            m.Title,
			"description":      m.Description,
			"difficulty_level": m.DifficultyLevel,
			"order":            m.Order,
			"topics":           topicsByModule[m.ID],
		})
	}

	return c.JSON(fiber.Map{
		"course":  course,
		"modules": moduleViews,
	})
}

// [+] GenerateStructure godoc
// @Summary Generate the course module/topic structure
// @Description Runs the course structure agent; the course must be in draft status
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id}/generate-structure [post]
func (cc *CoursesController) GenerateStructure(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return err
	}

	course, err := cc.ownedCourse(c, userID)
	if course == nil {
		return err
	}
	if course.Status != models.CourseStatusDraft {
		return utils.BadRequest(c, "Course structure already generated")
	}

	var user models.User
	if err := cc.DB.Preload("AgentKeys").First(&user, userID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query user")
	}
	agent := services.ResolveAgentConfig(&user, user.AgentKeys, services.AgentCourseStructure)

	if err := cc.Structure.GenerateStructure(c.Context(), course, agent); err != nil {
		if errors.Is(err, services.ErrStructureParseFailed) || errors.Is(err, services.ErrInvalidStructure) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, err.Error())
	}
	return c.JSON(course)
}

// [+] DeleteCourse godoc
// @Summary Delete a course and everything under it
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return err
	}

	course, err := cc.ownedCourse(c, userID)
	if course == nil {
		return err
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Topic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Module{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	if course.OutlineFile != "" {
		// The course rows are already gone; a leftover file is harmless.
		os.Remove(filepath.Join(cc.Cfg.UploadsDir, course.OutlineFile))
	}

	return c.JSON(fiber.Map{"message": "Course deleted"})
}

// ownedCourse loads the :id course and hides other users' courses behind 404.
func (cc *CoursesController) ownedCourse(c *fiber.Ctx, userID uint) (*models.Course, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, utils.InternalServerError(c, "Could not query course")
	}
	if course.CreatedBy != userID {
		return nil, utils.NotFound(c, "Course not found")
	}
	return &course, nil
}
