package routes

import (
	"log"

	"learnforge/backend/config"
	"learnforge/backend/controllers"
	"learnforge/backend/middleware"
	"learnforge/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	ai := services.NewAIService(cfg, logger)
	structure := services.NewStructureService(db, ai, logger)
	content := services.NewContentService(db, ai, ai, services.LocalAudioStore{Dir: cfg.UploadsDir}, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, structure)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Post("/", coursesController.CreateCourse)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Post("/:id/generate-structure", coursesController.GenerateStructure)
	courses.Delete("/:id", coursesController.DeleteCourse)

	// Topics routes
	topicsController := controllers.NewTopicsController(db, cfg, content)
	topics := app.Group("/api/topics", authMiddleware)
	topics.Get("/:id", topicsController.GetTopic)
	topics.Post("/:id/generate-content", topicsController.GenerateContent)
	topics.Post("/:id/regenerate/:section", topicsController.RegenerateSection)
	topics.Patch("/:id/practical-task", topicsController.UpdatePracticalTask)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Get("/", progressController.GetProgress)
	progress.Post("/", progressController.UpdateProgress)
	progress.Get("/course/:courseId", progressController.GetCourseProgress)

	// Settings routes
	settingsController := controllers.NewSettingsController(db, cfg, ai)
	app.Get("/api/settings", authMiddleware, settingsController.GetSettings)
	app.Put("/api/settings", authMiddleware, settingsController.UpdateSettings)
}
