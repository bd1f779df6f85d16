package utils

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// InitLogger returns the process logger used by handlers and services.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[learnforge] ", log.LstdFlags|log.LUTC)
}

// LoggingMiddleware logs every request with status, latency and client info.
func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		latency := time.Since(start)

		logger.Printf("%s %s %s %d %s %q",
			c.IP(),
			c.Method(),
			c.Path(),
			status,
			latency,
			c.Get("User-Agent"),
		)

		return err
	}
}
