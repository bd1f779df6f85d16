package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"learnforge/backend/config"
	"learnforge/backend/models"
	"learnforge/backend/routes"
	"learnforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every request sees the same in-memory schema.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, utils.MigrateDB(db))

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		UploadsDir: t.TempDir(),
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, utils.InitLogger())
	return app, db, cfg
}

func createTestUser(t *testing.T, db *gorm.DB, cfg *config.Config, email string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(user).Error)

	token, err := utils.GenerateJWTToken(user.ID, cfg)
	require.NoError(t, err)
	return user, token
}

func jsonRequest(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}
