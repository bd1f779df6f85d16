package controllers_test

import (
	"net/http"
	"testing"

	"learnforge/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseJSON(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/courses", token, map[string]string{
		"title":        "Gardening",
		"goal":         "Grow vegetables year round",
		"outline_text": "Soil, seeds, seasons",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var course models.Course
	decodeBody(t, resp, &course)
	assert.Equal(t, "Gardening", course.Title)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.Equal(t, user.ID, course.CreatedBy)
	assert.Equal(t, "Soil, seeds, seasons", course.OutlineText)
}

func TestCreateCourseRequiresTitleAndGoal(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := createTestUser(t, db, cfg, "ada@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/courses", token, map[string]string{
		"title": "Gardening",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCoursesOwnerScoped(t *testing.T) {
	app, db, cfg := newTestApp(t)
	owner, token := createTestUser(t, db, cfg, "owner@example.com")
	other, _ := createTestUser(t, db, cfg, "other@example.com")

	require.NoError(t, db.Create(&models.Course{Title: "Mine", Goal: "g", CreatedBy: owner.ID}).Error)
	require.NoError(t, db.Create(&models.Course{Title: "Theirs", Goal: "g", CreatedBy: other.ID}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/courses", token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var courses []models.Course
	decodeBody(t, resp, &courses)
	require.Len(t, courses, 1)
	assert.Equal(t, "Mine", courses[0].Title)
}

func TestGetCourseHidesForeignCourses(t *testing.T) {
	app, db, cfg := newTestApp(t)
	owner, _ := createTestUser(t, db, cfg, "owner@example.com")
	course, _, _ := seedCourseWithQuiz(t, db, owner.ID)
	_, token := createTestUser(t, db, cfg, "intruder@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/courses/"+itoa(course.ID), token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCourseIncludesModulesAndCompletion(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	course, module, topic := seedCourseWithQuiz(t, db, user.ID)

	// A second, not yet generated topic: completion should be 50%.
	require.NoError(t, db.Create(&models.Topic{
		ModuleID: module.ID, CourseID: course.ID, Title: "Shaping", Order: 2,
		Status: models.TopicStatusPending,
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/courses/"+itoa(course.ID), token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Course  models.Course `json:"course"`
		Modules []struct {
			ID     uint           `json:"id"`
			Order  int            `json:"order"`
			Topics []models.Topic `json:"topics"`
		} `json:"modules"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, 50, body.Course.ProgressPercentage)
	require.Len(t, body.Modules, 1)
	assert.Equal(t, module.ID, body.Modules[0].ID)
	require.Len(t, body.Modules[0].Topics, 2)
	assert.Equal(t, topic.ID, body.Modules[0].Topics[0].ID)
}

func TestGenerateStructureRequiresDraft(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	course, _, _ := seedCourseWithQuiz(t, db, user.ID) // status ready

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/courses/"+itoa(course.ID)+"/generate-structure", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateStructureWithoutProviderFails(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")

	course := &models.Course{Title: "Chess", Goal: "Reach 2000 elo", CreatedBy: user.ID, Status: models.CourseStatusDraft}
	require.NoError(t, db.Create(course).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/courses/"+itoa(course.ID)+"/generate-structure", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// The failed attempt reverted the course to draft.
	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, models.CourseStatusDraft, reloaded.Status)
}

func TestDeleteCourseCascades(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	course, _, topic := seedCourseWithQuiz(t, db, user.ID)

	require.NoError(t, db.Create(&models.Progress{
		UserID: user.ID, CourseID: course.ID, TopicID: &topic.ID, Type: models.ProgressTypeTopic,
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/courses/"+itoa(course.ID), token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, model := range []any{&models.Course{}, &models.Module{}, &models.Topic{}, &models.Progress{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}
