package controllers_test

import (
	"net/http"
	"testing"

	"learnforge/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTopic(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, user.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/topics/"+itoa(topic.ID), token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Topic
	decodeBody(t, resp, &got)
	assert.Equal(t, topic.ID, got.ID)
	assert.Len(t, got.Quiz.MCQQuestions, 2)
}

func TestGetTopicHidesForeignTopics(t *testing.T) {
	app, db, cfg := newTestApp(t)
	owner, _ := createTestUser(t, db, cfg, "owner@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, owner.ID)
	_, token := createTestUser(t, db, cfg, "intruder@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/topics/"+itoa(topic.ID), token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegenerateSectionRequiresLectureNotes(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, user.ID) // no lecture notes yet

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/topics/"+itoa(topic.ID)+"/regenerate/quiz", token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "lecture notes must be generated first", body.Error)
}

func TestRegenerateUnknownSection(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, user.ID)

	topic.LectureNotes = "notes"
	require.NoError(t, db.Save(topic).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/topics/"+itoa(topic.ID)+"/regenerate/flashcards", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateContentWithoutProviderReverts(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, user.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/topics/"+itoa(topic.ID)+"/generate-content", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var reloaded models.Topic
	require.NoError(t, db.First(&reloaded, topic.ID).Error)
	assert.Equal(t, models.TopicStatusPending, reloaded.Status)
}

func TestUpdatePracticalTask(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, user.ID)

	topic.PracticalTasks = []models.PracticalTask{
		{Title: "Bake a loaf", Description: "d", Steps: []string{"s1", "s2", "s3", "s4", "s5"}},
	}
	require.NoError(t, db.Save(topic).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/topics/"+itoa(topic.ID)+"/practical-task", token, map[string]any{
		"task_index": 0,
		"completed":  true,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.Topic
	require.NoError(t, db.First(&reloaded, topic.ID).Error)
	require.Len(t, reloaded.PracticalTasks, 1)
	assert.True(t, reloaded.PracticalTasks[0].Completed)
}

func TestUpdatePracticalTaskBounds(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createTestUser(t, db, cfg, "ada@example.com")
	_, _, topic := seedCourseWithQuiz(t, db, user.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/topics/"+itoa(topic.ID)+"/practical-task", token, map[string]any{
		"task_index": 3,
		"completed":  true,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
