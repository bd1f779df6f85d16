package services

import (
	"context"
	"errors"
	"fmt"

	"learnforge/backend/models"

	"golang.org/x/sync/errgroup"
)

// Topic content sections that can be generated or regenerated individually.
const (
	SectionLectureNotes      = "lecture_notes"
	SectionAudio             = "audio"
	SectionTutorialExercises = "tutorial_exercises"
	SectionPracticalTasks    = "practical_tasks"
	SectionQuiz              = "quiz"
)

var (
	ErrLectureNotesRequired = errors.New("lecture notes must be generated first")
	ErrUnknownSection       = errors.New("unknown content section")
)

// GenerateTopicContent runs the full content pipeline for one topic:
// lecture notes first (persisted as soon as they exist), then exercises,
// tasks and quiz concurrently, with audio narration alongside. The topic
// moves pending -> generating -> ready, falling back to pending on failure.
// Audio is best-effort: a narration failure never fails the topic.
func (s *ContentService) GenerateTopicContent(ctx context.Context, topic *models.Topic, course *models.Course, module *models.Module, agents map[AgentRole]AgentConfig) error {
	topic.Status = models.TopicStatusGenerating
	if err := s.DB.Save(topic).Error; err != nil {
		return err
	}

	if err := s.runGeneration(ctx, topic, course, module, agents); err != nil {
		topic.Status = models.TopicStatusPending
		if saveErr := s.DB.Save(topic).Error; saveErr != nil {
			s.Log.Printf("failed to revert topic %d to pending: %v", topic.ID, saveErr)
		}
		return err
	}

	topic.Status = models.TopicStatusReady
	return s.DB.Save(topic).Error
}

func (s *ContentService) runGeneration(ctx context.Context, topic *models.Topic, course *models.Course, module *models.Module, agents map[AgentRole]AgentConfig) error {
	courseContext := course.Title + ": " + course.Goal

	notes, err := s.generateLectureNotes(ctx, topic.Title, courseContext, module.DifficultyLevel, agents[AgentLectureNotes])
	if err != nil {
		return fmt.Errorf("lecture notes: %w", err)
	}
	topic.LectureNotes = notes
	// Persist notes immediately so a later failure still leaves them behind.
	if err := s.DB.Save(topic).Error; err != nil {
		return err
	}

	var (
		exercises []models.TutorialExercise
		tasks     []models.PracticalTask
		quiz      models.Quiz
		audioURL  string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exercises, err = s.generateTutorialExercises(gctx, topic.Title, courseContext, notes, agents[AgentTutorialExercise])
		if err != nil {
			return fmt.Errorf("tutorial exercises: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = s.generatePracticalTasks(gctx, topic.Title, courseContext, notes, agents[AgentPracticalTask])
		if err != nil {
			return fmt.Errorf("practical tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		quiz, err = s.generateQuiz(gctx, topic.Title, courseContext, notes, agents[AgentQuiz])
		if err != nil {
			return fmt.Errorf("quiz: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		url, err := s.generateAudiobook(gctx, notes, agents[AgentAudiobook])
		if err != nil {
			s.Log.Printf("audiobook generation failed for topic %d: %v", topic.ID, err)
			return nil
		}
		audioURL = url
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	topic.TutorialExercises = exercises
	topic.PracticalTasks = tasks
	topic.Quiz = quiz
	topic.AudiobookURL = audioURL
	return nil
}

// RegenerateSection replaces one content section in place. Every section
// except the lecture notes themselves requires lecture notes to exist, since
// they are the source material. Topic status is left untouched; unlike full
// generation, an audio failure here is reported to the caller.
func (s *ContentService) RegenerateSection(ctx context.Context, topic *models.Topic, course *models.Course, module *models.Module, section string, agents map[AgentRole]AgentConfig) error {
	if section != SectionLectureNotes && topic.LectureNotes == "" {
		return ErrLectureNotesRequired
	}
	courseContext := course.Title + ": " + course.Goal

	switch section {
	case SectionLectureNotes:
		notes, err := s.generateLectureNotes(ctx, topic.Title, courseContext, module.DifficultyLevel, agents[AgentLectureNotes])
		if err != nil {
			return err
		}
		topic.LectureNotes = notes
	case SectionTutorialExercises:
		exercises, err := s.generateTutorialExercises(ctx, topic.Title, courseContext, topic.LectureNotes, agents[AgentTutorialExercise])
		if err != nil {
			return err
		}
		topic.TutorialExercises = exercises
	case SectionPracticalTasks:
		tasks, err := s.generatePracticalTasks(ctx, topic.Title, courseContext, topic.LectureNotes, agents[AgentPracticalTask])
		if err != nil {
			return err
		}
		topic.PracticalTasks = tasks
	case SectionQuiz:
		quiz, err := s.generateQuiz(ctx, topic.Title, courseContext, topic.LectureNotes, agents[AgentQuiz])
		if err != nil {
			return err
		}
		topic.Quiz = quiz
	case SectionAudio:
		url, err := s.generateAudiobook(ctx, topic.LectureNotes, agents[AgentAudiobook])
		if err != nil {
			return err
		}
		topic.AudiobookURL = url
	default:
		return ErrUnknownSection
	}

	return s.DB.Save(topic).Error
}
