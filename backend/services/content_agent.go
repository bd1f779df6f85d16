package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"learnforge/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentService generates per-topic content. Lecture notes are the hard
// dependency: every other section is grounded on them.
type ContentService struct {
	DB    *gorm.DB
	Gen   TextGenerator
	Synth SpeechSynthesizer
	Audio AudioStore
	Log   *log.Logger
}

func NewContentService(db *gorm.DB, gen TextGenerator, synth SpeechSynthesizer, audio AudioStore, logger *log.Logger) *ContentService {
	return &ContentService{DB: db, Gen: gen, Synth: synth, Audio: audio, Log: logger}
}

var difficultyInstructions = map[string]string{
	models.DifficultyBeginner: "Write for complete beginners. Use simple language, provide clear explanations, include basic examples, and avoid advanced terminology. Start from the very basics.",
	models.DifficultyMedium:   "Write for intermediate learners. Assume basic knowledge, use appropriate terminology, include more complex examples, and build upon foundational concepts.",
	models.DifficultyExpert:   "Write for advanced learners. Use advanced terminology, assume strong foundational knowledge, include complex examples, and cover advanced topics and edge cases.",
}

func (s *ContentService) generateLectureNotes(ctx context.Context, topicTitle, courseContext, difficulty string, agent AgentConfig) (string, error) {
	difficulty = normalizeDifficulty(difficulty)
	prompt := fmt.Sprintf(`You are an expert educator. Create comprehensive lecture notes for the following topic.

Course Context: %s
Topic: %s
Difficulty Level: %s

%s

Generate detailed lecture notes that cover:
- Key concepts and definitions (appropriate for %s level)
- Important principles and theories
- Examples and applications (matching the difficulty level)
- Summary points

Format the notes in clear, well-structured markdown.`,
		courseContext, topicTitle, strings.ToUpper(difficulty), difficultyInstructions[difficulty], difficulty)

	return s.Gen.Generate(ctx, prompt, agent.Provider, agent.Model, agent.APIKey)
}

// generateTutorialExercises asks for 3-5 question/answer pairs. Parse
// failures are non-fatal: the section is independently regenerable, so a
// malformed response degrades to an empty list.
func (s *ContentService) generateTutorialExercises(ctx context.Context, topicTitle, courseContext, lectureNotes string, agent AgentConfig) ([]models.TutorialExercise, error) {
	prompt := fmt.Sprintf(`You are an expert educator. Create tutorial exercises with answers for the following topic.

Course Context: %s
Topic: %s

Lecture Notes:
%s

Generate 3-5 tutorial exercises based on the lecture notes above. For each exercise:
- Provide a clear question or problem that relates to the concepts in the lecture notes
- Include a detailed answer/explanation

Format as JSON:
{
  "exercises": [
    {
      "question": "Exercise question here",
      "answer": "Detailed answer and explanation here"
    }
  ]
}

Return only valid JSON, no markdown code blocks.`, courseContext, topicTitle, lectureNotes)

	raw, err := s.Gen.Generate(ctx, prompt, agent.Provider, agent.Model, agent.APIKey)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Exercises []models.TutorialExercise `json:"exercises"`
	}
	if err := ExtractJSON(raw, &payload); err != nil {
		s.Log.Printf("failed to parse tutorial exercises: %v", err)
		return []models.TutorialExercise{}, nil
	}
	return payload.Exercises, nil
}

// generatePracticalTasks asks for exactly one hands-on task with 5-8 highly
// detailed steps that stay inside the concepts the lecture notes cover.
func (s *ContentService) generatePracticalTasks(ctx context.Context, topicTitle, courseContext, lectureNotes string, agent AgentConfig) ([]models.PracticalTask, error) {
	prompt := fmt.Sprintf(`You are an expert educator. Create ONE practical, hands-on task for the following topic.

Course Context: %s
Topic: %s

Lecture Notes:
%s

IMPORTANT: Analyze the lecture notes above to understand the difficulty level and concepts covered.
Generate EXACTLY ONE practical task that:
- Matches the difficulty level of the lecture notes (do not exceed the concepts covered)
- Builds upon the concepts explained in the lecture notes
- Has EXTREMELY DETAILED step-by-step instructions that a complete beginner can follow exactly

The task must have:
- A clear, descriptive title
- A detailed description of what needs to be done and why it matters
- At least 5-8 very detailed steps where each step is specific, actionable and states what to expect or verify

Format as JSON:
{
  "tasks": [
    {
      "title": "Task title",
      "description": "Detailed description of what the task involves",
      "steps": [
        "Step 1: Very detailed instruction with specific actions and expected outcomes",
        "Step 2: Another very detailed instruction with what to check or verify"
      ]
    }
  ]
}

Return only valid JSON, no markdown code blocks.`, courseContext, topicTitle, lectureNotes)

	raw, err := s.Gen.Generate(ctx, prompt, agent.Provider, agent.Model, agent.APIKey)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Tasks []models.PracticalTask `json:"tasks"`
	}
	if err := ExtractJSON(raw, &payload); err != nil {
		s.Log.Printf("failed to parse practical tasks: %v", err)
		return []models.PracticalTask{}, nil
	}
	return payload.Tasks, nil
}

// generateQuiz asks for exactly 10 MCQs and 5 short-answer questions.
// Short answers are reference material only and are never graded.
func (s *ContentService) generateQuiz(ctx context.Context, topicTitle, courseContext, lectureNotes string, agent AgentConfig) (models.Quiz, error) {
	prompt := fmt.Sprintf(`You are an expert educator. Create a comprehensive quiz for the following topic.

Course Context: %s
Topic: %s

Lecture Notes:
%s

Generate a quiz with:
- EXACTLY 10 Multiple Choice Questions (MCQ) with 4 options each
- EXACTLY 5 Short Answer Questions

For each MCQ:
- Question that tests understanding of key concepts from the lecture notes
- 4 options where only one is clearly correct
- Correct answer (0-3 index)
- Detailed explanation of why the correct answer is right

For each Short Answer:
- Question that requires understanding and explanation
- Sample answer that demonstrates expected depth of knowledge
- Explanation or grading criteria

Format as JSON:
{
  "mcq_questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": 0,
      "explanation": "Why this is correct"
    }
  ],
  "short_answer_questions": [
    {
      "question": "Question text",
      "answer": "Sample answer",
      "explanation": "Explanation"
    }
  ]
}

Return only valid JSON, no markdown code blocks.`, courseContext, topicTitle, lectureNotes)

	raw, err := s.Gen.Generate(ctx, prompt, agent.Provider, agent.Model, agent.APIKey)
	if err != nil {
		return models.Quiz{}, err
	}

	var quiz models.Quiz
	if err := ExtractJSON(raw, &quiz); err != nil {
		s.Log.Printf("failed to parse quiz: %v", err)
		return models.Quiz{
			MCQQuestions:         []models.MCQQuestion{},
			ShortAnswerQuestions: []models.ShortAnswerQuestion{},
		}, nil
	}
	return quiz, nil
}

// generateAudiobook synthesizes narration from markdown-stripped lecture
// notes and stores the audio under a unique name.
func (s *ContentService) generateAudiobook(ctx context.Context, lectureNotes string, agent AgentConfig) (string, error) {
	clean := TruncateForSpeech(StripMarkdown(lectureNotes), ttsMaxChars)
	if clean == "" {
		return "", nil
	}

	data, err := s.Synth.Synthesize(ctx, clean, agent.Provider, agent.APIKey)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("audiobook-%s.mp3", uuid.NewString())
	return s.Audio.SaveAudio(name, data)
}
