package services

import (
	"fmt"
	"math"

	"learnforge/backend/models"
)

// ComputeQuizScore grades submitted answers against the quiz's MCQs only;
// short answers are never auto-graded. Answers are keyed "mcq_<index>" and
// the score is the rounded percentage of correct MCQs. A quiz without MCQs
// scores zero.
func ComputeQuizScore(quiz models.Quiz, answers map[string]any) int {
	total := len(quiz.MCQQuestions)
	if total == 0 {
		return 0
	}

	correct := 0
	for i, q := range quiz.MCQQuestions {
		if answerIndex(answers[fmt.Sprintf("mcq_%d", i)]) == q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// answerIndex coerces a submitted answer to an option index. JSON numbers
// decode as float64; anything unrecognizable maps to -1 and never matches.
func answerIndex(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		idx := -1
		if _, err := fmt.Sscanf(n, "%d", &idx); err != nil {
			return -1
		}
		return idx
	default:
		return -1
	}
}
