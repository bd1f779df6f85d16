package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProgressTypeCourse = "course"
	ProgressTypeModule = "module"
	ProgressTypeTopic  = "topic"
)

// Progress is keyed by (user, course, module-or-null, topic-or-null, type);
// at most one row exists per tuple.
type Progress struct {
	gorm.Model
	UserID         uint          `gorm:"index:idx_progress_user_course" json:"user_id"`
	CourseID       uint          `gorm:"index:idx_progress_user_course" json:"course_id"`
	ModuleID       *uint         `json:"module_id"`
	TopicID        *uint         `gorm:"index" json:"topic_id"`
	Type           string        `json:"type"` // course, module, topic
	Completed      bool          `json:"completed"`
	CompletedAt    *time.Time    `json:"completed_at"`
	QuizScore      *int          `json:"quiz_score"` // percentage, multiple-choice only
	QuizAttempts   []QuizAttempt `gorm:"serializer:json" json:"quiz_attempts"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
}

type QuizAttempt struct {
	Score       int            `json:"score"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Answers     map[string]any `json:"answers"` // "mcq_<i>" -> option index, "saq_<i>" -> free text
}
