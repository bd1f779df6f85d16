package models

import "gorm.io/gorm"

const (
	CourseStatusDraft      = "draft"
	CourseStatusGenerating = "generating"
	CourseStatusReady      = "ready"
	CourseStatusCompleted  = "completed"

	TopicStatusPending    = "pending"
	TopicStatusGenerating = "generating"
	TopicStatusReady      = "ready"

	DifficultyBeginner = "beginner"
	DifficultyMedium   = "medium"
	DifficultyExpert   = "expert"
)

type Course struct {
	gorm.Model
	Title              string `gorm:"not null" json:"title"`
	Goal               string `gorm:"not null" json:"goal"`
	TargetTimeline     string `json:"target_timeline"` // estimated during structure generation
	OutlineFile        string `json:"outline_file"`    // uploaded PDF/TXT/MD file name
	OutlineText        string `json:"outline_text"`    // text extracted from the outline file
	CreatedBy          uint   `gorm:"index" json:"created_by"`
	Status             string `gorm:"default:draft" json:"status"` // draft, generating, ready, completed
	ProgressPercentage int    `json:"progress_percentage"`
}

type Module struct {
	gorm.Model
	CourseID        uint   `gorm:"index:idx_modules_course_order" json:"course_id"`
	Title           string `gorm:"not null" json:"title"`
	Description     string `json:"description"`
	DifficultyLevel string `gorm:"default:beginner" json:"difficulty_level"` // beginner, medium, expert
	Order           int    `gorm:"index:idx_modules_course_order" json:"order"`
}

type Topic struct {
	gorm.Model
	ModuleID          uint               `gorm:"index:idx_topics_module_order" json:"module_id"`
	CourseID          uint               `gorm:"index" json:"course_id"`
	Title             string             `gorm:"not null" json:"title"`
	Order             int                `gorm:"index:idx_topics_module_order" json:"order"`
	LectureNotes      string             `json:"lecture_notes"`
	TutorialExercises []TutorialExercise `gorm:"serializer:json" json:"tutorial_exercises"`
	PracticalTasks    []PracticalTask    `gorm:"serializer:json" json:"practical_tasks"`
	Quiz              Quiz               `gorm:"serializer:json" json:"quiz"`
	AudiobookURL      string             `json:"audiobook_url"`
	Status            string             `gorm:"default:pending" json:"status"` // pending, generating, ready
}

type TutorialExercise struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type PracticalTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Completed   bool     `json:"completed"`
}

type Quiz struct {
	MCQQuestions         []MCQQuestion         `json:"mcq_questions"`
	ShortAnswerQuestions []ShortAnswerQuestion `json:"short_answer_questions"`
}

type MCQQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // index into Options
	Explanation   string   `json:"explanation"`
}

type ShortAnswerQuestion struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"` // sample answer, never graded
	Explanation string `json:"explanation"`
}
