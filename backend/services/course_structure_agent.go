package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"learnforge/backend/models"

	"gorm.io/gorm"
)

const (
	expectedModuleCount     = 30
	expectedModulesPerLevel = 10
	expectedTopicsPerModule = 5
)

var (
	// ErrStructureParseFailed means the model response held no usable JSON.
	ErrStructureParseFailed = errors.New("failed to generate valid course structure")
	// ErrInvalidStructure means the parsed structure broke the curriculum shape.
	ErrInvalidStructure = errors.New("invalid course structure")
)

// CourseStructure is the payload the course structure agent must return.
type CourseStructure struct {
	EstimatedTimeline string       `json:"estimated_timeline"`
	Modules           []ModuleSpec `json:"modules"`
}

type ModuleSpec struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DifficultyLevel string   `json:"difficulty_level"`
	Topics          []string `json:"topics"`
}

// StructureService drives whole-course curriculum generation: one model call
// produces the full module/topic skeleton, which is validated and persisted
// in difficulty order.
type StructureService struct {
	DB  *gorm.DB
	Gen TextGenerator
	Log *log.Logger
}

func NewStructureService(db *gorm.DB, gen TextGenerator, logger *log.Logger) *StructureService {
	return &StructureService{DB: db, Gen: gen, Log: logger}
}

// GenerateStructure moves the course draft -> generating -> ready, reverting
// to draft on any failure. No module or topic row is written until the
// returned structure passes validation.
func (s *StructureService) GenerateStructure(ctx context.Context, course *models.Course, agent AgentConfig) error {
	course.Status = models.CourseStatusGenerating
	if err := s.DB.Save(course).Error; err != nil {
		return err
	}

	if err := s.generate(ctx, course, agent); err != nil {
		course.Status = models.CourseStatusDraft
		if saveErr := s.DB.Save(course).Error; saveErr != nil {
			s.Log.Printf("failed to revert course %d to draft: %v", course.ID, saveErr)
		}
		return err
	}
	return nil
}

func (s *StructureService) generate(ctx context.Context, course *models.Course, agent AgentConfig) error {
	prompt := buildStructurePrompt(course.Title, course.Goal, course.OutlineText)

	raw, err := s.Gen.Generate(ctx, prompt, agent.Provider, agent.Model, agent.APIKey)
	if err != nil {
		return err
	}

	var structure CourseStructure
	if err := ExtractJSON(raw, &structure); err != nil {
		s.Log.Printf("failed to parse course structure: %v", err)
		return ErrStructureParseFailed
	}

	if err := validateStructure(&structure); err != nil {
		return err
	}

	// Beginner modules first, then medium, then expert; relative order
	// within a tier is preserved.
	sort.SliceStable(structure.Modules, func(i, j int) bool {
		return tierRank(structure.Modules[i].DifficultyLevel) < tierRank(structure.Modules[j].DifficultyLevel)
	})

	course.TargetTimeline = structure.EstimatedTimeline
	if course.TargetTimeline == "" {
		course.TargetTimeline = "36 months"
	}
	course.Status = models.CourseStatusReady

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for order, spec := range structure.Modules {
			module := models.Module{
				CourseID:        course.ID,
				Title:           spec.Title,
				Description:     spec.Description,
				DifficultyLevel: normalizeDifficulty(spec.DifficultyLevel),
				Order:           order + 1,
			}
			if err := tx.Create(&module).Error; err != nil {
				return err
			}

			for i, topicTitle := range spec.Topics {
				topic := models.Topic{
					ModuleID: module.ID,
					CourseID: course.ID,
					Title:    topicTitle,
					Order:    i + 1,
					Status:   models.TopicStatusPending,
				}
				if err := tx.Create(&topic).Error; err != nil {
					return err
				}
			}
		}
		return tx.Save(course).Error
	})
}

// validateStructure enforces the fixed curriculum shape. The counts are
// deliberate: the UI and timeline estimate assume 30 modules of 5 topics, so
// structural drift fails loudly instead of producing a misshapen course.
func validateStructure(structure *CourseStructure) error {
	counts := map[string]int{}
	for _, m := range structure.Modules {
		counts[normalizeDifficulty(m.DifficultyLevel)]++
	}

	beginner := counts[models.DifficultyBeginner]
	medium := counts[models.DifficultyMedium]
	expert := counts[models.DifficultyExpert]
	if len(structure.Modules) != expectedModuleCount ||
		beginner != expectedModulesPerLevel ||
		medium != expectedModulesPerLevel ||
		expert != expectedModulesPerLevel {
		return fmt.Errorf(
			"%w: expected %d modules (%d beginner, %d medium, %d expert), got %d modules (%d beginner, %d medium, %d expert); try generating again",
			ErrInvalidStructure,
			expectedModuleCount, expectedModulesPerLevel, expectedModulesPerLevel, expectedModulesPerLevel,
			len(structure.Modules), beginner, medium, expert)
	}

	for _, m := range structure.Modules {
		if len(m.Topics) != expectedTopicsPerModule {
			return fmt.Errorf("%w: module %q (%s) has %d topics, each module must have exactly %d; try generating again",
				ErrInvalidStructure, m.Title, m.DifficultyLevel, len(m.Topics), expectedTopicsPerModule)
		}
	}
	return nil
}

// tierRank orders difficulty tiers; unrecognized values rank as beginner.
func tierRank(level string) int {
	switch strings.ToLower(level) {
	case models.DifficultyMedium:
		return 2
	case models.DifficultyExpert:
		return 3
	default:
		return 1
	}
}

func normalizeDifficulty(level string) string {
	switch strings.ToLower(level) {
	case models.DifficultyMedium:
		return models.DifficultyMedium
	case models.DifficultyExpert:
		return models.DifficultyExpert
	default:
		return models.DifficultyBeginner
	}
}

func buildStructurePrompt(title, goal, outline string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert course designer. Create a comprehensive structured course breakdown organized by difficulty levels.

Course Title: %s
Course Goal: %s
`, title, goal)
	if outline != "" {
		fmt.Fprintf(&b, "Course Outline:\n%s\n", outline)
	}
	b.WriteString(`
CRITICAL REQUIREMENTS - YOU MUST FOLLOW THESE EXACTLY:
1. Generate EXACTLY 30 modules total:
   - EXACTLY 10 modules for BEGINNER level (modules 1-10)
   - EXACTLY 10 modules for MEDIUM level (modules 11-20)
   - EXACTLY 10 modules for EXPERT level (modules 21-30)

2. Each module must have:
   - title: Unique, descriptive module title
   - description: Brief description of what the module covers
   - difficulty_level: "beginner", "medium", or "expert"
   - topics: Array of EXACTLY 5 unique topic titles per module

3. Topic Requirements:
   - NO topic may be repeated across modules
   - All topics must relate to the main course goal
   - Topics build progressively within each difficulty level

4. Timeline Estimation:
   - 30 modules x 5 topics per module = 150 topics total
   - Always return "36 months" as the estimated timeline

5. Module Order:
   - All 10 beginner modules first, then all 10 medium, then all 10 expert

Format your response as valid JSON only, no markdown, no code blocks:
{
  "estimated_timeline": "36 months",
  "modules": [
    {
      "title": "Module 1 Title",
      "description": "Module description",
      "difficulty_level": "beginner",
      "topics": ["Topic 1", "Topic 2", "Topic 3", "Topic 4", "Topic 5"]
    }
  ]
}

Verify before responding: exactly 30 modules (10 per level), exactly 5 topics each, 150 unique topics, estimated_timeline set to "36 months".`)
	return b.String()
}
