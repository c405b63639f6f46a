// Package types provides type definitions shared across the interview question pipeline.
package types

import (
	"fmt"
	"strings"
)

// InterviewType identifies the kind of interview questions are generated for.
type InterviewType string

const (
	InterviewTechnical  InterviewType = "technical"
	InterviewBehavioral InterviewType = "behavioral"
	InterviewCaseStudy  InterviewType = "case_study"
	InterviewReverse    InterviewType = "reverse"
)

var interviewTypeLabels = map[InterviewType]string{
	InterviewTechnical:  "Technical",
	InterviewBehavioral: "Behavioral",
	InterviewCaseStudy:  "Case Studies",
	InterviewReverse:    "Questions for Employer",
}

// AllInterviewTypes returns every supported interview type in display order.
func AllInterviewTypes() []InterviewType {
	return []InterviewType{InterviewTechnical, InterviewBehavioral, InterviewCaseStudy, InterviewReverse}
}

// Label returns the human-readable name used inside prompts.
func (t InterviewType) Label() string {
	if l, ok := interviewTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is a known interview type.
func (t InterviewType) Valid() bool {
	_, ok := interviewTypeLabels[t]
	return ok
}

// ParseInterviewType accepts either the value or the label, case-insensitively.
func ParseInterviewType(s string) (InterviewType, error) {
	return parseEnum("interview type", s, AllInterviewTypes(), InterviewType.Label)
}

// ExperienceLevel is the candidate seniority bucket. The zero value means
// "any level" and marks generic templates.
type ExperienceLevel string

const (
	LevelAny    ExperienceLevel = ""
	LevelJunior ExperienceLevel = "junior"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
	LevelLead   ExperienceLevel = "lead"
)

var experienceLevelLabels = map[ExperienceLevel]string{
	LevelJunior: "Junior (1-2 years)",
	LevelMid:    "Mid-level (3-5 years)",
	LevelSenior: "Senior (5+ years)",
	LevelLead:   "Lead/Principal",
}

// AllExperienceLevels returns the concrete levels, excluding LevelAny.
func AllExperienceLevels() []ExperienceLevel {
	return []ExperienceLevel{LevelJunior, LevelMid, LevelSenior, LevelLead}
}

// Label returns the human-readable name used inside prompts.
func (l ExperienceLevel) Label() string {
	if l == LevelAny {
		return "Any level"
	}
	if s, ok := experienceLevelLabels[l]; ok {
		return s
	}
	return string(l)
}

// Valid reports whether l is a concrete, known level.
func (l ExperienceLevel) Valid() bool {
	_, ok := experienceLevelLabels[l]
	return ok
}

// ParseExperienceLevel accepts either the value or the label, case-insensitively.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	return parseEnum("experience level", s, AllExperienceLevels(), ExperienceLevel.Label)
}

// Technique is a prompting strategy governing template wording.
type Technique string

const (
	TechniqueFewShot          Technique = "few_shot"
	TechniqueChainOfThought   Technique = "chain_of_thought"
	TechniqueZeroShot         Technique = "zero_shot"
	TechniqueRoleBased        Technique = "role_based"
	TechniqueStructuredOutput Technique = "structured_output"
)

var techniqueLabels = map[Technique]string{
	TechniqueFewShot:          "Few-Shot Learning",
	TechniqueChainOfThought:   "Chain-of-Thought",
	TechniqueZeroShot:         "Zero-Shot",
	TechniqueRoleBased:        "Role-Based",
	TechniqueStructuredOutput: "Structured Output",
}

// AllTechniques returns every supported technique.
func AllTechniques() []Technique {
	return []Technique{
		TechniqueFewShot,
		TechniqueChainOfThought,
		TechniqueZeroShot,
		TechniqueRoleBased,
		TechniqueStructuredOutput,
	}
}

// Label returns the display name of the technique.
func (t Technique) Label() string {
	if l, ok := techniqueLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is a known technique.
func (t Technique) Valid() bool {
	_, ok := techniqueLabels[t]
	return ok
}

// ParseTechnique accepts the value, the label, or a hyphenated form such as "few-shot".
func ParseTechnique(s string) (Technique, error) {
	if t, err := parseEnum("technique", s, AllTechniques(), Technique.Label); err == nil {
		return t, nil
	}
	return parseEnum("technique", strings.ReplaceAll(s, "-", "_"), AllTechniques(), Technique.Label)
}

// DifficultyLevel is the difficulty a structured response assigns to a question.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuestionCategory is the category a structured response assigns to a question.
type QuestionCategory string

const (
	CategoryTechnicalKnowledge QuestionCategory = "technical_knowledge"
	CategoryProblemSolving     QuestionCategory = "problem_solving"
	CategorySystemDesign       QuestionCategory = "system_design"
	CategoryBehavioral         QuestionCategory = "behavioral"
	CategoryLeadership         QuestionCategory = "leadership"
	CategoryCommunication      QuestionCategory = "communication"
	CategoryCultureFit         QuestionCategory = "culture_fit"
	CategoryCaseStudy          QuestionCategory = "case_study"
)

func parseEnum[T ~string](kind, s string, all []T, label func(T) string) (T, error) {
	needle := strings.TrimSpace(s)
	for _, v := range all {
		if strings.EqualFold(needle, string(v)) || strings.EqualFold(needle, label(v)) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}
