package parsing

import (
	"strings"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

var categoryKeywords = []struct {
	category types.QuestionCategory
	words    []string
}{
	{types.CategorySystemDesign, []string{"design", "architecture", "scale", "distributed"}},
	{types.CategoryProblemSolving, []string{"algorithm", "complexity", "debug", "optimi", "troubleshoot"}},
}

// Enrich fills difficulty and category on details that the model left empty,
// inferring difficulty from the experience level and category from the
// interview type and question wording. It also records the request context
// in the metadata.
func Enrich(p *Parsed, itype types.InterviewType, level types.ExperienceLevel) {
	if p == nil {
		return
	}
	if p.Metadata == nil {
		p.Metadata = make(map[string]any)
	}
	p.Metadata["interview_type"] = string(itype)
	if level != types.LevelAny {
		p.Metadata["experience_level"] = string(level)
	}

	for i := range p.Details {
		d := &p.Details[i]
		if d.Difficulty == "" {
			d.Difficulty = difficultyFor(level)
		}
		if d.Category == "" {
			d.Category = categoryFor(itype, d.Question)
		}
	}
}

func difficultyFor(level types.ExperienceLevel) types.DifficultyLevel {
	switch level {
	case types.LevelJunior:
		return types.DifficultyEasy
	case types.LevelSenior, types.LevelLead:
		return types.DifficultyHard
	case types.LevelMid:
		return types.DifficultyMedium
	default:
		return ""
	}
}

func categoryFor(itype types.InterviewType, question string) types.QuestionCategory {
	switch itype {
	case types.InterviewBehavioral:
		if strings.Contains(strings.ToLower(question), "lead") {
			return types.CategoryLeadership
		}
		return types.CategoryBehavioral
	case types.InterviewCaseStudy:
		return types.CategoryCaseStudy
	case types.InterviewReverse:
		return types.CategoryCultureFit
	case types.InterviewTechnical:
		lower := strings.ToLower(question)
		for _, ck := range categoryKeywords {
			for _, w := range ck.words {
				if strings.Contains(lower, w) {
					return ck.category
				}
			}
		}
		return types.CategoryTechnicalKnowledge
	default:
		return ""
	}
}
