package generator

import (
	"strconv"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/prompts"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// Additional context keys with special meaning.
const (
	ContextPersona     = "persona"
	ContextCompanyType = "company_type"
)

const (
	defaultCompanyType = "general"
	defaultFocusAreas  = "general skills"
)

// BuildVariables returns the placeholder values for req. Entries from
// req.AdditionalContext override the derived values.
func BuildVariables(req types.GenerationRequest) map[string]string {
	count := strconv.Itoa(req.QuestionCount)
	vars := map[string]string{
		"job_description":  req.JobDescription,
		"question_count":   count,
		"num_questions":    count,
		"interview_type":   req.InterviewType.Label(),
		"experience_level": req.ExperienceLevel.Label(),
		"company_type":     defaultCompanyType,
		"focus_areas":      defaultFocusAreas,
		"company_context":  prompts.CompanyContext(req.AdditionalContext[ContextCompanyType]),
	}
	for k, v := range prompts.PersonaVariables(req.AdditionalContext[ContextPersona]) {
		vars[k] = v
	}
	for k, v := range req.AdditionalContext {
		vars[k] = v
	}
	return vars
}
