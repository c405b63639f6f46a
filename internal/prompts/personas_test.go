package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonaVariables(t *testing.T) {
	vars := PersonaVariables("Strict")
	assert.Equal(t, "Strict Interviewer", vars["persona_name"])
	assert.Equal(t, "formal and demanding", vars["persona_tone"])
	assert.Len(t, vars, 4)

	assert.Equal(t, PersonaVariables(DefaultPersona), PersonaVariables(""))
	assert.Equal(t, PersonaVariables(DefaultPersona), PersonaVariables("sarcastic"))
}

func TestCompanyContext(t *testing.T) {
	assert.Equal(t,
		"Company type: finance. Culture: risk-aware, detail-oriented, performance-driven. Values: accuracy, compliance, quantitative skills. Interview style: precise, quantitative focused.",
		CompanyContext(" Finance "))
	assert.Contains(t, CompanyContext("general"), "not specified")
}

func TestRecommendedPersonas(t *testing.T) {
	assert.Equal(t, []string{"friendly", "neutral"}, RecommendedPersonas("consulting"))
	assert.Equal(t, []string{"strict"}, RecommendedPersonas("finance"))
	assert.Empty(t, RecommendedPersonas("nonprofit"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"friendly", "neutral", "strict"}, PersonaNames())
	assert.Equal(t, []string{"consulting", "enterprise", "finance", "startup", "tech_giant"}, CompanyTypes())
}
