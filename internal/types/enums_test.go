package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterviewType(t *testing.T) {
	tests := []struct {
		input   string
		want    InterviewType
		wantErr bool
	}{
		{input: "technical", want: InterviewTechnical},
		{input: "Case Studies", want: InterviewCaseStudy},
		{input: "questions for employer", want: InterviewReverse},
		{input: " BEHAVIORAL ", want: InterviewBehavioral},
		{input: "panel", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterviewType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExperienceLevel(t *testing.T) {
	got, err := ParseExperienceLevel("Mid-level (3-5 years)")
	require.NoError(t, err)
	assert.Equal(t, LevelMid, got)

	got, err = ParseExperienceLevel("lead")
	require.NoError(t, err)
	assert.Equal(t, LevelLead, got)

	_, err = ParseExperienceLevel("")
	assert.Error(t, err)
}

func TestParseTechnique(t *testing.T) {
	tests := map[string]Technique{
		"few_shot":          TechniqueFewShot,
		"few-shot":          TechniqueFewShot,
		"Chain-of-Thought":  TechniqueChainOfThought,
		"chain-of-thought":  TechniqueChainOfThought,
		"Structured Output": TechniqueStructuredOutput,
		"role_based":        TechniqueRoleBased,
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := ParseTechnique(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseTechnique("tree-of-thought")
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Senior (5+ years)", LevelSenior.Label())
	assert.Equal(t, "Any level", LevelAny.Label())
	assert.Equal(t, "Questions for Employer", InterviewReverse.Label())
	assert.Equal(t, "Few-Shot Learning", TechniqueFewShot.Label())
	assert.False(t, LevelAny.Valid())
	assert.True(t, TechniqueRoleBased.Valid())
	assert.Len(t, AllTechniques(), 5)
}
