package prompts

import (
	"testing"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_RegisterAndGet(t *testing.T) {
	lib := NewLibrary()
	senior := NewTemplate("senior", types.TechniqueFewShot, types.InterviewTechnical, types.LevelSenior, "s", nil)
	generic := NewTemplate("generic", types.TechniqueFewShot, types.InterviewTechnical, types.LevelAny, "g", nil)
	require.NoError(t, lib.Register(senior))
	require.NoError(t, lib.Register(generic))

	tests := []struct {
		name      string
		technique types.Technique
		itype     types.InterviewType
		level     types.ExperienceLevel
		want      string
	}{
		{name: "exact match", technique: types.TechniqueFewShot, itype: types.InterviewTechnical, level: types.LevelSenior, want: "senior"},
		{name: "falls back to generic", technique: types.TechniqueFewShot, itype: types.InterviewTechnical, level: types.LevelJunior, want: "generic"},
		{name: "generic requested directly", technique: types.TechniqueFewShot, itype: types.InterviewTechnical, level: types.LevelAny, want: "generic"},
		{name: "other interview type absent", technique: types.TechniqueFewShot, itype: types.InterviewBehavioral, level: types.LevelSenior},
		{name: "other technique absent", technique: types.TechniqueZeroShot, itype: types.InterviewTechnical, level: types.LevelSenior},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lib.Get(tt.technique, tt.itype, tt.level)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestLibrary_RegisterDuplicateKeepsFirst(t *testing.T) {
	lib := NewLibrary()
	first := NewTemplate("first", types.TechniqueZeroShot, types.InterviewBehavioral, types.LevelMid, "1", nil)
	second := NewTemplate("second", types.TechniqueZeroShot, types.InterviewBehavioral, types.LevelMid, "2", nil)

	require.NoError(t, lib.Register(first))
	err := lib.Register(second)
	require.Error(t, err)

	var dup *DuplicateTemplateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "first", dup.Existing)
	assert.Equal(t, "first", lib.Get(types.TechniqueZeroShot, types.InterviewBehavioral, types.LevelMid).Name)
	assert.Equal(t, 1, lib.Len())
}

func TestLibrary_RegisterRejectsInvalid(t *testing.T) {
	lib := NewLibrary()
	assert.Error(t, lib.Register(nil))
	assert.Error(t, lib.Register(NewTemplate("bad", "tree_of_thought", types.InterviewTechnical, types.LevelAny, "x", nil)))
	assert.Error(t, lib.Register(NewTemplate("bad", types.TechniqueFewShot, "panel", types.LevelAny, "x", nil)))
	assert.Error(t, lib.Register(NewTemplate("bad", types.TechniqueFewShot, types.InterviewTechnical, "intern", "x", nil)))
	assert.Zero(t, lib.Len())
}

func TestLookupKeys(t *testing.T) {
	keys := LookupKeys(types.TechniqueRoleBased, types.InterviewCaseStudy, types.LevelLead)
	require.Len(t, keys, 2)
	assert.Equal(t, types.LevelLead, keys[0].Level)
	assert.Equal(t, types.LevelAny, keys[1].Level)
	assert.Equal(t, keys[0].Technique, keys[1].Technique)
	assert.Equal(t, keys[0].InterviewType, keys[1].InterviewType)

	assert.Len(t, LookupKeys(types.TechniqueRoleBased, types.InterviewCaseStudy, types.LevelAny), 1)
}

func TestLibrary_ListFilters(t *testing.T) {
	lib := NewLibrary()
	for _, tmpl := range []*Template{
		NewTemplate("a", types.TechniqueFewShot, types.InterviewTechnical, types.LevelJunior, "x", nil),
		NewTemplate("b", types.TechniqueFewShot, types.InterviewBehavioral, types.LevelJunior, "x", nil),
		NewTemplate("c", types.TechniqueZeroShot, types.InterviewTechnical, types.LevelAny, "x", nil),
	} {
		require.NoError(t, lib.Register(tmpl))
	}

	assert.Len(t, lib.List(Filter{}), 3)
	assert.Len(t, lib.List(Filter{Technique: types.TechniqueFewShot}), 2)
	assert.Len(t, lib.List(Filter{InterviewType: types.InterviewTechnical}), 2)

	got := lib.List(Filter{Technique: types.TechniqueZeroShot, InterviewType: types.InterviewTechnical})
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Name)

	assert.Empty(t, lib.List(Filter{Technique: types.TechniqueRoleBased}))
	assert.Equal(t, []types.Technique{types.TechniqueFewShot, types.TechniqueZeroShot}, lib.Techniques())
}

func TestLibrary_IndependentInstances(t *testing.T) {
	a, b := NewLibrary(), NewLibrary()
	require.NoError(t, a.Register(NewTemplate("only-a", types.TechniqueFewShot, types.InterviewTechnical, types.LevelAny, "x", nil)))
	assert.Equal(t, 1, a.Len())
	assert.Zero(t, b.Len())
}
