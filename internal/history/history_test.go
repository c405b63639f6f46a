package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

func TestFromResult(t *testing.T) {
	req := types.GenerationRequest{
		JobDescription:  "Backend   engineer\n working on  payments " + strings.Repeat("x", 300),
		InterviewType:   types.InterviewBehavioral,
		ExperienceLevel: types.LevelMid,
		Technique:       types.TechniqueZeroShot,
		QuestionCount:   4,
		AI:              types.DefaultAISettings(),
	}
	created := time.Date(2026, 5, 4, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	res := &types.GenerationResult{
		SessionID:       uuid.New(),
		Questions:       []string{"Tell me about a time you disagreed with your manager."},
		Recommendations: []string{"Prepare STAR stories"},
		Cost:            types.CostBreakdown{TotalCost: 0.01},
		Model:           "gpt-4o-mini",
		Success:         true,
		CreatedAt:       created,
	}

	rec := FromResult(req, res)

	assert.Equal(t, res.SessionID, rec.ID)
	assert.Equal(t, created.UTC(), rec.CreatedAt)
	assert.Equal(t, types.TechniqueZeroShot, rec.Technique)
	assert.Equal(t, 4, rec.QuestionCount)
	assert.Equal(t, "gpt-4o-mini", rec.Model)
	assert.True(t, strings.HasPrefix(rec.JobExcerpt, "Backend engineer working on payments x"))
	assert.True(t, strings.HasSuffix(rec.JobExcerpt, "..."))
	assert.Equal(t, res.Questions, rec.Questions)
	assert.True(t, rec.Success)
}

func TestFromResult_NilResult(t *testing.T) {
	rec := FromResult(types.GenerationRequest{JobDescription: "short", AI: types.DefaultAISettings()}, nil)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "short", rec.JobExcerpt)
	assert.Equal(t, types.DefaultModel, rec.Model)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, "NONE", "")
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)
	require.NoError(t, s.Append(ctx, Record{}))
	got, err := s.List(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Open(ctx, "mongodb", "")
	assert.Error(t, err)
}
