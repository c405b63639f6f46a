package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/history"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/parsing"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

const modelReply = `Here are your interview questions:
1. How would you design a multi-region payment ledger?
2. How do you find the cause of a latency spike in a Go service?
3. What are the trade-offs between gRPC and REST for internal APIs?

Recommendations:
- Review idempotency key patterns
- Prepare a story about a production incident`

const jobText = "Senior Go engineer building payment infrastructure on Kubernetes and PostgreSQL."

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// setupEnv points the CLI at a fake model server and a temp history file.
func setupEnv(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dbPath := filepath.Join(t.TempDir(), "history.db")
	for k, v := range map[string]string{
		"OPENAI_BASE_URL":       server.URL,
		"OPENAI_API_KEY":        "test-key",
		"AI_PROVIDER":           "openai",
		"DEFAULT_MODEL":         "",
		"TEMPERATURE":           "",
		"MAX_TOKENS":            "",
		"AI_TIMEOUT":            "",
		"RATE_LIMIT_CALLS":      "",
		"RATE_LIMIT_WINDOW":     "",
		"HISTORY_DRIVER":        "sqlite",
		"HISTORY_DSN":           dbPath,
		"DATABASE_URL":          "",
		"SESSION_HISTORY_LIMIT": "",
		"LOG_MODE":              "production",
	} {
		t.Setenv(k, v)
	}
	return dbPath
}

func chatReply(content string, calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 1000, "completion_tokens": 500},
		})
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	var calls int32
	dbPath := setupEnv(t, chatReply(modelReply, &calls))

	out, err := executeCommand(t, "generate", "--job", jobText, "--level", "senior", "--count", "2")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, out, "1. How would you design a multi-region payment ledger?")
	assert.Contains(t, out, "2. How do you find the cause of a latency spike in a Go service?")
	assert.NotContains(t, out, "gRPC and REST", "truncated to --count")
	assert.Contains(t, out, "Review idempotency key patterns")
	assert.Contains(t, out, "Total: $0.007500")

	store, err := history.NewSQLiteStore(context.Background(), dbPath)
	require.NoError(t, err)
	defer store.Close()
	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)
	assert.Equal(t, types.LevelSenior, records[0].ExperienceLevel)
	assert.Len(t, records[0].Questions, 2)

	out, err = executeCommand(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "SESSION HISTORY (1)")
	assert.Contains(t, out, "few_shot/technical/senior")
}

func TestGenerate_JSONOutput(t *testing.T) {
	setupEnv(t, chatReply(modelReply, nil))

	out, err := executeCommand(t, "generate", "--job", jobText, "--json", "--no-history",
		"--technique", "role_based", "--persona", "strict", "--company-type", "finance")
	require.NoError(t, err)

	var res types.GenerationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Len(t, res.Questions, 3)
	assert.Equal(t, types.TechniqueRoleBased, res.Technique)
	assert.Equal(t, "gpt-4o", res.Model)
}

func TestGenerate_FromFile(t *testing.T) {
	setupEnv(t, chatReply(modelReply, nil))
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte(jobText), 0o644))

	out, err := executeCommand(t, "generate", "-f", path, "--type", "Behavioral", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "INTERVIEW QUESTIONS")
}

func TestGenerate_ModelFailureIsRecorded(t *testing.T) {
	var calls int32
	dbPath := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	})

	out, err := executeCommand(t, "generate", "--job", jobText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Contains(t, out, "GENERATION FAILED")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "client errors are not retried")

	store, err := history.NewSQLiteStore(context.Background(), dbPath)
	require.NoError(t, err)
	defer store.Close()
	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestGenerate_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{"no job source", []string{"generate"}, nil, "exactly one of"},
		{"two job sources", []string{"generate", "--job", jobText, "--job-url", "https://example.com"}, nil, "exactly one of"},
		{"bad type", []string{"generate", "--job", jobText, "--type", "panel"}, nil, "interview type"},
		{"bad level", []string{"generate", "--job", jobText, "--level", "intern"}, nil, "experience level"},
		{"bad technique", []string{"generate", "--job", jobText, "--technique", "magic"}, nil, "technique"},
		{"count too high", []string{"generate", "--job", jobText, "--count", "50"}, nil, "--count"},
		{"unknown persona", []string{"generate", "--job", jobText, "--persona", "pirate"}, nil, "unknown persona"},
		{"short job", []string{"generate", "--job", "Go dev"}, nil, "between 10 and 5000"},
		{"missing key", []string{"generate", "--job", jobText}, map[string]string{"OPENAI_API_KEY": ""}, "OPENAI_API_KEY"},
		{"bad provider", []string{"generate", "--job", jobText, "--provider", "anthropic"}, nil, "unknown provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			setupEnv(t, chatReply(modelReply, &calls))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, atomic.LoadInt32(&calls))
		})
	}
}

func TestTemplates(t *testing.T) {
	out, err := executeCommand(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATES (44)")
	assert.Contains(t, out, "few_shot_technical_senior")

	out, err = executeCommand(t, "templates", "--technique", "role_based", "--coverage")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATES (4)")
	assert.NotContains(t, out, "few_shot_technical_senior")
	assert.Contains(t, out, "TEMPLATE COVERAGE")

	_, err = executeCommand(t, "templates", "--type", "panel")
	assert.Error(t, err)
}

func TestPricing(t *testing.T) {
	out, err := executeCommand(t, "pricing")
	require.NoError(t, err)
	for _, model := range []string{"gpt-4o", "gpt-4o-mini", "gemini-2.5-pro"} {
		assert.Contains(t, out, model)
	}

	out, err = executeCommand(t, "pricing", "--model", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.NotContains(t, out, "gpt-4o")

	_, err = executeCommand(t, "pricing", "--model", "llama-3")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	out, err := executeCommand(t, "estimate", "--input-tokens", "1000", "--output-tokens", "500")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o: Input: $0.002500 (1,000 tokens) | Output: $0.005000 (500 tokens) | Total: $0.007500\n", out)

	_, err = executeCommand(t, "estimate", "--model", "unknown-model")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.txt")
	require.NoError(t, os.WriteFile(path, []byte(modelReply), 0o644))

	out, err := executeCommand(t, "parse", "--file", path, "--type", "technical", "--level", "senior")
	require.NoError(t, err)

	var parsed parsing.Parsed
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed.Questions, 3)
	assert.Len(t, parsed.Recommendations, 2)
	assert.Equal(t, parsing.StrategyText, parsed.Strategy)
	assert.Equal(t, types.DifficultyHard, parsed.Details[0].Difficulty)
	assert.Equal(t, types.CategorySystemDesign, parsed.Details[0].Category)
}

func TestParse_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.txt")
	require.NoError(t, os.WriteFile(path, []byte("Sorry, I cannot help."), 0o644))

	_, err := executeCommand(t, "parse", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions found")
}

func TestHistory_Empty(t *testing.T) {
	setupEnv(t, chatReply(modelReply, nil))

	out, err := executeCommand(t, "history", "--json")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)

	out, err = executeCommand(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded yet.")
}
