package parsing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/llm"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/schemas"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// errNoJSONObject means the text holds no balanced JSON object.
var errNoJSONObject = errors.New("no JSON object in response")

type structuredResponse struct {
	Questions       []any          `json:"questions"`
	Recommendations []any          `json:"recommendations"`
	Metadata        map[string]any `json:"metadata"`
}

// parseJSON is the structured stage. Any syntax or shape problem is returned
// as an error so the caller can fall back to text scanning.
func (p *Parser) parseJSON(raw string) (*Parsed, error) {
	candidate := llm.CleanJSONBlock(raw)
	if !strings.HasPrefix(candidate, "{") {
		candidate = llm.FirstJSONObject(raw)
	}
	if candidate == "" {
		return nil, errNoJSONObject
	}

	if err := schemas.ValidateResponse([]byte(candidate)); err != nil {
		return nil, fmt.Errorf("structured response rejected: %w", err)
	}

	var resp structuredResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode structured response: %w", err)
	}

	parsed := &Parsed{
		Metadata: resp.Metadata,
		Strategy: StrategyJSON,
	}
	seen := make(map[string]bool)
	for _, item := range resp.Questions {
		detail, ok := questionDetail(item)
		if !ok {
			continue
		}
		detail.Question = truncateRunes(NormalizeItem(detail.Question), p.maxLen)
		key := strings.ToLower(detail.Question)
		if detail.Question == "" || seen[key] {
			continue
		}
		seen[key] = true
		parsed.Questions = append(parsed.Questions, detail.Question)
		parsed.Details = append(parsed.Details, detail)
	}

	for _, item := range resp.Recommendations {
		var text string
		switch v := item.(type) {
		case string:
			text = v
		case map[string]any:
			text, _ = v["recommendation"].(string)
		}
		if text = NormalizeItem(text); text != "" {
			parsed.Recommendations = append(parsed.Recommendations, truncateRunes(text, p.maxLen))
		}
	}

	return parsed, nil
}

// questionDetail accepts a bare string or an object item.
func questionDetail(item any) (types.QuestionDetail, bool) {
	switch v := item.(type) {
	case string:
		return types.QuestionDetail{Question: v}, true
	case map[string]any:
		q, _ := v["question"].(string)
		if q == "" {
			return types.QuestionDetail{}, false
		}
		detail := types.QuestionDetail{
			Question:         q,
			Difficulty:       types.DifficultyLevel(lowerString(v["difficulty"])),
			Category:         types.QuestionCategory(lowerString(v["category"])),
			EstimatedMinutes: minutes(firstPresent(v, "estimated_time_minutes", "time_estimate")),
			Hints:            stringList(v["hints"]),
			FollowUps:        stringList(firstPresent(v, "follow_up_questions", "follow_ups")),
		}
		if !detail.Difficulty.Valid() {
			detail.Difficulty = ""
		}
		return detail, true
	default:
		return types.QuestionDetail{}, false
	}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func lowerString(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// minutes reads a number or a string starting with a number ("15 minutes").
func minutes(v any) int {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n)
		}
	case string:
		fields := strings.Fields(n)
		if len(fields) > 0 {
			if i, err := strconv.Atoi(fields[0]); err == nil && i > 0 {
				return i
			}
		}
	}
	return 0
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
