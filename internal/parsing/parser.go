// Package parsing turns raw model output into interview questions and
// recommendations. A structured JSON pass is tried first; when it yields no
// questions the text is scanned line by line with an ordered rule table.
package parsing

import (
	"strings"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// Strategy names the stage that produced a Parsed result.
type Strategy string

const (
	// StrategyJSON means the response was a structured JSON document.
	StrategyJSON Strategy = "json"
	// StrategyText means the heuristic line scanner produced the items.
	StrategyText Strategy = "text"
)

// Item length bounds applied to heuristic text items.
const (
	DefaultMinItemLength = 10
	DefaultMaxItemLength = 500
)

// Parsed is the structured content of a model response. Details is aligned
// with Questions: Details[i].Question == Questions[i].
type Parsed struct {
	Questions       []string               `json:"questions"`
	Recommendations []string               `json:"recommendations"`
	Details         []types.QuestionDetail `json:"details"`
	Metadata        map[string]any         `json:"metadata,omitempty"`
	Strategy        Strategy               `json:"strategy"`
}

// Parser converts raw responses. The zero value is not usable; use NewParser.
type Parser struct {
	rules  []Rule
	minLen int
	maxLen int
}

// Option configures a Parser.
type Option func(*Parser)

// WithRules replaces the list-marker rule table. Rules are tried in order.
func WithRules(rules []Rule) Option {
	return func(p *Parser) {
		p.rules = append([]Rule(nil), rules...)
	}
}

// WithItemLength overrides the heuristic item length bounds.
func WithItemLength(minLen, maxLen int) Option {
	return func(p *Parser) {
		p.minLen = minLen
		p.maxLen = maxLen
	}
}

// NewParser creates a parser with DefaultRules and default length bounds.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		rules:  DefaultRules(),
		minLen: DefaultMinItemLength,
		maxLen: DefaultMaxItemLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses raw with the default parser.
func Parse(raw string) (*Parsed, error) {
	return defaultParser.Parse(raw)
}

// Parse runs the structured stage and then, if it produced no questions, the
// heuristic text stage on the original text. It fails only when neither stage
// finds a question.
func (p *Parser) Parse(raw string) (*Parsed, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Message: "empty response"}
	}

	parsed, jsonErr := p.parseJSON(raw)
	if jsonErr == nil && len(parsed.Questions) > 0 {
		return parsed, nil
	}

	parsed = p.parseText(raw)
	if len(parsed.Questions) > 0 {
		return parsed, nil
	}

	return nil, &ParseError{Message: "no questions found in response", Cause: jsonErr}
}

func detailsFor(questions []string) []types.QuestionDetail {
	details := make([]types.QuestionDetail, len(questions))
	for i, q := range questions {
		details[i] = types.QuestionDetail{Question: q}
	}
	return details
}
