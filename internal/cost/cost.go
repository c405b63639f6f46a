// Package cost prices model token usage and tracks cumulative spend.
package cost

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

var (
	// ErrUnsupportedModel is returned for models missing from the pricing table.
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrNegativeTokens is returned when a token count is below zero.
	ErrNegativeTokens = errors.New("token counts must be non-negative")
)

// Pricing is the USD price per 1,000 tokens of one model.
type Pricing struct {
	InputPer1K  float64 `json:"input_per_1k"`
	OutputPer1K float64 `json:"output_per_1k"`
}

// DefaultPricing returns the built-in pricing table.
func DefaultPricing() map[string]Pricing {
	return map[string]Pricing{
		"gpt-4o":                {InputPer1K: 0.0025, OutputPer1K: 0.010},
		"gpt-4o-mini":           {InputPer1K: 0.00015, OutputPer1K: 0.0006},
		"gpt-5":                 {InputPer1K: 0.005, OutputPer1K: 0.020},
		"gemini-2.5-flash-lite": {InputPer1K: 0.0001, OutputPer1K: 0.0004},
		"gemini-2.5-flash":      {InputPer1K: 0.0003, OutputPer1K: 0.0025},
		"gemini-2.5-pro":        {InputPer1K: 0.00125, OutputPer1K: 0.010},
	}
}

// Stats is a snapshot of cumulative usage since construction or the last reset.
type Stats struct {
	TotalCost         float64               `json:"total_cost"`
	TotalInputTokens  int                   `json:"total_input_tokens"`
	TotalOutputTokens int                   `json:"total_output_tokens"`
	SessionCount      int                   `json:"session_count"`
	AverageCost       float64               `json:"average_cost_per_session"`
	PerModel          map[string]ModelUsage `json:"per_model"`
	LastReset         time.Time             `json:"last_reset"`
}

// ModelUsage aggregates usage of a single model.
type ModelUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
	Calls        int     `json:"calls"`
}

// PricingInfo describes a model's prices in both per-1K and per-1M units.
type PricingInfo struct {
	Model       string  `json:"model"`
	InputPer1K  float64 `json:"input_per_1k"`
	OutputPer1K float64 `json:"output_per_1k"`
	InputPer1M  float64 `json:"input_per_1m"`
	OutputPer1M float64 `json:"output_per_1m"`
}

// Calculator prices token usage and accumulates it. Safe for concurrent use.
type Calculator struct {
	pricing map[string]Pricing
	now     func() time.Time

	mu    sync.Mutex
	stats Stats
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithPricing replaces the pricing table.
func WithPricing(p map[string]Pricing) Option {
	return func(c *Calculator) {
		c.pricing = make(map[string]Pricing, len(p))
		for k, v := range p {
			c.pricing[k] = v
		}
	}
}

// WithClock overrides the time source used for reset timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// NewCalculator creates a Calculator using DefaultPricing unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		pricing: DefaultPricing(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats = Stats{PerModel: map[string]ModelUsage{}, LastReset: c.now()}
	return c
}

// Calculate prices a single call. It never changes cumulative state.
func (c *Calculator) Calculate(model string, inputTokens, outputTokens int) (types.CostBreakdown, error) {
	p, ok := c.pricing[model]
	if !ok {
		return types.CostBreakdown{}, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
	if inputTokens < 0 || outputTokens < 0 {
		return types.CostBreakdown{}, fmt.Errorf("%w: input=%d output=%d", ErrNegativeTokens, inputTokens, outputTokens)
	}

	in := round6(float64(inputTokens) / 1000 * p.InputPer1K)
	out := round6(float64(outputTokens) / 1000 * p.OutputPer1K)
	return types.CostBreakdown{
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    round6(in + out),
	}, nil
}

// Estimate is Calculate under the name used for previews.
func (c *Calculator) Estimate(model string, inputTokens, outputTokens int) (types.CostBreakdown, error) {
	return c.Calculate(model, inputTokens, outputTokens)
}

// AddUsage prices a call and folds it into the cumulative totals.
// Invalid input leaves the totals untouched.
func (c *Calculator) AddUsage(model string, inputTokens, outputTokens int) (types.CostBreakdown, error) {
	b, err := c.Calculate(model, inputTokens, outputTokens)
	if err != nil {
		return types.CostBreakdown{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.stats
	s.TotalCost = round6(s.TotalCost + b.TotalCost)
	s.TotalInputTokens += inputTokens
	s.TotalOutputTokens += outputTokens
	s.SessionCount++
	s.AverageCost = round6(s.TotalCost / float64(s.SessionCount))

	usage := s.PerModel[model]
	usage.InputTokens += inputTokens
	usage.OutputTokens += outputTokens
	usage.TotalCost = round6(usage.TotalCost + b.TotalCost)
	usage.Calls++
	s.PerModel[model] = usage

	return b, nil
}

// Reset zeroes the cumulative totals and stamps the reset time.
func (c *Calculator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Stats{PerModel: map[string]ModelUsage{}, LastReset: c.now()}
}

// Stats returns a copy of the cumulative totals.
func (c *Calculator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.stats
	out.PerModel = make(map[string]ModelUsage, len(c.stats.PerModel))
	for k, v := range c.stats.PerModel {
		out.PerModel[k] = v
	}
	return out
}

// SupportedModels returns the priced model names, sorted.
func (c *Calculator) SupportedModels() []string {
	models := make([]string, 0, len(c.pricing))
	for m := range c.pricing {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Supports reports whether model has a price.
func (c *Calculator) Supports(model string) bool {
	_, ok := c.pricing[model]
	return ok
}

// PricingInfo returns the prices of model.
func (c *Calculator) PricingInfo(model string) (PricingInfo, error) {
	p, ok := c.pricing[model]
	if !ok {
		return PricingInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
	return PricingInfo{
		Model:       model,
		InputPer1K:  p.InputPer1K,
		OutputPer1K: p.OutputPer1K,
		InputPer1M:  round6(p.InputPer1K * 1000),
		OutputPer1M: round6(p.OutputPer1K * 1000),
	}, nil
}

// FormatBreakdown renders a breakdown on one line.
func FormatBreakdown(b types.CostBreakdown) string {
	return fmt.Sprintf("Input: $%.6f (%s tokens) | Output: $%.6f (%s tokens) | Total: $%.6f",
		b.InputCost, groupThousands(b.InputTokens),
		b.OutputCost, groupThousands(b.OutputTokens),
		b.TotalCost)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
