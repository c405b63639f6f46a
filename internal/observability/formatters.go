// Package observability provides the structured logger and the boxed console
// output used by the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/cost"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/history"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/prompts"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/ratelimit"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 80
	// maxItemsToShow caps list sections that are summaries, not results
	maxItemsToShow = 5
)

// Printer writes human-readable boxes for CLI output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > inner {
			line = string([]rune(line)[:inner-3]) + "..."
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs the questions, recommendations and cost of a generation.
func (p *Printer) PrintResult(res *types.GenerationResult) {
	if res == nil {
		return
	}
	if !res.Success {
		p.printBox("GENERATION FAILED", wrap(res.Error, boxWidth-4, ""))
		return
	}

	var sb strings.Builder
	for i, q := range res.Questions {
		prefix := fmt.Sprintf("%d. ", i+1)
		sb.WriteString(wrap(prefix+q, boxWidth-4, strings.Repeat(" ", len(prefix))))
		sb.WriteString("\n")
		if i < len(res.Details) {
			if meta := detailLine(res.Details[i]); meta != "" {
				sb.WriteString(strings.Repeat(" ", len(prefix)) + meta + "\n")
			}
		}
	}
	title := fmt.Sprintf("INTERVIEW QUESTIONS (%s, %s)", res.Technique.Label(), res.Model)
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))

	if len(res.Recommendations) > 0 {
		sb.Reset()
		for _, r := range res.Recommendations {
			sb.WriteString(wrap("• "+r, boxWidth-4, "  "))
			sb.WriteString("\n")
		}
		p.printBox("PREPARATION RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
	}

	p.printBox("COST", cost.FormatBreakdown(res.Cost)+fmt.Sprintf("\nSession: %s  Duration: %s",
		res.SessionID, res.Duration.Round(1e6)))
}

func detailLine(d types.QuestionDetail) string {
	var parts []string
	if d.Difficulty != "" {
		parts = append(parts, "difficulty: "+string(d.Difficulty))
	}
	if d.Category != "" {
		parts = append(parts, "category: "+string(d.Category))
	}
	if d.EstimatedMinutes > 0 {
		parts = append(parts, fmt.Sprintf("~%d min", d.EstimatedMinutes))
	}
	return strings.Join(parts, " | ")
}

// PrintAdvisory outputs the rate limit status line.
func (p *Printer) PrintAdvisory(adv ratelimit.Advisory) {
	s := adv.Status
	content := fmt.Sprintf("%s\nWindow: %s  Used: %d/%d  Remaining: %d",
		adv.Message, s.Window, s.CallsMade, s.Limit, s.CallsRemaining)
	p.printBox("RATE LIMIT ("+strings.ToUpper(string(adv.Level))+")", content)
}

// PrintUsage outputs cumulative cost statistics.
func (p *Printer) PrintUsage(stats cost.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sessions:      %d\n", stats.SessionCount))
	sb.WriteString(fmt.Sprintf("Input tokens:  %d\n", stats.TotalInputTokens))
	sb.WriteString(fmt.Sprintf("Output tokens: %d\n", stats.TotalOutputTokens))
	sb.WriteString(fmt.Sprintf("Total cost:    $%.6f\n", stats.TotalCost))
	sb.WriteString(fmt.Sprintf("Average cost:  $%.6f", stats.AverageCost))
	p.printBox("USAGE", sb.String())
}

// PrintTemplates lists templates grouped in library order.
func (p *Printer) PrintTemplates(templates []*prompts.Template) {
	if len(templates) == 0 {
		p.printBox("TEMPLATES", "No templates match.")
		return
	}
	var sb strings.Builder
	for _, t := range templates {
		level := string(t.ExperienceLevel)
		if t.Generic() {
			level = "any"
		}
		sb.WriteString(fmt.Sprintf("%-38s %-18s %-11s %s\n", t.Name, t.Technique, t.InterviewType, level))
	}
	p.printBox(fmt.Sprintf("TEMPLATES (%d)", len(templates)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverage summarises how request combinations resolve.
func (p *Printer) PrintCoverage(entries []prompts.CoverageEntry) {
	type counts struct{ exact, fallback, missing int }
	byTech := map[types.Technique]*counts{}
	var order []types.Technique
	for _, e := range entries {
		c, ok := byTech[e.Technique]
		if !ok {
			c = &counts{}
			byTech[e.Technique] = c
			order = append(order, e.Technique)
		}
		switch {
		case e.Template == "":
			c.missing++
		case e.Fallback:
			c.fallback++
		default:
			c.exact++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-22s %6s %9s %8s\n", "technique", "exact", "fallback", "missing"))
	for _, tech := range order {
		c := byTech[tech]
		sb.WriteString(fmt.Sprintf("%-22s %6d %9d %8d\n", tech.Label(), c.exact, c.fallback, c.missing))
	}
	p.printBox("TEMPLATE COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPricing outputs the per-model price table.
func (p *Printer) PrintPricing(infos []cost.PricingInfo) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %12s %12s %12s %12s\n", "model", "in/1K", "out/1K", "in/1M", "out/1M"))
	for _, in := range infos {
		sb.WriteString(fmt.Sprintf("%-24s %12.5f %12.5f %12.2f %12.2f\n",
			in.Model, in.InputPer1K, in.OutputPer1K, in.InputPer1M, in.OutputPer1M))
	}
	p.printBox("MODEL PRICING (USD)", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory lists recent sessions, newest first.
func (p *Printer) PrintHistory(records []history.Record) {
	if len(records) == 0 {
		p.printBox("SESSION HISTORY", "No sessions recorded yet.")
		return
	}

	var sb strings.Builder
	for i, r := range records {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		sb.WriteString(fmt.Sprintf("%s  %-6s %s/%s/%s  %d questions  $%.6f\n",
			r.CreatedAt.Format("2006-01-02 15:04"), status, r.Technique, r.InterviewType, r.ExperienceLevel,
			len(r.Questions), r.Cost.TotalCost))
		sb.WriteString("  " + r.JobExcerpt + "\n")
		count := min(len(r.Questions), maxItemsToShow)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("    %d. %s\n", j+1, r.Questions[j]))
		}
		if len(r.Questions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(r.Questions)-maxItemsToShow))
		}
		if !r.Success && r.Error != "" {
			sb.WriteString("  error: " + r.Error + "\n")
		}
		if i < len(records)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("SESSION HISTORY (%d)", len(records)), strings.TrimSuffix(sb.String(), "\n"))
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap breaks s into lines of at most width runes on word boundaries.
// Continuation lines start with indent.
func wrap(s string, width int, indent string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, line)
			line = indent + w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
