package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule recognises a list item. The first submatch of Pattern is the item text.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules returns the list-marker rules in match order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "numbered", Pattern: regexp.MustCompile(`^\d+[.)]\s*(\D.*)$`)},
		{Name: "question_label", Pattern: regexp.MustCompile(`^\*{0,2}(?:Q|Question)\s*\d*\s*[:.]\*{0,2}\s*(.+)$`)},
		{Name: "bullet", Pattern: regexp.MustCompile(`^(?:[-•]\s*|\*\s+)([^\s-].*)$`)},
	}
}

type section int

const (
	sectionQuestions section = iota
	sectionRecommendations
)

// Header keywords, checked in order: recommendation words win over "question".
var (
	recommendationHeader = regexp.MustCompile(`(?i)\b(?:recommend\w*|tips?|advice|suggestions?|preparation)\b`)
	questionHeader       = regexp.MustCompile(`(?i)\bquestions?\b`)
)

const maxBareHeaderLength = 40

// questionStarter matches unmarked lines that read as a question or an
// interview prompt even without a trailing '?'.
var questionStarter = regexp.MustCompile(`(?i)^(?:what|how|why|when|where|who|which|can you|could you|would you|have you|do you|did you|is there|are there|describe|explain|tell me|walk me through|talk about|give an example|share|discuss|compare)\b`)

var labelPrefix = regexp.MustCompile(`^(?:Q|Question)\s*\d*\s*[:.]\s*`)

type lineState int

const (
	stateNone lineState = iota
	stateItem
	stateSubDetail
)

// parseText is the heuristic stage. Lines are classified as:
//   - fence lines (```), skipped
//   - headers, which may switch section
//   - list items matched by the rule table; items indented deeper than the
//     previous item are sub-details and skipped with their continuation
//   - unmarked lines directly after an unfinished item, appended to it
//   - other unmarked lines ending in '?', taken as items
//   - unmarked top-level lines in the questions section that open with a
//     question word or a prompt verb ("Describe", "Tell me"), taken as questions
//
// Everything else is ignored.
func (p *Parser) parseText(raw string) *Parsed {
	var (
		questions       []string
		recommendations []string
		current         = sectionQuestions
		state           = stateNone
		lastIndent      = -1
		ruleHits        = make(map[string]int)
	)

	list := func() *[]string {
		if current == sectionRecommendations {
			return &recommendations
		}
		return &questions
	}
	startItem := func(text string, indent int) {
		l := list()
		*l = append(*l, text)
		state = stateItem
		lastIndent = indent
	}
	openItem := func() bool {
		l := *list()
		if state != stateItem || len(l) == 0 {
			return false
		}
		last := l[len(l)-1]
		return !strings.HasSuffix(last, "?") && !strings.HasSuffix(last, ".") && !strings.HasSuffix(last, "!")
	}
	setSection := func(line string) {
		if s, ok := headerSection(line); ok {
			current = s
		}
		state = stateNone
		lastIndent = -1
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "```") {
			state = stateNone
			continue
		}
		indent := leadingWidth(rawLine)

		if strings.HasPrefix(line, "#") {
			rest := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if !strings.HasSuffix(rest, "?") {
				setSection(rest)
				continue
			}
			line = rest
		}

		if name, text, ok := p.matchRule(line); ok {
			if lastIndent >= 0 && indent > lastIndent {
				state = stateSubDetail
				continue
			}
			if s, isHeader := itemHeader(text); isHeader {
				current = s
				state = stateNone
				lastIndent = -1
				continue
			}
			ruleHits[name]++
			startItem(labelPrefix.ReplaceAllString(NormalizeItem(text), ""), indent)
			continue
		}

		switch {
		case state == stateSubDetail && indent > lastIndent:
			// continuation of a skipped sub-detail
		case current == sectionQuestions && indent <= lastIndent && questionStarter.MatchString(line) &&
			!strings.HasSuffix(line, ":"):
			ruleHits["question_starter"]++
			startItem(NormalizeItem(line), indent)
		case strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "**"), strings.HasPrefix(line, "_"):
			// italic annotation such as "*Tests: ownership*"
		case openItem() && !strings.HasSuffix(line, ":"):
			l := list()
			(*l)[len(*l)-1] += " " + NormalizeItem(line)
		case isHeaderLine(line):
			setSection(line)
		case strings.HasSuffix(line, "?"):
			ruleHits["bare_question"]++
			startItem(NormalizeItem(line), indent)
		case current == sectionQuestions && questionStarter.MatchString(line) && !strings.HasSuffix(line, ":"):
			ruleHits["question_starter"]++
			startItem(NormalizeItem(line), indent)
		}
	}

	parsed := &Parsed{
		Questions:       normalizeItems(questions, p.minLen, p.maxLen),
		Recommendations: normalizeItems(recommendations, p.minLen, p.maxLen),
		Metadata:        map[string]any{"rule_matches": ruleHits},
		Strategy:        StrategyText,
	}
	parsed.Details = detailsFor(parsed.Questions)
	return parsed
}

func (p *Parser) matchRule(line string) (name, text string, ok bool) {
	for _, rule := range p.rules {
		if m := rule.Pattern.FindStringSubmatch(line); m != nil && len(m) > 1 {
			return rule.Name, strings.TrimSpace(m[1]), true
		}
	}
	return "", "", false
}

// isHeaderLine reports whether an unmarked line reads as a section heading.
func isHeaderLine(line string) bool {
	plain := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
	if strings.HasSuffix(plain, ":") {
		return true
	}
	if strings.HasSuffix(plain, "?") || len(plain) > maxBareHeaderLength {
		return false
	}
	_, ok := headerSection(plain)
	return ok
}

// itemHeader catches bullets such as "- **Recommendations:**" that are
// really headings.
func itemHeader(text string) (section, bool) {
	plain := strings.TrimSpace(strings.ReplaceAll(text, "**", ""))
	if !strings.HasSuffix(plain, ":") || len(plain) > maxBareHeaderLength {
		return 0, false
	}
	return headerSection(plain)
}

func headerSection(line string) (section, bool) {
	switch {
	case recommendationHeader.MatchString(line):
		return sectionRecommendations, true
	case questionHeader.MatchString(line):
		return sectionQuestions, true
	default:
		return 0, false
	}
}

// leadingWidth counts leading whitespace, a tab counting as four columns.
func leadingWidth(s string) int {
	width := 0
	for _, r := range s {
		switch {
		case r == '\t':
			width += 4
		case unicode.IsSpace(r):
			width++
		default:
			return width
		}
	}
	return width
}
