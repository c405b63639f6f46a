// Package prompts provides the prompt template catalogue used to build model requests.
// Templates use {name} placeholders; {{ and }} render as literal braces.
package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// MissingVariablesError is returned by Format when placeholders have no value.
type MissingVariablesError struct {
	Template string
	Missing  []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("template %s: missing variables: %s", e.Template, strings.Join(e.Missing, ", "))
}

// segment is either literal text or a placeholder name.
type segment struct {
	text        string
	placeholder bool
}

// Template is an immutable prompt body bound to a (technique, interview type, level) key.
type Template struct {
	Name            string
	Technique       types.Technique
	InterviewType   types.InterviewType
	ExperienceLevel types.ExperienceLevel
	Body            string
	Metadata        map[string]any

	segments  []segment
	variables []string
}

// NewTemplate parses body and records its placeholders. A level of
// types.LevelAny makes the template generic.
func NewTemplate(name string, technique types.Technique, interviewType types.InterviewType,
	level types.ExperienceLevel, body string, metadata map[string]any) *Template {
	segs := scan(body)
	seen := map[string]bool{}
	var vars []string
	for _, s := range segs {
		if s.placeholder && !seen[s.text] {
			seen[s.text] = true
			vars = append(vars, s.text)
		}
	}
	sort.Strings(vars)
	return &Template{
		Name:            name,
		Technique:       technique,
		InterviewType:   interviewType,
		ExperienceLevel: level,
		Body:            body,
		Metadata:        cloneMetadata(metadata),
		segments:        segs,
		variables:       vars,
	}
}

// cloneMetadata deep-copies the JSON-shaped values a catalogue file decodes
// into, so templates never share maps or slices with the caller.
func cloneMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

// Key returns the library key of the template.
func (t *Template) Key() Key {
	return Key{Technique: t.Technique, InterviewType: t.InterviewType, Level: t.ExperienceLevel}
}

// Generic reports whether the template applies to every experience level.
func (t *Template) Generic() bool {
	return t.ExperienceLevel == types.LevelAny
}

// Variables returns the sorted, de-duplicated placeholder names.
func (t *Template) Variables() []string {
	out := make([]string, len(t.variables))
	copy(out, t.variables)
	return out
}

// Format substitutes every placeholder. Extra keys in vars are ignored; if any
// placeholder is missing, all missing names are reported together.
func (t *Template) Format(vars map[string]string) (string, error) {
	var missing []string
	for _, v := range t.variables {
		if _, ok := vars[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return "", &MissingVariablesError{Template: t.Name, Missing: missing}
	}

	var b strings.Builder
	b.Grow(len(t.Body))
	for _, s := range t.segments {
		if s.placeholder {
			b.WriteString(vars[s.text])
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String(), nil
}

// sampleValues are realistic values for well-known placeholders.
var sampleValues = map[string]string{
	"job_description":     "Senior Python Developer with Django and REST API experience",
	"interview_type":      "Technical",
	"experience_level":    "Senior",
	"question_count":      "5",
	"num_questions":       "5",
	"company_name":        "TechCorp",
	"company_type":        "startup",
	"company_context":     "Company type: startup. Culture: fast-paced, innovative, flexible.",
	"role_title":          "Software Engineer",
	"specific_skills":     "Python, Django, PostgreSQL",
	"years_experience":    "5-7",
	"interviewer_persona": "friendly",
	"difficulty_level":    "advanced",
	"focus_areas":         "general skills",
}

// SampleVariables returns deterministic example values for every placeholder.
func (t *Template) SampleVariables() map[string]string {
	out := make(map[string]string, len(t.variables))
	for _, v := range t.variables {
		if s, ok := sampleValues[v]; ok {
			out[v] = s
			continue
		}
		if p, ok := samplePersonaValue(v); ok {
			out[v] = p
			continue
		}
		out[v] = "sample_" + v
	}
	return out
}

// scan splits body into literal and placeholder segments. A placeholder is
// {ident} with ident matching [A-Za-z_][A-Za-z0-9_]*; any other brace is literal.
func scan(body string) []segment {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == '{' && i+1 < len(body) && body[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(body) && body[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '{':
			j := i + 1
			for j < len(body) && isIdentByte(body[j], j == i+1) {
				j++
			}
			if j > i+1 && j < len(body) && body[j] == '}' {
				flush()
				segs = append(segs, segment{text: body[i+1 : j], placeholder: true})
				i = j + 1
				continue
			}
			lit.WriteByte(c)
			i++
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return segs
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
