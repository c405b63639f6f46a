package prompts

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPersona is used by role-based templates when the caller names none.
const DefaultPersona = "neutral"

// Persona describes the interviewer a role-based prompt asks the model to play.
type Persona struct {
	Name        string
	Description string
	Tone        string
	Focus       string
}

// CompanyProfile describes the culture injected into role-based prompts.
type CompanyProfile struct {
	Culture        string
	Values         string
	InterviewStyle string
}

var personas = map[string]Persona{
	"strict": {
		Name:        "Strict Interviewer",
		Description: "Detail-oriented and precise interviewer who expects thorough, complete answers",
		Tone:        "formal and demanding",
		Focus:       "technical accuracy and depth of knowledge",
	},
	"friendly": {
		Name:        "Friendly Interviewer",
		Description: "Supportive interviewer who keeps the conversation relaxed and encouraging",
		Tone:        "warm and encouraging",
		Focus:       "candidate potential and collaboration",
	},
	"neutral": {
		Name:        "Neutral Interviewer",
		Description: "Objective interviewer who keeps a professional distance and a fixed structure",
		Tone:        "professional and balanced",
		Focus:       "fair assessment and structured evaluation",
	},
}

var companies = map[string]CompanyProfile{
	"startup": {
		Culture:        "fast-paced, innovative, flexible",
		Values:         "adaptability, creativity, ownership",
		InterviewStyle: "informal, problem-solving focused",
	},
	"enterprise": {
		Culture:        "structured, process-oriented, stable",
		Values:         "reliability, scalability, compliance",
		InterviewStyle: "formal, methodology focused",
	},
	"tech_giant": {
		Culture:        "competitive, data-driven, excellence-focused",
		Values:         "innovation, scale, technical excellence",
		InterviewStyle: "rigorous, algorithm focused",
	},
	"consulting": {
		Culture:        "client-focused, analytical, presentation-oriented",
		Values:         "problem-solving, communication, business impact",
		InterviewStyle: "case-study heavy, communication focused",
	},
	"finance": {
		Culture:        "risk-aware, detail-oriented, performance-driven",
		Values:         "accuracy, compliance, quantitative skills",
		InterviewStyle: "precise, quantitative focused",
	},
}

var personaCompanyFit = map[string][]string{
	"strict":   {"finance", "enterprise", "tech_giant"},
	"friendly": {"startup", "consulting"},
	"neutral":  {"enterprise", "tech_giant", "consulting"},
}

// PersonaNames returns the known persona keys, sorted.
func PersonaNames() []string {
	return sortedKeys(personas)
}

// CompanyTypes returns the known company type keys, sorted.
func CompanyTypes() []string {
	return sortedKeys(companies)
}

// LookupPersona finds a persona by key, case-insensitively.
func LookupPersona(name string) (Persona, bool) {
	p, ok := personas[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// RecommendedPersonas returns the personas that suit a company type.
func RecommendedPersonas(companyType string) []string {
	companyType = strings.ToLower(strings.TrimSpace(companyType))
	var out []string
	for _, name := range PersonaNames() {
		for _, c := range personaCompanyFit[name] {
			if c == companyType {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// PersonaVariables returns the persona_* placeholder values for name.
// Unknown or empty names fall back to DefaultPersona.
func PersonaVariables(name string) map[string]string {
	p, ok := LookupPersona(name)
	if !ok {
		p = personas[DefaultPersona]
	}
	return map[string]string{
		"persona_name":        p.Name,
		"persona_description": p.Description,
		"persona_tone":        p.Tone,
		"persona_focus":       p.Focus,
	}
}

// CompanyContext renders the company_context placeholder for a company type.
func CompanyContext(companyType string) string {
	key := strings.ToLower(strings.TrimSpace(companyType))
	c, ok := companies[key]
	if !ok {
		return "Company context not specified; assume a typical organisation hiring for this role."
	}
	return fmt.Sprintf("Company type: %s. Culture: %s. Values: %s. Interview style: %s.",
		key, c.Culture, c.Values, c.InterviewStyle)
}

func samplePersonaValue(variable string) (string, bool) {
	v, ok := PersonaVariables(DefaultPersona)[variable]
	return v, ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
