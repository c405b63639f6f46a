package prompts

import (
	"fmt"
	"sort"
	"sync"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// Key identifies one template slot. A zero Level is the generic slot.
type Key struct {
	Technique     types.Technique
	InterviewType types.InterviewType
	Level         types.ExperienceLevel
}

func (k Key) String() string {
	level := string(k.Level)
	if level == "" {
		level = "*"
	}
	return fmt.Sprintf("%s/%s/%s", k.Technique, k.InterviewType, level)
}

// DuplicateTemplateError is returned when a key is registered twice.
type DuplicateTemplateError struct {
	Key      Key
	Existing string
}

func (e *DuplicateTemplateError) Error() string {
	return fmt.Sprintf("template %s already registered as %q", e.Key, e.Existing)
}

// LookupKeys returns the keys Get tries, in order: the exact key, then the
// generic key for the same technique and interview type.
func LookupKeys(technique types.Technique, interviewType types.InterviewType, level types.ExperienceLevel) []Key {
	exact := Key{Technique: technique, InterviewType: interviewType, Level: level}
	if level == types.LevelAny {
		return []Key{exact}
	}
	return []Key{exact, {Technique: technique, InterviewType: interviewType}}
}

// Library maps keys to templates. It is filled at startup and read afterwards.
type Library struct {
	mu        sync.RWMutex
	templates map[Key]*Template
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{templates: make(map[Key]*Template)}
}

// Register adds t under its key. Registering an occupied key fails and keeps
// the existing template.
func (l *Library) Register(t *Template) error {
	if t == nil {
		return fmt.Errorf("cannot register nil template")
	}
	if !t.Technique.Valid() || !t.InterviewType.Valid() {
		return fmt.Errorf("template %q has invalid key %s", t.Name, t.Key())
	}
	if t.ExperienceLevel != types.LevelAny && !t.ExperienceLevel.Valid() {
		return fmt.Errorf("template %q has invalid experience level %q", t.Name, t.ExperienceLevel)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	key := t.Key()
	if existing, ok := l.templates[key]; ok {
		return &DuplicateTemplateError{Key: key, Existing: existing.Name}
	}
	l.templates[key] = t
	return nil
}

// Get returns the template for the exact key, else the generic one, else nil.
func (l *Library) Get(technique types.Technique, interviewType types.InterviewType, level types.ExperienceLevel) *Template {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, k := range LookupKeys(technique, interviewType, level) {
		if t, ok := l.templates[k]; ok {
			return t
		}
	}
	return nil
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Technique     types.Technique
	InterviewType types.InterviewType
}

// List returns the templates matching f, ordered by key.
func (l *Library) List(f Filter) []*Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*Template
	for k, t := range l.templates {
		if f.Technique != "" && k.Technique != f.Technique {
			continue
		}
		if f.InterviewType != "" && k.InterviewType != f.InterviewType {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().String() < out[j].Key().String()
	})
	return out
}

// Len returns the number of registered templates.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}

// Techniques returns the techniques with at least one template.
func (l *Library) Techniques() []types.Technique {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := map[types.Technique]bool{}
	for k := range l.templates {
		seen[k.Technique] = true
	}
	var out []types.Technique
	for _, t := range types.AllTechniques() {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}

// CoverageEntry reports how one concrete request combination resolves.
type CoverageEntry struct {
	Technique     types.Technique
	InterviewType types.InterviewType
	Level         types.ExperienceLevel
	Template      string
	Fallback      bool
}

// Coverage resolves every (technique, interview type, level) combination.
// Combinations with no template have an empty Template name.
func (l *Library) Coverage() []CoverageEntry {
	var out []CoverageEntry
	for _, tech := range types.AllTechniques() {
		for _, it := range types.AllInterviewTypes() {
			for _, lvl := range types.AllExperienceLevels() {
				e := CoverageEntry{Technique: tech, InterviewType: it, Level: lvl}
				if t := l.Get(tech, it, lvl); t != nil {
					e.Template = t.Name
					e.Fallback = t.ExperienceLevel != lvl
				}
				out = append(out, e)
			}
		}
	}
	return out
}
