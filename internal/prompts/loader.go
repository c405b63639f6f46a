package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

// The catalogue is stored as one JSON file per technique and embedded at compile time.
//
//go:embed templates/*.json
var templateFiles embed.FS

// templateFile is the on-disk shape of a catalogue file.
type templateFile struct {
	Technique types.Technique `json:"technique"`
	Templates []templateSpec  `json:"templates"`
}

type templateSpec struct {
	Name            string                `json:"name"`
	InterviewType   types.InterviewType   `json:"interview_type"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level,omitempty"`
	Body            []string              `json:"body"`
	Metadata        map[string]any        `json:"metadata,omitempty"`
}

// cache stores parsed catalogue files to avoid repeated JSON parsing
var (
	cache   = make(map[string]*templateFile)
	cacheMu sync.RWMutex
)

// NewDefaultLibrary returns a library holding the full built-in catalogue.
func NewDefaultLibrary() (*Library, error) {
	lib := NewLibrary()
	if err := LoadDefaults(lib); err != nil {
		return nil, err
	}
	return lib, nil
}

// LoadDefaults registers every embedded template into lib.
func LoadDefaults(lib *Library) error {
	names, err := Files()
	if err != nil {
		return err
	}
	for _, name := range names {
		file, err := loadFile(name)
		if err != nil {
			return err
		}
		for _, spec := range file.Templates {
			t := NewTemplate(spec.Name, file.Technique, spec.InterviewType, spec.ExperienceLevel,
				strings.Join(spec.Body, "\n"), spec.Metadata)
			if err := lib.Register(t); err != nil {
				return fmt.Errorf("failed to register %s from %s: %w", spec.Name, name, err)
			}
		}
	}
	return nil
}

// Files lists the embedded catalogue files, sorted.
func Files() ([]string, error) {
	entries, err := fs.ReadDir(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// loadFile loads and caches a catalogue file.
func loadFile(filename string) (*templateFile, error) {
	cacheMu.RLock()
	if f, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return f, nil
	}
	cacheMu.RUnlock()

	data, err := templateFiles.ReadFile(path.Join("templates", filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", filename, err)
	}

	var f templateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", filename, err)
	}
	if !f.Technique.Valid() {
		return nil, fmt.Errorf("template file %s has unknown technique %q", filename, f.Technique)
	}

	cacheMu.Lock()
	cache[filename] = &f
	cacheMu.Unlock()

	return &f, nil
}

// ClearCache clears the catalogue cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]*templateFile)
	cacheMu.Unlock()
}
