// Package packs loads question sets a host can start a session from by name.
package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quiz-master-backend/internal/models"

	"gopkg.in/yaml.v3"
)

type Pack struct {
	Name      string            `yaml:"name"`
	Title     string            `yaml:"title"`
	Questions []models.Question `yaml:"questions"`
}

// Summary is what clients see of a pack. Answers are never listed.
type Summary struct {
	Name          string `json:"name"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

type Library struct {
	packs map[string]Pack
}

// Load reads every .yaml and .yml file in dir. A pack without a name is named
// after its file. An empty dir yields an empty library.
func Load(dir string) (*Library, error) {
	lib := &Library{packs: make(map[string]Pack)}
	if dir == "" {
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading packs directory: %w", err)
	}

	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		p, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		if _, dup := lib.packs[p.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate pack name %q", path, p.Name)
		}
		lib.packs[p.Name] = *p
	}
	return lib, nil
}

// ReadFile parses and validates a single pack file.
func ReadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pack: %w", err)
	}

	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.Name == "" {
		base := filepath.Base(path)
		p.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

func (p *Pack) Validate() error {
	if len(p.Questions) == 0 {
		return fmt.Errorf("pack %q has no questions", p.Name)
	}
	for i, q := range p.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("pack %q question %d: %w", p.Name, i+1, err)
		}
	}
	return nil
}

// Questions returns a copy of the named pack's questions.
func (l *Library) Questions(name string) ([]models.Question, bool) {
	p, ok := l.packs[name]
	if !ok {
		return nil, false
	}
	qs := make([]models.Question, len(p.Questions))
	copy(qs, p.Questions)
	return qs, true
}

// Summaries lists the packs sorted by name.
func (l *Library) Summaries() []Summary {
	out := make([]Summary, 0, len(l.packs))
	for _, p := range l.packs {
		title := p.Title
		if title == "" {
			title = p.Name
		}
		out = append(out, Summary{Name: p.Name, Title: title, QuestionCount: len(p.Questions)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (l *Library) Len() int {
	return len(l.packs)
}
