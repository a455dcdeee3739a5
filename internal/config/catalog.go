package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/curricula/internal/curriculum"
	"github.com/dgallion1/curricula/internal/source"
)

// Program is one study program the service tracks.
type Program struct {
	ID       string   `yaml:"id" json:"program_id"`
	Title    string   `yaml:"title,omitempty" json:"title,omitempty"`
	URL      string   `yaml:"url,omitempty" json:"url,omitempty"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// Catalog is the content of CATALOG_FILE: the tracked programs, the link
// phrases used to find a curriculum on a program page, and parse rules.
type Catalog struct {
	Programs    []Program        `yaml:"programs"`
	LinkPhrases []string         `yaml:"link_phrases,omitempty"`
	Rules       curriculum.Rules `yaml:"rules,omitempty"`
}

// DefaultCatalog tracks the two AI master's programs.
func DefaultCatalog() Catalog {
	return Catalog{
		Programs: []Program{
			{
				ID:    "ai",
				Title: "Искусственный интеллект",
				URL:   "https://abit.itmo.ru/program/master/ai",
				Keywords: []string{
					"искусственный интеллект",
					"artificial intelligence",
					"машинное обучение",
					"нейронные сети",
					"deep learning",
					"computer vision",
					"nlp",
				},
			},
			{
				ID:    "ai_product",
				Title: "Управление ИИ-продуктами",
				URL:   "https://abit.itmo.ru/program/master/ai_product",
				Keywords: []string{
					"ии в продуктах",
					"ai product",
					"продуктовый",
					"product management",
					"ai-продукт",
					"продуктовая аналитика",
				},
			},
		},
		LinkPhrases: []string{"учебный план", "curriculum", "study plan"},
		Rules:       curriculum.DefaultRules(),
	}
}

// LoadCatalog reads a YAML catalog. An empty path yields DefaultCatalog.
// Sections left out of the file keep their defaults.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog data, rejecting unknown keys.
func ParseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	def := DefaultCatalog()
	if len(cat.Programs) == 0 {
		cat.Programs = def.Programs
	}
	if len(cat.LinkPhrases) == 0 {
		cat.LinkPhrases = def.LinkPhrases
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// Validate checks program ids are usable and unique.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Programs))
	for _, p := range c.Programs {
		if err := source.ValidateProgramID(p.ID); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		if seen[p.ID] {
			return fmt.Errorf("catalog: duplicate program id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Program returns the catalog entry for id.
func (c Catalog) Program(id string) (Program, bool) {
	for _, p := range c.Programs {
		if p.ID == id {
			return p, true
		}
	}
	return Program{}, false
}

// Keywords returns the classifier keyword sets keyed by program id.
func (c Catalog) Keywords() map[string][]string {
	out := make(map[string][]string, len(c.Programs))
	for _, p := range c.Programs {
		out[p.ID] = p.Keywords
	}
	return out
}
