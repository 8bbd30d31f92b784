// Package seed creates the schema and the default catalog.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mudler/xlog"
	"gopkg.in/yaml.v3"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/db"
	models "github.com/productivity-engines/website/dbmodels"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Agent struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Categories  []string `yaml:"categories"`
	Public      bool     `yaml:"public"`
}

type Set struct {
	Categories []Category `yaml:"categories"`
	Agents     []Agent    `yaml:"agents"`
}

// Defaults holds the two seed sets shipped with the binary.
type Defaults struct {
	Base     Set `yaml:"base"`
	Extended Set `yaml:"extended"`
}

// Result counts the rows a seeding run inserted.
type Result struct {
	Categories int `json:"categories"`
	Agents     int `json:"agents"`
}

func LoadDefaults() (*Defaults, error) {
	return ParseDefaults(defaultsYAML)
}

func ParseDefaults(data []byte) (*Defaults, error) {
	d := &Defaults{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("invalid seed defaults: %w", err)
	}
	return d, nil
}

type Seeder struct {
	store    *store.Store
	defaults *Defaults
}

func New(s *store.Store, defaults *Defaults) *Seeder {
	return &Seeder{store: s, defaults: defaults}
}

// InitDB migrates the schema and inserts the base catalog.
func (s *Seeder) InitDB(ctx context.Context) (*Result, error) {
	if err := db.Migrate(s.store.DB()); err != nil {
		return nil, err
	}
	return s.Apply(ctx, s.defaults.Base)
}

// SeedData migrates the schema and inserts the extended catalog.
func (s *Seeder) SeedData(ctx context.Context) (*Result, error) {
	if err := db.Migrate(s.store.DB()); err != nil {
		return nil, err
	}
	return s.Apply(ctx, s.defaults.Extended)
}

// Apply inserts the categories and agents of set that do not exist yet.
func (s *Seeder) Apply(ctx context.Context, set Set) (*Result, error) {
	res := &Result{}

	for _, c := range set.Categories {
		_, err := s.store.CategoryByName(ctx, c.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return res, fmt.Errorf("failed to look up category %q: %w", c.Name, err)
		}
		if err := s.store.CreateCategory(ctx, &models.AgentCategory{Name: c.Name, Description: c.Description}); err != nil {
			return res, fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		res.Categories++
	}

	for _, a := range set.Agents {
		_, err := s.store.AgentByType(ctx, a.Type)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return res, fmt.Errorf("failed to look up agent %q: %w", a.Type, err)
		}
		categories := a.Categories
		if categories == nil {
			categories = []string{}
		}
		if err := s.store.CreateAgent(ctx, &models.AgentConfig{
			Name:        a.Name,
			Description: a.Description,
			Type:        a.Type,
			Categories:  categories,
			IsPublic:    a.Public,
		}); err != nil {
			return res, fmt.Errorf("failed to seed agent %q: %w", a.Type, err)
		}
		res.Agents++
	}

	xlog.Info("Seeded catalog", "categories", res.Categories, "agents", res.Agents)
	return res, nil
}
