package classify

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type fileCategory struct {
	Name     string   `yaml:"name"`
	Priority *int     `yaml:"priority"`
	Keywords []string `yaml:"keywords"`
}

type fileRules struct {
	Categories   *[]fileCategory  `yaml:"categories"`
	ContentTypes *ContentTypes    `yaml:"channel_types"`
	Geography    *Geography       `yaml:"geography"`
	Languages    []Language       `yaml:"languages"`
	Overrides    []ForcedOverride `yaml:"forced_overrides"`
}

// ParseRules decodes and validates a YAML rule set. The categories,
// channel_types and geography sections are required, and every category
// needs a name and a priority.
func ParseRules(data []byte) (RuleSet, error) {
	var raw fileRules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules: %w", err)
	}

	switch {
	case raw.Categories == nil:
		return RuleSet{}, fmt.Errorf("%w: categories", ErrMissingSection)
	case raw.ContentTypes == nil:
		return RuleSet{}, fmt.Errorf("%w: channel_types", ErrMissingSection)
	case raw.Geography == nil:
		return RuleSet{}, fmt.Errorf("%w: geography", ErrMissingSection)
	}

	categories := make([]Category, 0, len(*raw.Categories))
	for i, c := range *raw.Categories {
		if c.Name == "" {
			return RuleSet{}, fmt.Errorf("%w: category %d", ErrCategoryName, i)
		}
		if c.Priority == nil {
			return RuleSet{}, fmt.Errorf("%w: category %q", ErrCategoryPriority, c.Name)
		}
		categories = append(categories, Category{Name: c.Name, Priority: *c.Priority, Keywords: c.Keywords})
	}

	return RuleSet{
		Categories:   categories,
		ContentTypes: *raw.ContentTypes,
		Geography:    *raw.Geography,
		Languages:    raw.Languages,
		Overrides:    raw.Overrides,
	}, nil
}

// LoadRules reads and validates the rule set at path.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRules(data)
}

// LoadRulesOrFallback loads the rule set at path. An empty path selects
// DefaultRules. A file that cannot be loaded is logged once and replaced
// by MinimalRules, the second return value then being false.
func LoadRulesOrFallback(path string, logger *slog.Logger) (RuleSet, bool) {
	if path == "" {
		return DefaultRules(), true
	}
	rules, err := LoadRules(path)
	if err != nil {
		logger.Error("failed to load classification rules, using minimal fallback", "path", path, "error", err)
		return MinimalRules(), false
	}
	logger.Info("loaded classification rules", "path", path, "categories", len(rules.Categories))
	return rules, true
}
