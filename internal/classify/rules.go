package classify

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleSet is the declarative configuration driving classification.
type RuleSet struct {
	Categories   []Category       `yaml:"categories"`
	ContentTypes ContentTypes     `yaml:"channel_types"`
	Geography    Geography        `yaml:"geography"`
	Languages    []Language       `yaml:"languages,omitempty"`
	Overrides    []ForcedOverride `yaml:"forced_overrides,omitempty"`
}

// Category is a named, prioritized keyword rule. Lower priority wins.
type Category struct {
	Name     string   `yaml:"name"`
	Priority int      `yaml:"priority"`
	Keywords []string `yaml:"keywords"`
}

// ContentType maps a content genre to its keywords.
type ContentType struct {
	Name     string
	Keywords []string
}

// ContentTypes keeps the declaration order of the channel_types mapping,
// since the first matching type wins.
type ContentTypes []ContentType

// UnmarshalYAML decodes a mapping of type name to keyword list.
func (c *ContentTypes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d", ErrInvalidContentTypes, node.Line)
	}
	out := make(ContentTypes, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var keywords []string
		if err := node.Content[i+1].Decode(&keywords); err != nil {
			return fmt.Errorf("channel_types %q: %w", node.Content[i].Value, err)
		}
		out = append(out, ContentType{Name: node.Content[i].Value, Keywords: keywords})
	}
	*c = out
	return nil
}

// MarshalYAML renders the content types back as an ordered mapping.
func (c ContentTypes) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, ct := range c {
		var value yaml.Node
		if err := value.Encode(ct.Keywords); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: ct.Name},
			&value,
		)
	}
	return node, nil
}

type Geography struct {
	Continents []Continent `yaml:"continents"`
}

type Continent struct {
	Name      string    `yaml:"name"`
	Code      string    `yaml:"code"`
	Countries []Country `yaml:"countries"`
}

type Country struct {
	Name      string     `yaml:"name"`
	Code      string     `yaml:"code"`
	Keywords  []string   `yaml:"keywords"`
	Provinces []Province `yaml:"provinces,omitempty"`
	Regions   []Region   `yaml:"regions,omitempty"`
}

type Province struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Region is a special administrative region reported with its own code.
type Region struct {
	Name     string   `yaml:"name"`
	Code     string   `yaml:"code"`
	Keywords []string `yaml:"keywords"`
}

// Language maps a language code to the name tokens that indicate it.
type Language struct {
	Code     string   `yaml:"code"`
	Keywords []string `yaml:"keywords"`
}

// ForcedOverride lets a name marker promote a category regardless of
// priority, e.g. names carrying "卫视" always move into the satellite
// category.
type ForcedOverride struct {
	Marker   string `yaml:"marker"`
	Category string `yaml:"category"`
}
