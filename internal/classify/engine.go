package classify

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Result is the classification of a channel name.
type Result struct {
	Category    string `json:"category"`
	Priority    int    `json:"priority"`
	Continent   string `json:"continent"`
	Country     string `json:"country"`
	Province    string `json:"province,omitempty"`
	Region      string `json:"region,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Language    string `json:"language"`
}

type compiledCategory struct {
	name     string
	priority int
	matcher  *ahocorasick.Matcher
}

// Engine classifies channel names against a RuleSet. It is safe for
// concurrent use.
type Engine struct {
	rules      RuleSet
	categories []compiledCategory
	priorities map[string]int
	logger     *slog.Logger

	// ahocorasick matchers keep per-call state.
	mu sync.Mutex
}

// NewEngine compiles rules. Categories are ordered by ascending priority,
// keeping declaration order among equal priorities.
func NewEngine(rules RuleSet, logger *slog.Logger) *Engine {
	if rules.Languages == nil {
		rules.Languages = DefaultLanguages()
	}
	if rules.Overrides == nil {
		rules.Overrides = DefaultOverrides()
	}

	ordered := slices.Clone(rules.Categories)
	slices.SortStableFunc(ordered, func(a, b Category) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	e := &Engine{
		rules:      rules,
		categories: make([]compiledCategory, 0, len(ordered)),
		priorities: make(map[string]int, len(ordered)),
		logger:     logger,
	}
	for _, c := range ordered {
		if _, dup := e.priorities[c.Name]; !dup {
			e.priorities[c.Name] = c.Priority
		}
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if kw = foldUpper(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		compiled := compiledCategory{name: c.Name, priority: c.Priority}
		if len(keywords) > 0 {
			compiled.matcher = ahocorasick.NewStringMatcher(keywords)
		}
		e.categories = append(e.categories, compiled)
	}
	return e
}

// Rules returns the rule set the engine was built from.
func (e *Engine) Rules() RuleSet { return e.rules }

// CategoryFor returns the first category, in priority order, whose keyword
// occurs in name. Matching is case-insensitive. Names matching nothing get
// the Sentinel.
func (e *Engine) CategoryFor(name string) string {
	upper := []byte(foldUpper(name))

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.categories {
		if c.matcher != nil && len(c.matcher.Match(upper)) > 0 {
			return c.name
		}
	}
	return Sentinel
}

// Priority returns the priority of category. The Sentinel has
// SentinelPriority and unknown names have UnknownPriority.
func (e *Engine) Priority(category string) int {
	if category == Sentinel {
		return SentinelPriority
	}
	if p, ok := e.priorities[category]; ok {
		return p
	}
	return UnknownPriority
}

// ShouldOverride decides whether newCategory replaces existing for name.
// A Sentinel existing category is always replaced, a Sentinel new category
// never replaces, and otherwise the lower priority wins. Forced overrides
// promote their category when the name carries the marker.
func (e *Engine) ShouldOverride(newCategory, existing, name string) bool {
	if existing == Sentinel {
		return true
	}
	if newCategory == Sentinel {
		return false
	}
	if e.Priority(newCategory) < e.Priority(existing) {
		return true
	}
	upper := foldUpper(name)
	for _, o := range e.rules.Overrides {
		marker := foldUpper(o.Marker)
		if marker != "" && strings.Contains(upper, marker) && newCategory == o.Category && existing != o.Category {
			return true
		}
	}
	return false
}

// Merge returns the category name should end up in, given the category it
// already carries. An empty existing category counts as the Sentinel.
func (e *Engine) Merge(name, existing string) string {
	if existing == "" {
		existing = Sentinel
	}
	candidate := e.CategoryFor(name)
	if e.ShouldOverride(candidate, existing, name) {
		if candidate != existing {
			e.logger.Debug("category overridden", "channel", name, "from", existing, "to", candidate)
		}
		return candidate
	}
	return existing
}

// Classify extracts the category and geography, content type and
// language attributes of name.
func (e *Engine) Classify(name string) Result {
	category := e.CategoryFor(name)
	r := Result{
		Category:  category,
		Priority:  e.Priority(category),
		Continent: DefaultContinent,
		Country:   DefaultCountry,
		Language:  DefaultLanguage,
	}

	clean := CleanName(name)
	e.locate(clean, &r)

	for _, ct := range e.rules.ContentTypes {
		if containsAny(clean, ct.Keywords) {
			r.ContentType = ct.Name
			break
		}
	}
	for _, lang := range e.rules.Languages {
		if containsAny(clean, lang.Keywords) {
			r.Language = lang.Code
			break
		}
	}
	return r
}

// locate walks continents and countries in declaration order and stops at
// the first country matched by keyword. For the default country a province
// keyword also counts as a match. Regions are only consulted once the
// country matched, and a matching region overrides the country code.
func (e *Engine) locate(clean string, r *Result) {
	for _, continent := range e.rules.Geography.Continents {
		for _, country := range continent.Countries {
			matched := containsAny(clean, country.Keywords)
			province := ""
			if !matched && country.Code == DefaultCountry {
				for _, p := range country.Provinces {
					if containsAny(clean, p.Keywords) {
						province = p.Name
						matched = true
						break
					}
				}
			}
			if !matched {
				continue
			}

			r.Continent = continent.Name
			r.Country = cmp.Or(country.Code, DefaultCountry)
			r.Province = province
			for _, region := range country.Regions {
				if containsAny(clean, region.Keywords) {
					r.Country = cmp.Or(region.Code, r.Country)
					r.Region = region.Name
					break
				}
			}
			return
		}
	}
}
