package pricing

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/frigomagique/pricing-engine/internal/matching"
)

//go:embed data/fallback_prices.yaml
var fallbackYAML []byte

// CategoryOther is the catch-all category for ingredients no keyword claims.
const CategoryOther = "other"

// FallbackTable is the static last-resort price table: category inference by
// keyword, exact item lookup within the category, then substring lookup, then
// the category default. Loaded once, immutable afterwards.
type FallbackTable struct {
	categories   []fallbackCategory
	defaultPrice float64
}

type fallbackCategory struct {
	Name         string             `yaml:"name"`
	Keywords     []string           `yaml:"keywords"`
	Prices       map[string]float64 `yaml:"prices"`
	DefaultPrice float64            `yaml:"default"`

	orderedKeys []string // price keys longest-first, for deterministic substring lookup
}

type fallbackFile struct {
	Version      int                `yaml:"version"`
	DefaultPrice float64            `yaml:"default_price"`
	Categories   []fallbackCategory `yaml:"categories"`
}

// LoadFallbackTable parses the embedded price table.
func LoadFallbackTable() (*FallbackTable, error) {
	var f fallbackFile
	if err := yaml.Unmarshal(fallbackYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing fallback price table: %w", err)
	}
	if f.DefaultPrice <= 0 {
		return nil, fmt.Errorf("fallback price table missing default_price")
	}
	for i := range f.Categories {
		c := &f.Categories[i]
		if c.Name == "" || c.DefaultPrice <= 0 {
			return nil, fmt.Errorf("fallback category %q missing name or default", c.Name)
		}
		c.orderedKeys = make([]string, 0, len(c.Prices))
		for key := range c.Prices {
			c.orderedKeys = append(c.orderedKeys, key)
		}
		sort.Slice(c.orderedKeys, func(a, b int) bool {
			if len(c.orderedKeys[a]) != len(c.orderedKeys[b]) {
				return len(c.orderedKeys[a]) > len(c.orderedKeys[b])
			}
			return c.orderedKeys[a] < c.orderedKeys[b]
		})
	}
	return &FallbackTable{categories: f.Categories, defaultPrice: f.DefaultPrice}, nil
}

// Lookup resolves a price for the normalized ingredient name. ok is false
// when no category keyword claims the name; the caller then falls back to
// DefaultPrice.
func (t *FallbackTable) Lookup(normalizedName string) (price float64, category string, ok bool) {
	cat := t.categoryFor(normalizedName)
	if cat == nil {
		return 0, CategoryOther, false
	}

	if p, found := cat.Prices[normalizedName]; found {
		return p, cat.Name, true
	}

	for _, key := range cat.orderedKeys {
		if strings.Contains(normalizedName, key) || strings.Contains(key, normalizedName) {
			return cat.Prices[key], cat.Name, true
		}
	}

	return cat.DefaultPrice, cat.Name, true
}

// Category infers the category for a raw or normalized ingredient name.
func (t *FallbackTable) Category(name string) string {
	if cat := t.categoryFor(matching.Normalize(name)); cat != nil {
		return cat.Name
	}
	return CategoryOther
}

// DefaultPrice is the global last-resort price.
func (t *FallbackTable) DefaultPrice() float64 {
	return t.defaultPrice
}

// categoryFor picks the category whose longest keyword appears in the name;
// ties go to the earlier category. Longest-keyword preference keeps "pomme de
// terre" out of the fruit aisle.
func (t *FallbackTable) categoryFor(normalizedName string) *fallbackCategory {
	if normalizedName == "" {
		return nil
	}
	var best *fallbackCategory
	bestLen := 0
	for i := range t.categories {
		for _, kw := range t.categories[i].Keywords {
			if len(kw) > bestLen && strings.Contains(normalizedName, kw) {
				best = &t.categories[i]
				bestLen = len(kw)
			}
		}
	}
	return best
}
