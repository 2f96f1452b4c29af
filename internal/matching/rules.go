package matching

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/matching_rules.yaml
var rulesYAML []byte

//go:embed data/translations.yaml
var translationsYAML []byte

// RuleSet holds the curated matching tables. The decision engine stays small;
// all domain knowledge lives in data/matching_rules.yaml.
type RuleSet struct {
	StopWords           map[string]bool
	PackagingWords      map[string]bool
	CompositionMarkers  []string
	TransformationWords []string
	TriggerExclusions   map[string][]string
	NegationWords       map[string]bool
	CompoundGuards      map[string][]string
	FalsePositivePairs  map[[2]string]bool
	Synonyms            map[string][]string
	PastaWords          map[string]bool
	PastaShapes         map[string]bool
}

type rulesFile struct {
	Version             int                 `yaml:"version"`
	StopWords           []string            `yaml:"stop_words"`
	PackagingWords      []string            `yaml:"packaging_words"`
	CompositionMarkers  []string            `yaml:"composition_markers"`
	TransformationWords []string            `yaml:"transformation_words"`
	TriggerExclusions   map[string][]string `yaml:"trigger_exclusions"`
	NegationWords       []string            `yaml:"negation_words"`
	CompoundGuards      map[string][]string `yaml:"compound_guards"`
	FalsePositivePairs  [][]string          `yaml:"false_positive_pairs"`
	SynonymGroups       [][]string          `yaml:"synonym_groups"`
	PastaShapes         []string            `yaml:"pasta_shapes"`
}

type translationsFile struct {
	Version     int               `yaml:"version"`
	Ingredients map[string]string `yaml:"ingredients"`
	Units       map[string]string `yaml:"units"`
}

// LoadRules parses the embedded rule tables.
func LoadRules() (*RuleSet, error) {
	var f rulesFile
	if err := yaml.Unmarshal(rulesYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing matching rules: %w", err)
	}

	rs := &RuleSet{
		StopWords:           toSet(f.StopWords),
		PackagingWords:      toSet(f.PackagingWords),
		CompositionMarkers:  f.CompositionMarkers,
		TransformationWords: f.TransformationWords,
		TriggerExclusions:   f.TriggerExclusions,
		NegationWords:       toSet(f.NegationWords),
		CompoundGuards:      f.CompoundGuards,
		FalsePositivePairs:  make(map[[2]string]bool),
		Synonyms:            make(map[string][]string),
		PastaShapes:         toSet(f.PastaShapes),
		PastaWords:          make(map[string]bool),
	}

	for _, pair := range f.FalsePositivePairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("false positive pair must have two entries, got %v", pair)
		}
		rs.FalsePositivePairs[[2]string{pair[0], pair[1]}] = true
		rs.FalsePositivePairs[[2]string{pair[1], pair[0]}] = true
	}

	// Every word in a group is a synonym of every other word in it.
	for _, group := range f.SynonymGroups {
		for _, w := range group {
			for _, other := range group {
				if other != w {
					rs.Synonyms[w] = append(rs.Synonyms[w], other)
				}
			}
		}
	}

	// The pasta group additionally matches any curated shape name.
	for _, w := range []string{"pates", "pasta", "nouilles", "noodles"} {
		rs.PastaWords[w] = true
	}

	return rs, nil
}

// loadTranslations parses the embedded dictionaries, returning the ingredient
// keys longest-first so phrase lookups beat their component words.
func loadTranslations() (ingredients map[string]string, orderedKeys []string, units map[string]string, err error) {
	var f translationsFile
	if err := yaml.Unmarshal(translationsYAML, &f); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing translation tables: %w", err)
	}

	orderedKeys = make([]string, 0, len(f.Ingredients))
	for k := range f.Ingredients {
		orderedKeys = append(orderedKeys, k)
	}
	sort.Slice(orderedKeys, func(i, j int) bool {
		if len(orderedKeys[i]) != len(orderedKeys[j]) {
			return len(orderedKeys[i]) > len(orderedKeys[j])
		}
		return orderedKeys[i] < orderedKeys[j]
	})

	return f.Ingredients, orderedKeys, f.Units, nil
}

// IsFalsePositive reports whether the pair of normalized strings is vetoed.
func (r *RuleSet) IsFalsePositive(a, b string) bool {
	return r.FalsePositivePairs[[2]string{a, b}]
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
