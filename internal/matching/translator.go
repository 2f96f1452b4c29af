package matching

import "strings"

// Translator maps English ingredient and unit names to their French
// equivalents using the embedded dictionaries. Untranslatable input is
// returned unchanged; translation never fails.
type Translator struct {
	ingredients map[string]string
	orderedKeys []string // longest first, so phrases beat component words
	units       map[string]string
}

// NewTranslator builds a translator from the embedded dictionary tables.
func NewTranslator() (*Translator, error) {
	ingredients, orderedKeys, units, err := loadTranslations()
	if err != nil {
		return nil, err
	}
	return &Translator{
		ingredients: ingredients,
		orderedKeys: orderedKeys,
		units:       units,
	}, nil
}

// TranslateName translates an ingredient name. Lookup order is a
// precision/recall trade-off: whole-phrase matches first ("chicken breast"
// must not become "poulet breast"), per-word translation last.
func (t *Translator) TranslateName(term string) string {
	if term == "" {
		return term
	}

	normalized := Normalize(term)
	if out, ok := t.ingredients[normalized]; ok {
		return out
	}

	folded := strings.ToLower(strings.TrimSpace(term))
	if out, ok := t.ingredients[folded]; ok {
		return out
	}

	// Substring pass: the first (longest) dictionary key contained in the
	// input wins. Least precise lookup, so it runs after the exact passes.
	for _, key := range t.orderedKeys {
		if strings.Contains(normalized, key) {
			return t.ingredients[key]
		}
	}

	// Per-word fallback: translate the words we know, keep the rest.
	words := strings.Fields(normalized)
	if len(words) > 1 {
		translatedAny := false
		out := make([]string, len(words))
		for i, w := range words {
			if fr, ok := t.ingredients[w]; ok {
				out[i] = fr
				translatedAny = true
			} else {
				out[i] = w
			}
		}
		if translatedAny {
			return strings.Join(out, " ")
		}
	}

	return term
}

// TranslateUnit translates a measurement unit, falling back to the input.
func (t *Translator) TranslateUnit(unit string) string {
	if unit == "" {
		return unit
	}
	if out, ok := t.units[Normalize(unit)]; ok {
		return out
	}
	return unit
}
