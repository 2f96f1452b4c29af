package matching

import "strings"

// SignificantWords extracts the identity-bearing tokens of a normalized
// string: stop words, packaging words, single characters, and pure numbers
// are dropped. An empty result means the string names no real ingredient.
func (r *RuleSet) SignificantWords(normalized string) []string {
	words := strings.Fields(normalized)
	var tokens []string
	for _, w := range words {
		if len(w) <= 1 {
			continue
		}
		if r.StopWords[w] || r.PackagingWords[w] {
			continue
		}
		if isNumeric(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// hasNegation reports whether any raw token of the normalized string is a
// negation word ("sans", "non", "free"). Checked before significant-word
// filtering so negations are never lost to the stop lists.
func (r *RuleSet) hasNegation(normalized string) bool {
	for _, w := range strings.Fields(normalized) {
		if r.NegationWords[w] {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func containsToken(tokens []string, word string) bool {
	for _, t := range tokens {
		if t == word {
			return true
		}
	}
	return false
}
