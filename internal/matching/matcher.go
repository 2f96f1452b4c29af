package matching

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/frigomagique/pricing-engine/internal/domain"
)

// Score tiers for ranking catalogue matches. A score never vetoes a match.
const (
	scoreExact              = 100 // exact normalized equality
	scoreItemContains       = 90  // catalogue entry contains the full ingredient
	scoreAllWords           = 85  // every significant word present, any order
	scoreIngredientContains = 80  // ingredient contains the catalogue entry
	scoreLoose              = 75  // translation or word-level match
)

// Containment thresholds for the multi-word strategy. Short words only ever
// match by equality; the false-positive rate of substring matching on them
// is unacceptable in this domain.
const (
	looseContainMinLen  = 5
	looseContainRatio   = 0.7
	strictContainMinLen = 4
	strictContainRatio  = 0.8
)

// Config holds configuration for the matcher.
type Config struct {
	Logger *zap.Logger
}

// Matcher decides whether two free-text grocery strings denote the same
// product. Pure and deterministic: every decision is a predicate over the two
// normalized strings plus the static rule tables.
type Matcher struct {
	rules  *RuleSet
	logger *zap.Logger
}

// NewMatcher builds a matcher from the embedded rule tables.
func NewMatcher(cfg Config) (*Matcher, error) {
	rules, err := LoadRules()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{rules: rules, logger: logger}, nil
}

// Rules exposes the loaded rule tables for collaborators that share the
// significant-word definition (e.g. the price resolver's cache keys).
func (m *Matcher) Rules() *RuleSet {
	return m.rules
}

// Matches reports whether the two strings denote the same product.
// Never errors; empty or packaging-only input yields false.
func (m *Matcher) Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	sa := m.rules.SignificantWords(na)
	sb := m.rules.SignificantWords(nb)
	if len(sa) == 0 || len(sb) == 0 {
		return false
	}

	if m.rules.IsFalsePositive(na, nb) {
		return false
	}
	if m.compoundGuardBlocks(na, nb) {
		return false
	}

	// Strategy dispatch on the search term's word count: a single meaningful
	// word needs strict continuation checks, several words need at least one
	// word-level agreement.
	var matched bool
	if len(sa) == 1 {
		matched = m.singleWordMatch(sa[0], nb, sb)
	} else {
		matched = m.multiWordMatch(na, nb, sa, sb)
	}

	m.logger.Debug("match decision",
		zap.String("a", na),
		zap.String("b", nb),
		zap.Bool("matched", matched),
	)
	return matched
}

// FindMatches returns every (ingredient, item) pair that matches, scored and
// sorted by descending score. All matches are kept, not just the best one;
// ranking is the caller's concern.
func (m *Matcher) FindMatches(ingredients []string, items []domain.CatalogueItem) []domain.MatchCandidate {
	var out []domain.MatchCandidate
	for _, ing := range ingredients {
		for _, item := range items {
			if !m.Matches(ing, item.Name) {
				continue
			}
			out = append(out, domain.MatchCandidate{
				Ingredient:  ing,
				MatchedItem: item,
				MatchScore:  m.score(ing, item.Name),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// score ranks an accepted match into the containment tiers.
func (m *Matcher) score(ingredient, item string) int {
	ni, nt := Normalize(ingredient), Normalize(item)
	switch {
	case ni == nt:
		return scoreExact
	case strings.Contains(nt, ni):
		return scoreItemContains
	case m.allWordsPresent(ni, nt):
		return scoreAllWords
	case strings.Contains(ni, nt):
		return scoreIngredientContains
	default:
		return scoreLoose
	}
}

func (m *Matcher) allWordsPresent(ni, nt string) bool {
	si := m.rules.SignificantWords(ni)
	st := m.rules.SignificantWords(nt)
	if len(si) == 0 {
		return false
	}
	for _, w := range si {
		if !containsToken(st, w) {
			return false
		}
	}
	return true
}

// singleWordMatch handles a search term that reduces to one meaningful word.
// The candidate must carry the word (or a curated translation of it) in a
// position and continuation that do not indicate a composed or transformed
// product: "beurre salé" is still butter, "beurre d'arachide" is not.
func (m *Matcher) singleWordMatch(w, nb string, sb []string) bool {
	if m.matchWordAgainst(w, w, nb, sb) {
		return true
	}
	for _, syn := range m.synonymsOf(w) {
		if m.matchWordAgainst(w, syn, nb, sb) {
			return true
		}
	}
	return false
}

// matchWordAgainst checks one concrete word (the search word itself or one of
// its translations) against the candidate. trigger keys the exclusion lists
// of the original search word so a translated word inherits them.
func (m *Matcher) matchWordAgainst(trigger, w, nb string, sb []string) bool {
	if nb == w {
		return true
	}

	if rest, ok := strings.CutPrefix(nb, w+" "); ok {
		return !m.excludedContinuation(trigger, w, rest)
	}

	// Word present elsewhere as a whole token: only accept when it is the
	// candidate's own leading significant word, so "compote de pomme" never
	// matches "pomme" through the incidental mid-phrase token.
	tokens := strings.Fields(nb)
	if containsToken(tokens, w) && len(sb) > 0 && sb[0] == w {
		if m.rules.hasNegation(nb) {
			return false
		}
		return !m.excludedContinuation(trigger, w, afterToken(nb, w))
	}

	return false
}

// excludedContinuation reports whether the text following the matched word
// disqualifies the match: generic composition markers, the trigger word's own
// curated exclusions, or transformation words.
func (m *Matcher) excludedContinuation(trigger, w, continuation string) bool {
	if continuation == "" {
		return false
	}
	for _, marker := range m.rules.CompositionMarkers {
		if strings.Contains(continuation, marker) {
			return true
		}
	}
	for _, key := range []string{trigger, w} {
		for _, excl := range m.rules.TriggerExclusions[key] {
			if strings.Contains(continuation, excl) {
				return true
			}
		}
	}
	for _, t := range m.rules.TransformationWords {
		if strings.Contains(continuation, t) {
			return true
		}
	}
	return false
}

// multiWordMatch requires at least one word-level agreement between the two
// significant-word sets.
func (m *Matcher) multiWordMatch(na, nb string, sa, sb []string) bool {
	negA := m.rules.hasNegation(na)
	negB := m.rules.hasNegation(nb)

	for _, wa := range sa {
		for _, wb := range sb {
			kind := m.wordsMatch(wa, wb)
			if kind == wordNoMatch {
				continue
			}
			if kind == wordEqual {
				return true
			}
			// Loose matches are suppressed on a negated side unless the
			// shared term opens the candidate string outright.
			if (negA || negB) && !strings.HasPrefix(nb, wa) && !strings.HasPrefix(na, wb) {
				continue
			}
			return true
		}
	}
	return false
}

type wordMatchKind int

const (
	wordNoMatch wordMatchKind = iota
	wordEqual
	wordLoose
)

// wordsMatch compares two significant words: equality, curated translation,
// or length-gated containment.
func (m *Matcher) wordsMatch(w1, w2 string) wordMatchKind {
	if w1 == w2 {
		return wordEqual
	}
	if m.rules.IsFalsePositive(w1, w2) {
		return wordNoMatch
	}
	if containsToken(m.rules.Synonyms[w1], w2) {
		return wordLoose
	}
	if (m.rules.PastaWords[w1] && m.rules.PastaShapes[w2]) ||
		(m.rules.PastaWords[w2] && m.rules.PastaShapes[w1]) {
		return wordLoose
	}

	short, long := w1, w2
	if len(short) > len(long) {
		short, long = long, short
	}
	if !strings.Contains(long, short) {
		return wordNoMatch
	}
	ratio := float64(len(short)) / float64(len(long))
	if len(short) >= looseContainMinLen && ratio >= looseContainRatio {
		return wordLoose
	}
	if len(short) >= strictContainMinLen && ratio >= strictContainRatio {
		return wordLoose
	}
	return wordNoMatch
}

// synonymsOf returns the curated translations of a word, extended with the
// pasta shape names for the pasta group.
func (m *Matcher) synonymsOf(w string) []string {
	syns := m.rules.Synonyms[w]
	if !m.rules.PastaWords[w] {
		return syns
	}
	out := make([]string, 0, len(syns)+len(m.rules.PastaShapes))
	out = append(out, syns...)
	for shape := range m.rules.PastaShapes {
		out = append(out, shape)
	}
	return out
}

// compoundGuardBlocks fires when both strings carry a guard trigger but
// qualify it differently: "papier toilette" and "papier aluminium" share
// "papier" and must never match. Checked once with shared logic, so the
// outcome is identical for both argument orders.
func (m *Matcher) compoundGuardBlocks(na, nb string) bool {
	ta := strings.Fields(na)
	tb := strings.Fields(nb)
	for trigger, qualifiers := range m.rules.CompoundGuards {
		if !containsToken(ta, trigger) || !containsToken(tb, trigger) {
			continue
		}
		qa := presentQualifiers(na, qualifiers)
		qb := presentQualifiers(nb, qualifiers)
		if len(qa) > 0 && len(qb) > 0 && !intersect(qa, qb) {
			return true
		}
	}
	return false
}

func presentQualifiers(normalized string, qualifiers []string) []string {
	var present []string
	for _, q := range qualifiers {
		if strings.Contains(normalized, q) {
			present = append(present, q)
		}
	}
	return present
}

func intersect(a, b []string) bool {
	for _, x := range a {
		if containsToken(b, x) {
			return true
		}
	}
	return false
}

// afterToken returns the text following the first whole-token occurrence of
// word in the normalized string.
func afterToken(normalized, word string) string {
	tokens := strings.Fields(normalized)
	for i, t := range tokens {
		if t == word {
			return strings.Join(tokens[i+1:], " ")
		}
	}
	return ""
}
