package domain

// CatalogueItem is a candidate product name to match ingredients against,
// typically a pantry entry or a flyer listing.
type CatalogueItem struct {
	Name     string `json:"name"`
	ID       string `json:"id,omitempty"`
	Merchant string `json:"merchant,omitempty"`
}

// MatchCandidate pairs an ingredient with a catalogue item it matched,
// scored for ranking.
//
// Score tiers: 100 exact normalized equality, 90 item contains the full
// ingredient string, 85 all significant words present regardless of order,
// 80 ingredient contains the item, 75 any other accepted match (translation
// or word-level). Scores rank candidates; they never veto a match.
type MatchCandidate struct {
	Ingredient  string        `json:"ingredient"`
	MatchedItem CatalogueItem `json:"matchedItem"`
	MatchScore  int           `json:"matchScore"`
}
