package domain

import "time"

// PriceSource identifies which layer of the resolution pipeline produced a quote.
type PriceSource string

const (
	SourceCache      PriceSource = "cache"
	SourceGovernment PriceSource = "government"
	SourceDealFeed   PriceSource = "dynamic-feed"
	SourceFallback   PriceSource = "fallback"
	SourceDefault    PriceSource = "default"
)

// PriceQuote is a resolved unit-reference price for an ingredient.
// Amount is in CAD per reference unit (per kg, per L, per dozen, or per
// package depending on the ingredient's unit class).
type PriceQuote struct {
	Amount   float64     `json:"amount"`
	Source   PriceSource `json:"source"`
	Category string      `json:"category,omitempty"`
	CachedAt time.Time   `json:"cachedAt,omitempty"`
}

// Vendor is a storefront returned by the deal feed for a locality.
type Vendor struct {
	ID       string `json:"id"`
	Merchant string `json:"merchant"`
	Postal   string `json:"postal,omitempty"`
}

// DealItem is a single flyer listing from a vendor.
// RegularPrice is the undiscounted price when the feed exposes one.
type DealItem struct {
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"currentPrice"`
	RegularPrice float64 `json:"regularPrice,omitempty"`
}

// EffectivePrice prefers the undiscounted price so cached quotes outlive the sale.
func (d DealItem) EffectivePrice() float64 {
	if d.RegularPrice > 0 {
		return d.RegularPrice
	}
	return d.CurrentPrice
}
