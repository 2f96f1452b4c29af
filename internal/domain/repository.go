package domain

import "context"

// PriceCache is the caller-owned acceleration cache for resolved prices,
// keyed by normalized ingredient name. Stale reads are acceptable; it is
// never a source of truth.
type PriceCache interface {
	// Get returns the cached quote for the key. When preferred is non-empty,
	// only a quote from that source is returned; ErrCacheMiss otherwise.
	Get(ctx context.Context, key string, preferred PriceSource) (*PriceQuote, error)

	// Upsert inserts the quote or refreshes the existing entry's timestamp.
	Upsert(ctx context.Context, key string, quote PriceQuote) error
}

// DealFeed lists storefronts and their flyer items near a locality.
type DealFeed interface {
	ListVendorsNear(ctx context.Context, postal string) ([]Vendor, error)
	ListItems(ctx context.Context, vendorID string) ([]DealItem, error)
}

// ReferencePriceSource serves government retail-price statistics by
// normalized product name.
type ReferencePriceSource interface {
	Lookup(ctx context.Context, normalizedName string) (float64, error)
}
