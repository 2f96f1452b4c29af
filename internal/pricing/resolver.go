package pricing

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/frigomagique/pricing-engine/internal/domain"
	"github.com/frigomagique/pricing-engine/internal/matching"
)

//go:embed data/vendors.yaml
var vendorsYAML []byte

// Resolution defaults; all overridable through ResolverConfig.
const (
	defaultMaxVendors       = 5
	defaultFetchConcurrency = 3
	defaultVendorTimeout    = 10 * time.Second
)

// ResolverConfig holds tunables for the price resolver.
type ResolverConfig struct {
	MaxVendors       int
	FetchConcurrency int
	VendorTimeout    time.Duration
	Logger           *zap.Logger
}

// Resolver resolves a unit-reference price for an ingredient through a
// layered pipeline: cache (government entries first), government reference
// dataset, flyer deal feed, static fallback table, fixed default. Every
// stage failure degrades to the next stage; ResolvePrice never errors.
type Resolver struct {
	cache     domain.PriceCache
	reference domain.ReferencePriceSource
	feed      domain.DealFeed
	matcher   *matching.Matcher
	fallback  *FallbackTable
	vendors   *vendorFilter

	maxVendors       int
	fetchConcurrency int
	vendorTimeout    time.Duration
	logger           *zap.Logger
}

type vendorFilter struct {
	GroceryKeywords   []string `yaml:"grocery_keywords"`
	ExcludedMerchants []string `yaml:"excluded_merchants"`
}

// NewResolver wires the resolver. cache, reference, and feed are optional;
// a nil collaborator simply skips its pipeline stage.
func NewResolver(
	cache domain.PriceCache,
	reference domain.ReferencePriceSource,
	feed domain.DealFeed,
	matcher *matching.Matcher,
	cfg ResolverConfig,
) (*Resolver, error) {
	fallback, err := LoadFallbackTable()
	if err != nil {
		return nil, err
	}

	var vendors vendorFilter
	if err := yaml.Unmarshal(vendorsYAML, &vendors); err != nil {
		return nil, fmt.Errorf("parsing vendor filter: %w", err)
	}

	if cfg.MaxVendors <= 0 {
		cfg.MaxVendors = defaultMaxVendors
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}
	if cfg.VendorTimeout <= 0 {
		cfg.VendorTimeout = defaultVendorTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Resolver{
		cache:            cache,
		reference:        reference,
		feed:             feed,
		matcher:          matcher,
		fallback:         fallback,
		vendors:          &vendors,
		maxVendors:       cfg.MaxVendors,
		fetchConcurrency: cfg.FetchConcurrency,
		vendorTimeout:    cfg.VendorTimeout,
		logger:           cfg.Logger,
	}, nil
}

// ResolvePrice resolves a unit-reference price for the ingredient. quantity
// and unit are carried for logging and for callers that scale the result
// immediately; source resolution itself is quantity-independent. postal is
// optional and gates the deal-feed stage. Always returns a usable quote; the
// Source field is the caller's confidence signal.
func (r *Resolver) ResolvePrice(ctx context.Context, name string, quantity float64, unit, postal string) domain.PriceQuote {
	normalized := matching.Normalize(name)
	if normalized == "" {
		return r.defaultQuote("")
	}

	log := r.logger.With(
		zap.String("ingredient", normalized),
		zap.Float64("quantity", quantity),
		zap.String("unit", unit),
	)

	if quote, ok := r.fromCache(ctx, normalized); ok {
		log.Debug("price resolved from cache", zap.String("source", string(quote.Source)))
		return quote
	}

	if quote, ok := r.fromReference(ctx, normalized); ok {
		log.Debug("price resolved from reference dataset", zap.Float64("amount", quote.Amount))
		return quote
	}

	if postal != "" {
		if quote, ok := r.fromDealFeed(ctx, name, normalized, postal); ok {
			log.Debug("price resolved from deal feed", zap.Float64("amount", quote.Amount))
			return quote
		}
	}

	if price, category, ok := r.fallback.Lookup(normalized); ok {
		log.Debug("price resolved from fallback table",
			zap.String("category", category),
			zap.Float64("amount", price),
		)
		return domain.PriceQuote{Amount: price, Source: domain.SourceFallback, Category: category}
	}

	log.Debug("price resolution exhausted, using default")
	return r.defaultQuote(r.fallback.Category(normalized))
}

// fromCache prefers a government-sourced entry over any other cached source.
func (r *Resolver) fromCache(ctx context.Context, normalized string) (domain.PriceQuote, bool) {
	if r.cache == nil {
		return domain.PriceQuote{}, false
	}

	if quote, err := r.cache.Get(ctx, normalized, domain.SourceGovernment); err == nil && quote != nil {
		return *quote, true
	}
	quote, err := r.cache.Get(ctx, normalized, "")
	if err != nil || quote == nil {
		return domain.PriceQuote{}, false
	}
	return *quote, true
}

func (r *Resolver) fromReference(ctx context.Context, normalized string) (domain.PriceQuote, bool) {
	if r.reference == nil {
		return domain.PriceQuote{}, false
	}

	price, err := r.reference.Lookup(ctx, normalized)
	if err != nil {
		r.logger.Warn("reference dataset unavailable", zap.Error(err))
		return domain.PriceQuote{}, false
	}

	quote := domain.PriceQuote{
		Amount:   price,
		Source:   domain.SourceGovernment,
		Category: r.fallback.Category(normalized),
	}
	r.persist(ctx, normalized, quote)
	return quote, true
}

// fromDealFeed averages matching flyer prices across nearby grocery vendors.
func (r *Resolver) fromDealFeed(ctx context.Context, name, normalized, postal string) (domain.PriceQuote, bool) {
	if r.feed == nil || r.matcher == nil {
		return domain.PriceQuote{}, false
	}

	vendors, err := r.feed.ListVendorsNear(ctx, postal)
	if err != nil {
		r.logger.Warn("deal feed vendor lookup failed", zap.Error(err))
		return domain.PriceQuote{}, false
	}

	grocers := r.filterGrocers(vendors)
	if len(grocers) == 0 {
		return domain.PriceQuote{}, false
	}
	if len(grocers) > r.maxVendors {
		grocers = grocers[:r.maxVendors]
	}

	prices := r.collectPrices(ctx, name, grocers)
	if len(prices) == 0 {
		return domain.PriceQuote{}, false
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	quote := domain.PriceQuote{
		Amount:   round2(sum / float64(len(prices))),
		Source:   domain.SourceDealFeed,
		Category: r.fallback.Category(normalized),
	}
	r.persist(ctx, normalized, quote)
	return quote, true
}

// collectPrices fetches vendor flyers in small concurrent batches with a
// per-fetch timeout. A failed or slow vendor contributes nothing; it never
// blocks the resolution.
func (r *Resolver) collectPrices(ctx context.Context, name string, vendors []domain.Vendor) []float64 {
	var (
		mu     sync.Mutex
		prices []float64
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, r.fetchConcurrency)

	for _, vendor := range vendors {
		wg.Add(1)
		go func(v domain.Vendor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, r.vendorTimeout)
			defer cancel()

			items, err := r.feed.ListItems(fetchCtx, v.ID)
			if err != nil {
				r.logger.Debug("vendor fetch failed",
					zap.String("vendor", v.Merchant),
					zap.Error(err),
				)
				return
			}

			var found []float64
			for _, item := range items {
				if r.matcher.Matches(name, item.Name) && item.EffectivePrice() > 0 {
					found = append(found, item.EffectivePrice())
				}
			}

			mu.Lock()
			prices = append(prices, found...)
			mu.Unlock()
		}(vendor)
	}

	wg.Wait()
	return prices
}

// filterGrocers keeps vendors whose merchant name matches the grocery
// allowlist and is not an explicitly excluded niche vendor.
func (r *Resolver) filterGrocers(vendors []domain.Vendor) []domain.Vendor {
	var out []domain.Vendor
	for _, v := range vendors {
		merchant := matching.Normalize(v.Merchant)
		if merchant == "" || r.excludedMerchant(merchant) {
			continue
		}
		for _, kw := range r.vendors.GroceryKeywords {
			if strings.Contains(merchant, kw) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func (r *Resolver) excludedMerchant(merchant string) bool {
	for _, excl := range r.vendors.ExcludedMerchants {
		if strings.Contains(merchant, excl) {
			return true
		}
	}
	return false
}

// persist writes a resolved quote back to the cache, best effort.
func (r *Resolver) persist(ctx context.Context, normalized string, quote domain.PriceQuote) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Upsert(ctx, normalized, quote); err != nil {
		r.logger.Warn("price cache upsert failed",
			zap.String("ingredient", normalized),
			zap.Error(err),
		)
	}
}

func (r *Resolver) defaultQuote(category string) domain.PriceQuote {
	if category == "" {
		category = CategoryOther
	}
	return domain.PriceQuote{
		Amount:   r.fallback.DefaultPrice(),
		Source:   domain.SourceDefault,
		Category: category,
	}
}
