// Package dealfeed implements the DealFeed collaborator against a
// Flipp-style flyer aggregation API.
package dealfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/frigomagique/pricing-engine/internal/domain"
)

const (
	defaultBaseURL = "https://backflipp.wishabi.com/flipp"
	defaultLocale  = "fr-ca"

	// The upstream aggregator throttles aggressively; stay well under.
	requestsPerSecond = 2
	requestBurst      = 4
)

// Config holds deal feed client configuration.
type Config struct {
	BaseURL string
	Locale  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client fetches flyers and flyer items from the aggregation API.
type Client struct {
	http    *resty.Client
	locale  string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a deal feed client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    http,
		locale:  cfg.Locale,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		logger:  cfg.Logger,
	}
}

type flyerListResponse struct {
	Flyers []struct {
		ID       int    `json:"id"`
		Merchant string `json:"merchant"`
		Postal   string `json:"postal_code"`
	} `json:"flyers"`
}

type flyerItemsResponse struct {
	Items []struct {
		Name          string    `json:"name"`
		CurrentPrice  feedPrice `json:"current_price"`
		OriginalPrice feedPrice `json:"original_price"`
	} `json:"items"`
}

// feedPrice tolerates the API's habit of returning prices as either numbers
// or strings ("3.99", "2/5.00" is rejected as unparseable and yields zero).
type feedPrice float64

func (p *feedPrice) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = feedPrice(v)
	return nil
}

// ListVendorsNear returns the storefronts with an active flyer near the
// postal code.
func (c *Client) ListVendorsNear(ctx context.Context, postal string) ([]domain.Vendor, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var out flyerListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"postal_code": postal,
			"locale":      c.locale,
		}).
		SetResult(&out).
		Get("/flyers")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedFailure, resp.StatusCode())
	}

	vendors := make([]domain.Vendor, 0, len(out.Flyers))
	for _, f := range out.Flyers {
		vendors = append(vendors, domain.Vendor{
			ID:       strconv.Itoa(f.ID),
			Merchant: f.Merchant,
			Postal:   f.Postal,
		})
	}
	c.logger.Debug("listed flyers", zap.String("postal", postal), zap.Int("count", len(vendors)))
	return vendors, nil
}

// ListItems returns the flyer listings of one vendor.
func (c *Client) ListItems(ctx context.Context, vendorID string) ([]domain.DealItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("locale", c.locale).
		Get("/flyers/" + vendorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedFailure, resp.StatusCode())
	}

	var out flyerItemsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decoding items: %v", domain.ErrFeedFailure, err)
	}

	items := make([]domain.DealItem, 0, len(out.Items))
	for _, it := range out.Items {
		if it.Name == "" {
			continue
		}
		items = append(items, domain.DealItem{
			Name:         it.Name,
			CurrentPrice: float64(it.CurrentPrice),
			RegularPrice: float64(it.OriginalPrice),
		})
	}
	return items, nil
}
