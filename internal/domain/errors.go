package domain

import "errors"

var (
	// ErrInvalidInput is returned when request parameters are empty or malformed
	ErrInvalidInput = errors.New("invalid input parameters")

	// ErrCacheMiss is returned when a price is not found in the cache
	ErrCacheMiss = errors.New("price cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("price cache unavailable")

	// ErrSourceUnavailable is returned when a price source cannot serve a lookup
	ErrSourceUnavailable = errors.New("price source unavailable")

	// ErrNoVendors is returned when the deal feed has no grocery vendors for a locality
	ErrNoVendors = errors.New("no grocery vendors near locality")

	// ErrFeedFailure is returned when a deal feed request fails
	ErrFeedFailure = errors.New("deal feed request failed")

	// ErrNoPriceData is returned when a source has no price for an ingredient
	ErrNoPriceData = errors.New("no price data for ingredient")

	// ErrMalformedDataset is returned when the reference dataset cannot be parsed
	ErrMalformedDataset = errors.New("malformed reference dataset")
)
