// Package statcan loads government average-retail-food-price statistics from
// a delimited extract and serves them as a reference price source.
//
// The expected layout is the Statistics Canada monthly food price table
// (REF_DATE, GEO, Products, VALUE columns) in its French-locale extract, so
// product names line up with the engine's normalized French ingredient names.
package statcan

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frigomagique/pricing-engine/internal/domain"
	"github.com/frigomagique/pricing-engine/internal/matching"
)

const defaultReloadTTL = 24 * time.Hour

// LoaderConfig holds loader configuration. Open overrides Path when both are
// set; Clock is injectable so tests control staleness deterministically.
type LoaderConfig struct {
	Path      string
	Open      func() (io.ReadCloser, error)
	Region    string
	ReloadTTL time.Duration
	Clock     func() time.Time
	Logger    *zap.Logger
}

// Loader is a periodically reloaded in-memory price table built from the
// reference dataset. Safe for concurrent use.
type Loader struct {
	open      func() (io.ReadCloser, error)
	region    string
	reloadTTL time.Duration
	now       func() time.Time
	logger    *zap.Logger

	mu          sync.RWMutex
	table       map[string]float64
	orderedKeys []string // longest first, for deterministic substring lookup
	loadedAt    time.Time
}

// NewLoader creates a loader. The dataset is read lazily on first Lookup and
// re-read after ReloadTTL elapses.
func NewLoader(cfg LoaderConfig) (*Loader, error) {
	open := cfg.Open
	if open == nil {
		if cfg.Path == "" {
			return nil, fmt.Errorf("statcan loader needs a dataset path or open function")
		}
		path := cfg.Path
		open = func() (io.ReadCloser, error) { return os.Open(path) }
	}
	if cfg.Region == "" {
		cfg.Region = "quebec"
	}
	if cfg.ReloadTTL <= 0 {
		cfg.ReloadTTL = defaultReloadTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Loader{
		open:      open,
		region:    matching.Normalize(cfg.Region),
		reloadTTL: cfg.ReloadTTL,
		now:       cfg.Clock,
		logger:    cfg.Logger,
	}, nil
}

// Lookup returns the most recent reference price for the normalized
// ingredient name: exact key first, then substring in either direction.
func (l *Loader) Lookup(ctx context.Context, normalizedName string) (float64, error) {
	if normalizedName == "" {
		return 0, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	table, orderedKeys, err := l.freshTable()
	if err != nil {
		return 0, err
	}

	if price, ok := table[normalizedName]; ok {
		return price, nil
	}
	for _, key := range orderedKeys {
		if strings.Contains(key, normalizedName) || strings.Contains(normalizedName, key) {
			return table[key], nil
		}
	}
	return 0, domain.ErrNoPriceData
}

// freshTable returns the current table, reloading when stale. A failed reload
// keeps serving the last good table; only a cold start with no data degrades
// the source to unavailable.
func (l *Loader) freshTable() (map[string]float64, []string, error) {
	l.mu.RLock()
	fresh := l.table != nil && l.now().Sub(l.loadedAt) < l.reloadTTL
	table, orderedKeys := l.table, l.orderedKeys
	l.mu.RUnlock()
	if fresh {
		return table, orderedKeys, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.table != nil && l.now().Sub(l.loadedAt) < l.reloadTTL {
		return l.table, l.orderedKeys, nil
	}

	loaded, err := l.load()
	if err != nil {
		if l.table != nil {
			l.logger.Warn("reference dataset reload failed, keeping previous table", zap.Error(err))
			l.loadedAt = l.now()
			return l.table, l.orderedKeys, nil
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	l.table = loaded
	l.orderedKeys = orderKeys(loaded)
	l.loadedAt = l.now()
	l.logger.Info("reference dataset loaded",
		zap.Int("products", len(loaded)),
		zap.String("region", l.region),
	)
	return l.table, l.orderedKeys, nil
}

// load parses the delimited extract, filters to the configured region, and
// keeps the most recent period's value per product.
func (l *Loader) load() (map[string]float64, error) {
	rc, err := l.open()
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrMalformedDataset, err)
	}
	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	type latest struct {
		period string
		value  float64
	}
	seen := make(map[string]latest)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDataset, err)
		}
		if len(record) <= cols.max() {
			continue
		}

		if !strings.Contains(matching.Normalize(record[cols.geo]), l.region) {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[cols.value]), 64)
		if err != nil || value <= 0 {
			continue
		}

		product := matching.Normalize(record[cols.product])
		if product == "" {
			continue
		}
		// REF_DATE is "YYYY-MM"; lexical comparison picks the newest period.
		period := strings.TrimSpace(record[cols.refDate])
		if prev, ok := seen[product]; ok && prev.period >= period {
			continue
		}
		seen[product] = latest{period: period, value: value}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: no rows for region %q", domain.ErrMalformedDataset, l.region)
	}

	table := make(map[string]float64, len(seen))
	for product, entry := range seen {
		table[product] = entry.value
	}
	return table, nil
}

type columns struct {
	refDate, geo, product, value int
}

func (c columns) max() int {
	m := c.refDate
	for _, v := range []int{c.geo, c.product, c.value} {
		if v > m {
			m = v
		}
	}
	return m
}

func columnIndexes(header []string) (columns, error) {
	cols := columns{refDate: -1, geo: -1, product: -1, value: -1}
	for i, name := range header {
		switch strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")) {
		case "REF_DATE":
			cols.refDate = i
		case "GEO":
			cols.geo = i
		case "PRODUCTS", "PRODUITS":
			cols.product = i
		case "VALUE", "VALEUR":
			cols.value = i
		}
	}
	if cols.refDate < 0 || cols.geo < 0 || cols.product < 0 || cols.value < 0 {
		return cols, fmt.Errorf("%w: missing required columns in header %v", domain.ErrMalformedDataset, header)
	}
	return cols, nil
}

func orderKeys(table map[string]float64) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
