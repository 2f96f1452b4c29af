package statcan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/frigomagique/pricing-engine/internal/domain"
)

const datasetFixture = `REF_DATE,GEO,Products,VALUE
2026-05,Québec,Lait (2 litres),4.05
2026-06,Québec,Lait (2 litres),4.12
2026-06,Ontario,Lait (2 litres),4.55
2026-06,Québec,Oeufs (douzaine),4.87
2026-06,Québec,Poulet entier (par kilogramme),8.45
2026-06,Québec,Café torréfié,
`

func openFixture(data string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(data)), nil
	}
}

func newFixtureLoader(t *testing.T, cfg LoaderConfig) *Loader {
	t.Helper()
	if cfg.Open == nil {
		cfg.Open = openFixture(datasetFixture)
	}
	l, err := NewLoader(cfg)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	return l
}

func TestLoaderLookup(t *testing.T) {
	ctx := context.Background()
	l := newFixtureLoader(t, LoaderConfig{})

	t.Run("substring match returns latest period", func(t *testing.T) {
		price, err := l.Lookup(ctx, "lait")
		if err != nil {
			t.Fatalf("Lookup(lait) error = %v", err)
		}
		if price != 4.12 {
			t.Errorf("Lookup(lait) = %v, want 4.12 from the newest period", price)
		}
	})

	t.Run("exact product name", func(t *testing.T) {
		price, err := l.Lookup(ctx, "oeufs douzaine")
		if err != nil {
			t.Fatalf("Lookup error = %v", err)
		}
		if price != 4.87 {
			t.Errorf("Lookup(oeufs douzaine) = %v, want 4.87", price)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := l.Lookup(ctx, "tofu")
		if !errors.Is(err, domain.ErrNoPriceData) {
			t.Errorf("Lookup(tofu) err = %v, want ErrNoPriceData", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := l.Lookup(ctx, "")
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Lookup(\"\") err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rows without a value are skipped", func(t *testing.T) {
		_, err := l.Lookup(ctx, "cafe")
		if !errors.Is(err, domain.ErrNoPriceData) {
			t.Errorf("Lookup(cafe) err = %v, want ErrNoPriceData", err)
		}
	})
}

func TestLoaderRegionFilter(t *testing.T) {
	l := newFixtureLoader(t, LoaderConfig{Region: "Ontario"})

	price, err := l.Lookup(context.Background(), "lait")
	if err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	if price != 4.55 {
		t.Errorf("Ontario Lookup(lait) = %v, want 4.55", price)
	}
}

func TestLoaderReload(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	var opens int
	l := newFixtureLoader(t, LoaderConfig{
		Open: func() (io.ReadCloser, error) {
			opens++
			return io.NopCloser(strings.NewReader(datasetFixture)), nil
		},
		ReloadTTL: 24 * time.Hour,
		Clock:     func() time.Time { return now },
	})

	if _, err := l.Lookup(ctx, "lait"); err != nil {
		t.Fatalf("first Lookup error = %v", err)
	}
	if _, err := l.Lookup(ctx, "oeufs"); err != nil {
		t.Fatalf("second Lookup error = %v", err)
	}
	if opens != 1 {
		t.Fatalf("dataset opened %d times within TTL, want 1", opens)
	}

	now = now.Add(25 * time.Hour)
	if _, err := l.Lookup(ctx, "lait"); err != nil {
		t.Fatalf("Lookup after TTL error = %v", err)
	}
	if opens != 2 {
		t.Errorf("dataset opened %d times after TTL elapsed, want 2", opens)
	}
}

func TestLoaderKeepsTableWhenReloadFails(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	var opens int
	l := newFixtureLoader(t, LoaderConfig{
		Open: func() (io.ReadCloser, error) {
			opens++
			if opens > 1 {
				return nil, fmt.Errorf("dataset gone")
			}
			return io.NopCloser(strings.NewReader(datasetFixture)), nil
		},
		ReloadTTL: 24 * time.Hour,
		Clock:     func() time.Time { return now },
	})

	if _, err := l.Lookup(ctx, "lait"); err != nil {
		t.Fatalf("initial Lookup error = %v", err)
	}

	now = now.Add(25 * time.Hour)
	price, err := l.Lookup(ctx, "lait")
	if err != nil {
		t.Fatalf("Lookup after failed reload error = %v", err)
	}
	if price != 4.12 {
		t.Errorf("Lookup after failed reload = %v, want the previous 4.12", price)
	}
}

func TestLoaderColdStartFailure(t *testing.T) {
	l := newFixtureLoader(t, LoaderConfig{
		Open: func() (io.ReadCloser, error) { return nil, fmt.Errorf("no such file") },
	})

	_, err := l.Lookup(context.Background(), "lait")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("cold-start Lookup err = %v, want ErrSourceUnavailable", err)
	}
}

func TestLoaderMalformedDataset(t *testing.T) {
	t.Run("missing columns", func(t *testing.T) {
		l := newFixtureLoader(t, LoaderConfig{
			Open: openFixture("DATE,PLACE,ITEM,PRICE\n2026-06,Québec,Lait,4.12\n"),
		})
		if _, err := l.Lookup(context.Background(), "lait"); !errors.Is(err, domain.ErrSourceUnavailable) {
			t.Errorf("err = %v, want ErrSourceUnavailable", err)
		}
	})

	t.Run("byte order mark tolerated", func(t *testing.T) {
		l := newFixtureLoader(t, LoaderConfig{
			Open: openFixture("\ufeffREF_DATE,GEO,Produits,Valeur\n2026-06,Québec,Lait (2 litres),4.12\n"),
		})
		price, err := l.Lookup(context.Background(), "lait")
		if err != nil {
			t.Fatalf("Lookup error = %v", err)
		}
		if price != 4.12 {
			t.Errorf("Lookup = %v, want 4.12", price)
		}
	})
}

func TestLoaderRequiresSource(t *testing.T) {
	if _, err := NewLoader(LoaderConfig{}); err == nil {
		t.Error("NewLoader without path or open function should fail")
	}
}
