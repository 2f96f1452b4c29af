// Command frigoprice is an operator CLI for the pricing engine: check how
// two ingredient strings match, resolve a price through the full pipeline,
// or translate a name. The meal-planning application owns the real surface;
// this tool exists for inspection and support.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frigomagique/pricing-engine/config"
	"github.com/frigomagique/pricing-engine/internal/domain"
	"github.com/frigomagique/pricing-engine/internal/infrastructure/cache"
	"github.com/frigomagique/pricing-engine/internal/infrastructure/dealfeed"
	"github.com/frigomagique/pricing-engine/internal/infrastructure/statcan"
	"github.com/frigomagique/pricing-engine/internal/matching"
	"github.com/frigomagique/pricing-engine/internal/pricing"
)

var (
	flagPostal   string
	flagQuantity float64
	flagUnit     string
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:           "frigoprice",
	Short:         "Inspect ingredient matching and price resolution",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var matchCmd = &cobra.Command{
	Use:   "match <ingredient> <candidate>",
	Short: "Check whether two grocery strings denote the same product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		matcher, err := matching.NewMatcher(matching.Config{Logger: newLogger()})
		if err != nil {
			return err
		}
		if matcher.Matches(args[0], args[1]) {
			fmt.Fprintf(cmd.OutOrStdout(), "match: %q ~ %q\n", args[0], args[1])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "no match: %q != %q\n", args[0], args[1])
		}
		return nil
	},
}

var priceCmd = &cobra.Command{
	Use:   "price <ingredient>",
	Short: "Resolve a price through the cache/government/deal-feed/fallback pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger()
		defer logger.Sync() //nolint:errcheck

		matcher, err := matching.NewMatcher(matching.Config{Logger: logger})
		if err != nil {
			return err
		}

		var priceCache domain.PriceCache
		if cfg.Cache.Type == "redis" {
			redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.TTL)
			if err != nil {
				return err
			}
			defer redisCache.Close() //nolint:errcheck
			priceCache = redisCache
		} else {
			priceCache = cache.NewMemoryCache(cfg.Cache.TTL)
		}

		var reference domain.ReferencePriceSource
		if cfg.Reference.DatasetPath != "" {
			loader, err := statcan.NewLoader(statcan.LoaderConfig{
				Path:      cfg.Reference.DatasetPath,
				Region:    cfg.Reference.Region,
				ReloadTTL: cfg.Reference.ReloadTTL,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			reference = loader
		}

		feed := dealfeed.NewClient(dealfeed.Config{
			BaseURL: cfg.DealFeed.BaseURL,
			Locale:  cfg.DealFeed.Locale,
			Timeout: cfg.DealFeed.VendorTimeout,
			Logger:  logger,
		})

		resolver, err := pricing.NewResolver(priceCache, reference, feed, matcher, pricing.ResolverConfig{
			MaxVendors:       cfg.DealFeed.MaxVendors,
			FetchConcurrency: cfg.DealFeed.FetchConcurrency,
			VendorTimeout:    cfg.DealFeed.VendorTimeout,
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		quote := resolver.ResolvePrice(ctx, args[0], flagQuantity, flagUnit, flagPostal)
		total := pricing.ConvertUnitPriceFor(quote.Amount, flagQuantity, flagUnit, args[0])

		fmt.Fprintf(cmd.OutOrStdout(), "ingredient: %s\n", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "reference price: %.2f $ (source: %s, category: %s)\n",
			quote.Amount, quote.Source, quote.Category)
		fmt.Fprintf(cmd.OutOrStdout(), "cost for %.2g %s: %.2f $\n", flagQuantity, flagUnit, total)
		return nil
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate <name>",
	Short: "Translate an English ingredient name to French",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		translator, err := matching.NewTranslator()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), translator.TranslateName(args[0]))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	priceCmd.Flags().StringVar(&flagPostal, "postal", "", "postal code for flyer deal lookup")
	priceCmd.Flags().Float64Var(&flagQuantity, "qty", 1, "requested quantity")
	priceCmd.Flags().StringVar(&flagUnit, "unit", "unité", "requested unit")

	rootCmd.AddCommand(matchCmd, priceCmd, translateCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if flagDebug {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
