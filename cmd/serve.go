package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/zipsearch/internal/cache"
	"github.com/sells-group/zipsearch/internal/geocode"
	"github.com/sells-group/zipsearch/internal/search"
	"github.com/sells-group/zipsearch/internal/server"
	"github.com/sells-group/zipsearch/internal/waterfall"
	"github.com/sells-group/zipsearch/internal/waterfall/provider"
	"github.com/sells-group/zipsearch/pkg/google"
	"github.com/sells-group/zipsearch/pkg/yelp"
	"github.com/sells-group/zipsearch/pkg/zippopotam"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		timeout := time.Duration(cfg.Search.TimeoutSecs) * time.Second

		geocoder := geocode.New(
			zippopotam.NewClient(zippopotam.WithBaseURL(cfg.Geocode.BaseURL)),
			timeout,
		)

		// Priority order: Yelp first, Google Places second. A provider with
		// no credential is simply not registered.
		var providers []provider.Provider
		if cfg.Yelp.Key != "" {
			providers = append(providers, provider.NewYelp(
				yelp.NewClient(cfg.Yelp.Key, yelp.WithBaseURL(cfg.Yelp.BaseURL)),
				cfg.Yelp.RateLimit,
				timeout,
			))
		}
		if cfg.Google.Key != "" {
			providers = append(providers, provider.NewGoogle(
				google.NewClient(cfg.Google.Key, google.WithBaseURL(cfg.Google.BaseURL)),
				cfg.Google.RateLimit,
				timeout,
			))
		}
		if len(providers) == 0 {
			zap.L().Warn("no search providers configured, every search will return the placeholder dataset")
		}

		placeholder := waterfall.DefaultPlaceholder()
		if cfg.Waterfall.PlaceholderPath != "" {
			ds, err := waterfall.LoadPlaceholder(cfg.Waterfall.PlaceholderPath)
			if err != nil {
				zap.L().Warn("placeholder override unusable, keeping built-in dataset",
					zap.String("path", cfg.Waterfall.PlaceholderPath),
					zap.Error(err),
				)
			} else {
				placeholder = ds
			}
		}

		resultCache := cache.New()
		resultCache.StartSweeper(ctx, time.Minute)

		svc := search.NewService(
			geocoder,
			waterfall.NewExecutor(providers, placeholder),
			resultCache,
			search.Options{
				CacheTTL:           time.Duration(cfg.Cache.TTLSecs) * time.Second,
				DefaultRadiusMiles: cfg.Search.DefaultRadiusMiles,
				DefaultLimit:       cfg.Search.DefaultLimit,
				MaxLimit:           cfg.Search.MaxLimit,
			},
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		return server.New(svc, port).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
