package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dompet/internal/cache"
	"dompet/internal/config"
	"dompet/internal/core"
	"dompet/internal/dashboard"
	"dompet/internal/dashboard/memory"
	apphttp "dompet/internal/http"
	"dompet/internal/i18n"
	applog "dompet/internal/log"
	"dompet/internal/middleware/ratelimit"
	"dompet/internal/settings"
)

const (
	janitorInterval = time.Minute
	limiterInterval = 5 * time.Minute
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			LoadEnvFile()
			cfg, err := LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger, err := SetupLogger(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	if err := i18n.Validate(); err != nil {
		return fmt.Errorf("message bundles: %w", err)
	}

	repo, err := InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	source, err := openSource(cfg)
	if err != nil {
		return fmt.Errorf("dashboard source: %w", err)
	}

	overviews := cache.NewLRU[core.Period, dashboard.Overview](cfg.CacheSize, cfg.CacheTTL)
	settingsSvc := settings.NewService(repo, logger)
	dashSvc := dashboard.NewService(source, settingsSvc, logger, dashboard.WithCache(overviews))
	settingsSvc.OnChange(dashSvc.Invalidate)

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Methods:           ratelimit.DefaultConfig().Methods,
	})

	matcher := i18n.NewPathMatcher(cfg.LocaleMatcher)
	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, apphttp.Deps{
		Dashboard:     dashSvc,
		Settings:      settingsSvc,
		Ready:         repo,
		LocaleMatcher: matcher,
		Limiter:       limiter,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting dompet",
		applog.FieldOperation, applog.OpStartup,
		"addr", cfg.Addr(),
		"locale_routing", !matcher.Empty(),
		"cache_size", cfg.CacheSize,
		"cache_ttl", cfg.CacheTTL.String(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return cache.NewJanitor(janitorInterval, logger, overviews).Run(gctx) })
	g.Go(func() error { return limiter.Run(gctx, limiterInterval) })

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Shutdown complete", applog.FieldOperation, applog.OpShutdown)
	return nil
}

func openSource(cfg *config.Config) (*memory.Source, error) {
	opts := []memory.Option{memory.WithDelay(cfg.FetchDelay)}
	if cfg.DashboardSeedFile != "" {
		return memory.FromFile(cfg.DashboardSeedFile, opts...)
	}
	return memory.New(opts...)
}
