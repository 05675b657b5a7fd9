package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/site"
	"github.com/Zachkp/portfolio/internal/theme"
)

// Set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}
	if cfg.ShowVersion {
		fmt.Printf("portfolio %s (%s)\n", version, commit)
		return
	}

	logger := newLogger(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, logger *slog.Logger) error {
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	doc, fromFile, err := site.LoadOrDefault(cfg.SitePath)
	if err != nil {
		return err
	}
	holder := site.NewHolder(doc)
	if fromFile {
		logger.Info("site document loaded", "path", cfg.SitePath)
		if cfg.Watch {
			if err := site.Watch(ctx, cfg.SitePath, holder, logger); err != nil {
				logger.Warn("site document will not reload", "error", err)
			}
		}
	} else {
		logger.Info("using built-in site document", "missing", cfg.SitePath)
	}

	a := &app{
		site:      holder,
		themes:    theme.NewCookieStore(cfg.SecureCookies),
		clock:     clock.Real(),
		logger:    logger,
		templates: "templates/*",
		retention: cfg.Retention,
	}

	if cfg.Analytics {
		store, err := analytics.Open(cfg.DBPath, a.clock, cfg.HashSalt)
		if err != nil {
			return err
		}
		defer store.Close()
		a.analytics = store
		logger.Info("visitor tracking enabled with hashed IP addresses", "db", cfg.DBPath, "retention", cfg.Retention)

		sched := cron.New()
		if _, err := analytics.ScheduleCleanup(sched, cfg.CleanupSchedule, store, cfg.Retention, logger); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		// Sweep once at startup too, the schedule may be a day away.
		go func() {
			if n, err := store.Cleanup(ctx, cfg.Retention); err != nil {
				logger.Warn("startup cleanup failed", "error", err)
			} else if n > 0 {
				logger.Info("startup cleanup", "removed", n)
			}
		}()
	}

	if a.admin, err = newAdminAuth(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}
	switch {
	case a.admin == nil:
		logger.Warn("admin dashboard disabled; set PORTFOLIO_ADMIN_USERNAME and PORTFOLIO_ADMIN_PASSWORD")
	case a.analytics == nil:
		logger.Warn("admin dashboard disabled; analytics is off")
	default:
		logger.Info("admin access available", "path", "/admin/login")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.router(),
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: /typed/stream stays open.
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
