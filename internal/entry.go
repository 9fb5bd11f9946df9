// Package internal provides the main application initialization and
// runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/herald/internal/apperr"
	"github.com/starford/herald/internal/digest"
	"github.com/starford/herald/internal/httpapi"
	"github.com/starford/herald/internal/mailer"
	"github.com/starford/herald/internal/metadata"
	"github.com/starford/herald/internal/store"
)

// Run executes a single digest cycle and exits. This is the mode meant
// for an external scheduler (cron, systemd timer).
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer app.close()

	return app.runOnce(ctx, logger)
}

// Serve runs digest cycles on a fixed interval and exposes the admin
// HTTP surface (health probes, manual trigger) until the context is
// cancelled or a shutdown signal arrives.
func Serve(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer app.close()

	cfg := app.config

	router := httpapi.NewRouter(func(triggerCtx context.Context) error {
		return app.runOnce(triggerCtx, logger)
	})
	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: router,
	}

	logger.Info("Scheduler starting",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Duration("interval", cfg.Digest.Interval()))

	g, gCtx := errgroup.WithContext(ctx)

	// Scheduled runs.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Digest.Interval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := app.runOnce(gCtx, logger); err != nil {
					logger.Error("scheduled run failed", slog.String("error", err.Error()))
				}
			case <-gCtx.Done():
				return nil
			}
		}
	})

	// Admin HTTP server.
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Scheduler stopped")
	return nil
}

// setup applies options, builds the logger, and wires default
// collaborators from config for any not injected.
func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("store_path", cfg.Store.Path),
		slog.String("metadata_base_url", cfg.Metadata.BaseURL),
		slog.String("frontend_base_url", cfg.Frontend.BaseURL),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("dry_run", app.dryRun))

	if app.source == nil {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init store: %w", err)
		}
		app.source = db
		app.ownsSource = true
	}

	if app.resolver == nil {
		app.resolver = metadata.NewClient(cfg.Metadata.BaseURL, cfg.Metadata.Timeout())
	}

	if app.notifier == nil {
		if app.dryRun {
			app.notifier = mailer.NewLog(logger)
		} else {
			app.notifier = mailer.NewSMTP(cfg.Mail.Address(), cfg.Mail.From)
		}
	}

	return app, logger, nil
}

// close releases collaborators the application opened itself.
func (a *application) close() {
	if a.ownsSource && a.source != nil {
		_ = a.source.Close()
	}
}

// runOnce executes one complete digest cycle: snapshot, build,
// deliver, summarize. Runs are serialized; a manual trigger issued
// while a scheduled run is in flight waits its turn.
func (a *application) runOnce(ctx context.Context, logger *slog.Logger) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	cfg := a.config
	log := logger.With(slog.String("run_id", uuid.NewString()))
	started := time.Now()

	quests, err := a.source.OpenQuests()
	if err != nil {
		return fmt.Errorf("read quest snapshot: %w", err)
	}
	labors, err := a.source.OpenLabors()
	if err != nil {
		return fmt.Errorf("read labor snapshot: %w", err)
	}
	log.Info("snapshot loaded",
		slog.Int("open_quests", len(quests)),
		slog.Int("open_labors", len(labors)))

	deliveries, skipped, err := digest.Build(ctx, quests, labors, a.resolver, digest.Options{
		Domain:          cfg.Mail.Domain,
		FrontendBaseURL: cfg.Frontend.BaseURL,
		Subject:         cfg.Mail.Subject,
	})
	if err != nil {
		// A failed metadata fetch means no digest can be trusted;
		// abort before any delivery is attempted.
		var fe *apperr.FetchError
		if errors.As(err, &fe) {
			log.Error("metadata fetch failed, aborting run",
				slog.String("operation", fe.Operation),
				slog.String("error", fe.Error()))
		}
		return err
	}

	for i := range skipped {
		log.Warn("labor skipped, owner unresolved",
			slog.Int("labor_id", skipped[i].LaborID),
			slog.String("hostname", skipped[i].Hostname))
	}

	delivered, failed := 0, 0
	for _, d := range deliveries {
		if err := a.notifier.Deliver(ctx, d.Address, d.Subject, d.Body); err != nil {
			derr := &apperr.DeliveryError{Address: d.Address, Err: err}
			log.Error("delivery failed", slog.String("error", derr.Error()))
			failed++
			continue
		}
		delivered++
	}

	log.Info("run complete",
		slog.Int("delivered", delivered),
		slog.Int("delivery_failures", failed),
		slog.Int("labors_skipped", len(skipped)),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}
