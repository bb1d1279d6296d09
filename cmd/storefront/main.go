package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hellofresh/health-go/v5"

	"github.com/kubukshop/storefront/internal/account"
	"github.com/kubukshop/storefront/internal/api"
	"github.com/kubukshop/storefront/internal/cart"
	"github.com/kubukshop/storefront/internal/catalog"
	"github.com/kubukshop/storefront/internal/config"
	"github.com/kubukshop/storefront/internal/favorites"
	"github.com/kubukshop/storefront/internal/metrics"
	"github.com/kubukshop/storefront/internal/notify"
	"github.com/kubukshop/storefront/internal/session"
	"github.com/kubukshop/storefront/internal/telemetry"
	"github.com/kubukshop/storefront/internal/ui"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Ops.OTLPEndpoint, cfg.Env)
	if err != nil {
		slog.Error("❌ Failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Session restore
	sessionDir := cfg.Session.Dir
	if sessionDir == "" {
		sessionDir, err = session.DefaultDir()
		if err != nil {
			slog.Error("❌ Failed to resolve session directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	store, err := session.NewStore(sessionDir)
	if err != nil {
		slog.Error("❌ Failed to open session store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if user, _ := store.Load(); user != nil {
		slog.Info("✅ Session restored", slog.String("username", user.Username))
	}

	// API client
	apiClient, err := api.NewClient(cfg.API, store)
	if err != nil {
		slog.Error("❌ Failed to create API client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier := notify.New(cfg.Notify.SuccessTTL, cfg.Notify.FailureTTL)
	defer notifier.Close()

	notifier.Subscribe(func(event notify.Event) {
		if !event.Dismissed {
			ui.RenderNotification(os.Stdout, event.Notification)
		}
	})

	application := newApp(os.Stdin, os.Stdout)

	catalogCtrl := catalog.New(apiClient, store, notifier, cfg.Catalog)
	cartPanel := cart.NewPanel(apiClient, store, notifier, application.confirm)
	favoritesPanel := favorites.NewPanel(apiClient, store, notifier)
	accountSvc := account.NewService(apiClient, store)

	catalogCtrl.OnFavoritesChanged(favoritesPanel.AdjustCount)
	catalogCtrl.OnCartChanged(func() {
		if err := cartPanel.Refresh(ctx); err != nil {
			slog.Warn("cart badge refresh failed", slog.String("error", err.Error()))
		}
	})

	application.attach(catalogCtrl, cartPanel, favoritesPanel, accountSvc)

	slog.Info("🚀 Storefront is starting...", slog.String("env", cfg.Env), slog.String("api", cfg.API.BaseURL))

	// Optional ops endpoint (/metrics, /health)
	var opsServer *http.Server
	if cfg.Ops.Addr != "" {
		opsServer = newOpsServer(cfg.Ops.Addr, apiClient)

		go func() {
			if err := opsServer.ListenAndServe(); err != http.ErrServerClosed {
				slog.Error("❌ Failed to start ops server", slog.Any("error", err.Error()))
			}
		}()
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	finished := make(chan struct{})

	go func() {
		defer close(finished)

		application.run(ctx)
	}()

	select {
	case <-done:
		slog.Warn("🛑 Shutdown signal received.")
	case <-finished:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if opsServer != nil {
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("⚠️ Ops server shutdown encountered an issue", slog.String("error", err.Error()))
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}

	slog.Info("✅ Storefront shut down gracefully.")
}

func newOpsServer(addr string, apiClient *api.Client) *http.Server {
	healthChecker, err := health.New(
		health.WithComponent(health.Component{Name: "storefront", Version: "1.0.0"}),
		health.WithChecks(health.Config{
			Name:    "shop-api",
			Timeout: 5 * time.Second,
			Check:   apiClient.Ping,
		}),
	)
	if err != nil {
		slog.Error("❌ Failed to create health checker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", healthChecker.Handler())

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}
