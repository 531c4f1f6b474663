package main

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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	relayhttp "github.com/flxlfx/websocket-tutorials/internal/adapter/http"
	"github.com/flxlfx/websocket-tutorials/internal/adapter/otel"
	"github.com/flxlfx/websocket-tutorials/internal/adapter/ristretto"
	"github.com/flxlfx/websocket-tutorials/internal/adapter/shortcut"
	"github.com/flxlfx/websocket-tutorials/internal/adapter/telegram"
	"github.com/flxlfx/websocket-tutorials/internal/adapter/ws"
	"github.com/flxlfx/websocket-tutorials/internal/config"
	"github.com/flxlfx/websocket-tutorials/internal/logger"
	cachePort "github.com/flxlfx/websocket-tutorials/internal/port/cache"
	"github.com/flxlfx/websocket-tutorials/internal/port/notifier"
	"github.com/flxlfx/websocket-tutorials/internal/port/tracker"
	"github.com/flxlfx/websocket-tutorials/internal/service"
)

func main() {
	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Service)

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"webhook_port", cfg.Webhook.Port,
		"log_level", cfg.Logging.Level,
		"telemetry", cfg.Telemetry.Enabled,
	)

	// --- Telemetry ---
	var metrics *otel.Metrics
	if cfg.Telemetry.Enabled {
		shutdown, err := otel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("otel shutdown", "error", err)
			}
		}()
	}

	// --- Core ---
	registry := service.NewRegistry()
	valor := service.NewSharedValue()
	relay := service.NewRelay(registry)
	clients := service.NewClientService(registry, valor, relay)

	if cfg.Telemetry.Enabled {
		m, err := otel.NewMetrics(registry)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metrics = m
	}

	// --- Webhook ingest pipeline ---
	var dedup cachePort.Cache
	if cfg.Cache.MaxSizeMB > 0 {
		c, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer c.Close()
		dedup = c
	}

	telegram.Register()
	var notifiers []notifier.Notifier
	if cfg.Notify.TelegramToken != "" {
		n, err := notifier.New("telegram", map[string]string{
			"token":   cfg.Notify.TelegramToken,
			"chat_id": cfg.Notify.TelegramChatID,
		})
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		notifiers = append(notifiers, n)
		slog.Info("telegram notifier enabled")
	}

	var track tracker.Tracker
	if cfg.Notify.ShortcutURL != "" {
		track = shortcut.NewClient(cfg.Notify.ShortcutURL, cfg.Notify.ShortcutToken)
		slog.Info("shortcut forwarding enabled")
	}

	ingest := service.NewIngest(relay, track, notifiers, dedup, cfg.Webhook.DedupTTL)

	// --- HTTP ---
	wsHandler := ws.NewHandler(clients, metrics)
	handlers := &relayhttp.Handlers{
		Ingest:       ingest,
		Registry:     registry,
		Valor:        valor,
		Metrics:      metrics,
		Port:         cfg.Server.Port,
		MaxBodyBytes: cfg.Webhook.MaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(relayhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(relayhttp.Logger)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Telemetry.Enabled {
		r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	}
	relayhttp.MountCore(r, handlers, wsHandler.HandleWS)

	servers := []*http.Server{newServer(cfg.Server.Port, r)}

	if cfg.Webhook.Port == "" {
		relayhttp.MountWebhooks(r, handlers, cfg.Webhook.SentrySecret)
	} else {
		// Dedicated webhook listener, matching the original two-port layout.
		wr := chi.NewRouter()
		wr.Use(relayhttp.Logger)
		wr.Use(chimw.RequestID)
		wr.Use(chimw.RealIP)
		wr.Use(chimw.Recoverer)
		relayhttp.MountWebhooks(wr, handlers, cfg.Webhook.SentrySecret)
		servers = append(servers, newServer(cfg.Webhook.Port, wr))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("starting server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
