package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"registrar/internal/notify"
	"registrar/internal/notify/brevo"
	"registrar/internal/platform/config"
	"registrar/internal/platform/httpserver"
	"registrar/internal/platform/logger"
	"registrar/internal/platform/metrics"
	"registrar/internal/platform/middleware"
	"registrar/internal/platform/mongodb"
	platformredis "registrar/internal/platform/redis"
	"registrar/internal/ratelimit"
	"registrar/internal/registration/exporter"
	"registrar/internal/registration/handler"
	"registrar/internal/registration/service"
	"registrar/internal/registration/store"
)

func main() {
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m := metrics.New()

	participants, cleanup, err := newParticipantStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	sender := newSender(cfg, log)
	admin := notify.Recipient{Name: cfg.AdminName, Email: cfg.AdminEmail}

	exports := make(chan exporter.Job, cfg.ExportQueueSize)
	worker := exporter.NewWorker(participants, sender, admin, exports, log, m)

	svc, err := service.New(participants, sender, exports, cfg.Capacity, log, m)
	if err != nil {
		return fmt.Errorf("build registration service: %w", err)
	}

	limiter, err := newRegisterLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}

	router := newRouter(cfg, log, svc, limiter)
	server := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(ctx)
	})

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr, "capacity", cfg.Capacity, "store", string(cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(cfg config.Config, log *slog.Logger, svc handler.Service, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Device)
	r.Use(middleware.Logger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := handler.New(svc, log, handler.WithRegisterLimit(limit))
	h.Register(r)
	return r
}

func newParticipantStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.ParticipantStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := mongodb.New(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		s := store.NewMongo(client.Database(cfg.MongoDatabase))
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Close(context.Background())
			return nil, nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		return s, func() { _ = client.Close(context.Background()) }, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		s := store.NewPostgres(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		return s, func() { _ = db.Close() }, nil

	default:
		log.Warn("using in-memory participant store, registrations are lost on restart")
		return store.NewInMemory(), func() {}, nil
	}
}

func newSender(cfg config.Config, log *slog.Logger) notify.Sender {
	if cfg.BrevoAPIKey == "" {
		log.Warn("BREVO_API_KEY not set, emails are logged instead of sent")
		return notify.NewLogSender(log)
	}
	from := notify.Recipient{Name: cfg.SenderName, Email: cfg.SenderEmail}
	return brevo.New(cfg.BrevoAPIKey, from, brevo.WithBaseURL(cfg.BrevoBaseURL))
}

func newRegisterLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) (func(http.Handler) http.Handler, error) {
	var windows ratelimit.WindowStore
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		windows = ratelimit.NewRedisWindowStore(redisClient.Client)
	} else {
		windows = ratelimit.NewMemoryWindowStore()
	}
	return ratelimit.New(windows, cfg.RegisterRateLimit, cfg.RegisterRateWindow, log).Limit, nil
}
