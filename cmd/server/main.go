package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"cotejo/internal/audit"
	"cotejo/internal/escalation"
	"cotejo/internal/intake/handler"
	"cotejo/internal/intake/metrics"
	"cotejo/internal/intake/service"
	"cotejo/internal/intake/store"
	"cotejo/internal/legajo"
	"cotejo/internal/operatortoken"
	"cotejo/internal/platform/config"
	"cotejo/internal/platform/httpserver"
	"cotejo/internal/platform/logger"
	"cotejo/internal/platform/middleware"
	platformredis "cotejo/internal/platform/redis"
)

const auditInboxSize = 256

// tokenValidator adapts the operator-token service to the middleware's
// claim shape.
type tokenValidator struct {
	tokens *operatortoken.Service
}

func (v tokenValidator) ValidateToken(tokenString string) (*middleware.OperatorClaims, error) {
	claims, err := v.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.OperatorClaims{OperatorID: claims.OperatorID, Zone: claims.Zone}, nil
}

// main wires dependencies and supervises the server and the audit worker.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	var sessions store.Store
	if redisClient != nil {
		defer redisClient.Close()
		sessions = store.NewRedis(redisClient.Client, cfg.Session.TTL)
		log.Info("using redis session store")
	} else {
		sessions = store.NewMemory()
		log.Info("using in-memory session store")
	}

	auditStore, cleanup, err := buildAuditStore(cfg.Audit, log)
	if err != nil {
		log.Error("audit store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	publisher := audit.NewPublisher(auditStore, auditInboxSize, log)
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)

	var registry legajo.Client = &legajo.MockClient{}
	if cfg.RegistryBaseURL != "" {
		registry = legajo.NewHTTPClient(cfg.RegistryBaseURL)
	} else {
		log.Warn("no registry base URL configured, using mock registry client")
	}
	var notifier escalation.Notifier = &escalation.MockNotifier{}
	if cfg.NotifierBaseURL != "" {
		notifier = escalation.NewHTTPNotifier(cfg.NotifierBaseURL)
	} else {
		log.Warn("no notifier base URL configured, using mock escalation notifier")
	}

	intakeMetrics := metrics.New()
	intakeService := service.New(sessions, registry, notifier, publisher, cfg, intakeMetrics, log)

	tokens := operatortoken.NewService(cfg.JWTSigningKey)
	auth := middleware.RequireOperator(tokenValidator{tokens: tokens}, log)

	router := chi.NewRouter()
	handler.New(intakeService, log).Register(router, auth)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting cotejo", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildAuditStore selects the audit sink: postgres outbox when a DSN is
// configured, kafka when brokers are, otherwise the in-memory store.
func buildAuditStore(cfg config.AuditConfig, log *slog.Logger) (audit.Store, func(), error) {
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres audit outbox")
		return audit.NewPostgresStore(db), func() { _ = db.Close() }, nil
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.Topic)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using kafka audit sink", "topic", cfg.Topic)
		return sink, sink.Close, nil
	}
	log.Info("using in-memory audit store")
	return audit.NewMemoryStore(), func() {}, nil
}
