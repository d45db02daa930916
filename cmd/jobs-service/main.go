// jobs-service
//
// Job-board REST API backed by PostgreSQL.
// Exposes:
//   - /auth/token, /auth/register        — password login and sign-up, signed tokens
//   - /jobs, /jobs/{id}                  — job CRUD; mutations are admin-only
//   - /users/{username}                  — account admin
//   - /health and grpc.health.v1.Health  — datastore probe results
//
// Publishes EVENT_JOB_CREATED / _UPDATED / _DELETED to Redis when REDIS_URL is set.
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

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"jobly/jobs-service/internal/auth"
	"jobly/jobs-service/internal/companies"
	"jobly/jobs-service/internal/config"
	"jobly/jobs-service/internal/db"
	"jobly/jobs-service/internal/events"
	"jobly/jobs-service/internal/health"
	"jobly/jobs-service/internal/httpapi"
	"jobly/jobs-service/internal/jobs"
	"jobly/jobs-service/internal/middleware"
	"jobly/jobs-service/internal/users"
)

const (
	version       = "1.0.0"
	probeTimeout  = 3 * time.Second
	shutdownGrace = 10 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", "jobs-service"))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	slog.Info("connecting to PostgreSQL")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		slog.Info("schema applied")
	}

	checks := []health.Check{{Name: "postgres", Ping: pool.Ping}}

	// ── Redis (optional) ─────────────────────────────────────────────────────
	var publisher events.Publisher = events.Nop{}
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb)
		checks = append(checks, health.Check{Name: "redis", Ping: redisPing(rdb)})
		slog.Info("redis connected, job events enabled")
	} else {
		slog.Info("REDIS_URL not set, job events disabled")
	}

	// ── Domain ───────────────────────────────────────────────────────────────
	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	companyRepo := companies.NewRepository(pool)
	jobRepo := jobs.NewRepository(pool, companyRepo)
	userStore := users.NewStore(pool, cfg.BcryptWorkFactor)

	// ── Health ───────────────────────────────────────────────────────────────
	monitor := health.NewMonitor(cfg.HealthInterval, probeTimeout, checks...)
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("health monitor: %w", err)
	}
	defer monitor.Stop()

	// ── gRPC health server ───────────────────────────────────────────────────
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, monitor.GRPCServer())

	go func() {
		slog.Info("grpc listening", slog.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("grpc server error", slog.String("error", err.Error()))
		}
	}()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.Handle("GET /health", monitor)
	httpapi.NewHandler(jobRepo, userStore, tokens, publisher).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Stack(mux, tokens),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http listening", slog.String("version", version), slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		grpcSrv.Stop()
		return fmt.Errorf("http server: %w", err)
	}

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", slog.String("error", err.Error()))
	}
	grpcSrv.GracefulStop()
	slog.Info("stopped")
	return nil
}

func redisPing(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
