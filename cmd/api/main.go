package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kcesar/training-api/internal/adapters/esarhttp"
	"github.com/kcesar/training-api/internal/adapters/httpapi"
	memofferingrepo "github.com/kcesar/training-api/internal/adapters/memory/offeringrepo"
	memsignuprepo "github.com/kcesar/training-api/internal/adapters/memory/signuprepo"
	"github.com/kcesar/training-api/internal/adapters/oauth"
	postgres "github.com/kcesar/training-api/internal/adapters/postgres"
	pgofferingrepo "github.com/kcesar/training-api/internal/adapters/postgres/offeringrepo"
	pgsignuprepo "github.com/kcesar/training-api/internal/adapters/postgres/signuprepo"
	"github.com/kcesar/training-api/internal/app/schedule"
	"github.com/kcesar/training-api/internal/app/trainees"
	"github.com/kcesar/training-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/kcesar/training-api/internal/platform/clock"
	"github.com/kcesar/training-api/internal/platform/config"
	"github.com/kcesar/training-api/internal/platform/metrics"
	offeringrepoport "github.com/kcesar/training-api/internal/ports/out/offeringrepo"
	signuprepoport "github.com/kcesar/training-api/internal/ports/out/signuprepo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Member
	authMode := getenv("AUTH_MODE", "jwt")
	var authMW func(http.Handler) http.Handler
	switch authMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(getenv("DEV_MEMBER", "dev-member"))
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			logger.Error("invalid auth config", "error", err)
			os.Exit(1)
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	clk := platformclock.NewSystemClock()
	m := metrics.New()

	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		offeringRepo offeringrepoport.Repository
		signupRepo   signuprepoport.Repository
		cleanup      func()
	)
	switch storageBackend {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		pool, err := postgres.NewPool(context.Background(), dsn, postgres.PoolOptions{})
		if err != nil {
			logger.Error("invalid postgres config", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close
		offeringRepo = pgofferingrepo.NewRepo(pool)
		signupRepo = pgsignuprepo.NewRepo(pool)
	default:
		offeringRepo = memofferingrepo.NewRepo()
		signupRepo = memsignuprepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	tokenProvider := oauth.NewProvider(oauth.Config{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.TokenClientID,
		ClientSecret: cfg.TokenClientSecret,
	})

	gateway := esarhttp.NewClient()
	memberDB := esarhttp.NewMemberDBClient(gateway, cfg.DatabaseAPIRoot)
	accountsAPI := esarhttp.NewAccountsClient(gateway, cfg.AccountsAPIRoot)
	messagingAPI := esarhttp.NewMessagingClient(gateway, cfg.MessagingAPIRoot)

	traineeSvc := trainees.NewService(
		tokenProvider, memberDB, accountsAPI, messagingAPI, clk,
		trainees.Settings{
			DatabaseScope:   cfg.DatabaseScope,
			UnitID:          cfg.UnitID,
			NewMemberStatus: cfg.NewMemberStatus,
			AuthAuthority:   cfg.AuthAuthority,
		},
		trainees.WithLogger(logger), trainees.WithMetrics(m),
	)
	scheduleSvc := schedule.NewService(
		offeringRepo, signupRepo, clk,
		schedule.WithLogger(logger), schedule.WithMetrics(m),
	)

	api := httpapi.NewServer(traineeSvc, scheduleSvc, logger)
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", "port", cfg.Port, "storage", storageBackend, "auth", authMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
