package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/groundswell-hq/actionkit-adapter/internal/actionkit"
	"github.com/groundswell-hq/actionkit-adapter/internal/api"
	"github.com/groundswell-hq/actionkit-adapter/internal/audit"
	"github.com/groundswell-hq/actionkit-adapter/internal/publisher"
	"github.com/groundswell-hq/actionkit-adapter/internal/rate"
	internalsecrets "github.com/groundswell-hq/actionkit-adapter/internal/secrets"
	"github.com/groundswell-hq/actionkit-adapter/internal/store"
	"github.com/groundswell-hq/actionkit-adapter/pkg/config"
	"github.com/groundswell-hq/actionkit-adapter/pkg/logger"
	"github.com/groundswell-hq/actionkit-adapter/pkg/secrets"
	"github.com/groundswell-hq/actionkit-adapter/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()
	cfg.ServiceName = "actionkit-adapter"

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	logg := logger.S()
	logg.Info("starting [actionkit-adapter]...")
	logg.Info("connection to DSN: ", utils.MaskDSN(cfg.DatabaseURL))

	// --- AWS Secrets Manager provider ---
	awsProvider, err := secrets.NewAWSProvider(cfg.AWSRegion)
	if err != nil {
		logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
	}

	// --- Per-client credential resolver (secrets cached in-memory) ---
	credCache := secrets.NewCache[actionkit.Credentials](cfg.CacheTTL)
	stopCleaner := make(chan struct{})
	go credCache.StartCleaner(cfg.CleanupFreq, stopCleaner)

	resolver := internalsecrets.NewFallbackResolver(
		logg.Desugar(),
		internalsecrets.NewActionKitResolver(logg.Desugar(), cfg.Env, awsProvider, credCache),
		actionkit.Credentials{
			Domain:   cfg.ActionKitDomain,
			Username: cfg.ActionKitUsername,
			Password: cfg.ActionKitPassword,
		},
	)

	// --- Discover configured clients ---
	clients, err := resolver.DiscoverClients(ctx)
	if err != nil {
		logg.Warnw("failed to discover clients from AWS Secrets Manager", "error", err)
	} else {
		logg.Infow("discovered ActionKit clients", "count", len(clients), "clients", clients)
	}

	// --- Connect to NATS ---
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logg.Fatalw("failed to connect to NATS", "error", err)
	}

	// --- Publisher ---
	pub, err := publisher.New(nc, cfg.OutboundSubject, cfg.ServiceName)
	if err != nil {
		logg.Fatalw("failed to init publisher", "error", err)
	}

	// --- Store (Redis) ---
	st, err := store.New(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, logg.Desugar())
	if err != nil {
		logg.Fatalw("failed to init store", "error", err)
	}

	// --- Postgres pool + supporter sync writer ---
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logg.Fatalw("failed to parse database URL", "error", err)
	}
	poolCfg.MaxConns = int32(cfg.PGMaxConns)
	poolCfg.MinConns = int32(cfg.PGMinConns)
	poolCfg.MaxConnLifetime = cfg.PGMaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.PGMaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.PGHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logg.Fatalw("failed to init postgres pool", "error", err)
	}
	syncWriter := audit.NewSyncWriter(pool, logger.L())

	// --- ActionKit Service ---
	svc := actionkit.NewService(
		*cfg,
		logg.Desugar(),
		resolver,
		st,
		pub,
		syncWriter,
	)

	// --- Inbound rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.APIRequestsPerSecond,
		Burst:             cfg.APIBurst,
	})

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewHandler(logg.Desugar(), svc, rateMgr)
	api.RegisterRoutes(app, nc, st, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[actionkit-adapter] running",
		"nats", cfg.NATSURL,
		"env", cfg.Env,
		"subject", cfg.OutboundSubject,
		"discovered_clients", len(clients))

	<-ctx.Done()
	logg.Info("shutting down [actionkit-adapter]...")

	close(stopCleaner)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if err := nc.Drain(); err != nil {
		logg.Warnw("nats.drain_failed", "error", err)
	}
	if err := st.Close(); err != nil {
		logg.Warnw("store.close_failed", "error", err)
	}
	pool.Close()
	logger.Sync()
}
