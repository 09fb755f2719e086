package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	zlog "github.com/rs/zerolog/log"

	"github.com/Cheertaboi/coupon-service/internal/api"
	"github.com/Cheertaboi/coupon-service/internal/config"
	"github.com/Cheertaboi/coupon-service/internal/logging"
	"github.com/Cheertaboi/coupon-service/internal/telemetry"
	"github.com/Cheertaboi/coupon-service/pkg/db"
)

const serviceName = "coupon-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.Log, serviceName, os.Stdout)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		logger.Fatal().Err(err).Msg("init tracer")
	}

	conn, err := db.NewPostgresConnection(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Str("host", cfg.Database.Host).Msg("db connect")
	}
	defer conn.Close()

	if cfg.Database.AutoMigrate {
		if err := db.EnsureSchema(ctx, conn); err != nil {
			logger.Fatal().Err(err).Msg("db schema")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(conn, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		sig := <-c
		logger.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown")
		}
		if err := shutdownTracer(ctx); err != nil {
			logger.Error().Err(err).Msg("tracer shutdown")
		}
		close(idleConnsClosed)
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("environment", cfg.Environment).
		Msg("starting coupon-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	logger.Info().Msg("server stopped")
}
