package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/coupon-service/internal/api/handlers"
	"github.com/Cheertaboi/coupon-service/internal/api/middleware"
	"github.com/Cheertaboi/coupon-service/internal/repository"
	"github.com/Cheertaboi/coupon-service/internal/service"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter builds the HTTP router for the coupon-service
func NewRouter(db *sql.DB, logger zerolog.Logger) http.Handler {
	svc := service.NewCouponService(repository.NewCouponRepo(db))
	return Routes(svc, db, logger)
}

// Routes wires the coupon endpoints and the operational endpoints onto a chi
// router with the standard middleware stack.
func Routes(svc handlers.CouponService, ready Pinger, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)

	couponHandler := handlers.NewCouponHandler(svc)

	r.Route("/coupon", func(r chi.Router) {
		r.Post("/", couponHandler.CreateCoupon)
		r.Get("/{id}", couponHandler.GetCoupon)
		r.Delete("/{id}", couponHandler.DeleteCoupon)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := ready.PingContext(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
