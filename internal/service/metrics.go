package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Cheertaboi/coupon-service/internal/models"
)

const (
	opCreate = "create"
	opGet    = "get"
	opDelete = "delete"
)

var couponOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coupon_operations_total",
	Help: "Coupon use case executions by outcome.",
}, []string{"operation", "outcome"})

func recordOutcome(operation string, err error) {
	couponOperations.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrBusinessRuleViolation):
		return "business_rule"
	case errors.Is(err, models.ErrCouponNotFound):
		return "not_found"
	case errors.Is(err, models.ErrCouponAlreadyDeleted):
		return "already_deleted"
	default:
		return "error"
	}
}
