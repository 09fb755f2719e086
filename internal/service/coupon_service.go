package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Cheertaboi/coupon-service/internal/models"
)

// operationTimeout bounds each use case, including its repository calls.
const operationTimeout = 8 * time.Second

// CouponRepo is the storage port the use cases depend on.
type CouponRepo interface {
	// Save inserts or overwrites the coupon keyed by its id and returns what was stored.
	Save(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	// FindByID returns nil, nil when no coupon has the id. Deleted coupons are returned.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
}

type CouponService struct {
	repo   CouponRepo
	tracer trace.Tracer
}

func NewCouponService(repo CouponRepo) *CouponService {
	return &CouponService{
		repo:   repo,
		tracer: otel.Tracer("coupon-service"),
	}
}

// CreateCoupon validates the command, persists a new ACTIVE coupon and returns it.
func (s *CouponService) CreateCoupon(ctx context.Context, cmd CreateCouponCommand) (view CouponView, err error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "CouponService.CreateCoupon")
	defer func() { finish(span, opCreate, err) }()

	coupon, err := models.NewCoupon(cmd.Code, cmd.Description, cmd.DiscountValue, cmd.ExpirationDate, cmd.Published)
	if err != nil {
		return CouponView{}, err
	}
	span.SetAttributes(attribute.String("coupon.id", coupon.ID().String()))

	saved, err := s.repo.Save(ctx, coupon)
	if err != nil {
		return CouponView{}, err
	}

	zerolog.Ctx(ctx).Info().
		Str("coupon_id", saved.ID().String()).
		Str("code", saved.Code().String()).
		Msg("coupon created")

	return NewCouponView(saved), nil
}

// GetCoupon returns the coupon with the given id, including deleted ones.
func (s *CouponService) GetCoupon(ctx context.Context, id uuid.UUID) (view CouponView, err error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "CouponService.GetCoupon",
		trace.WithAttributes(attribute.String("coupon.id", id.String())))
	defer func() { finish(span, opGet, err) }()

	coupon, err := s.load(ctx, id)
	if err != nil {
		return CouponView{}, err
	}
	return NewCouponView(coupon), nil
}

// DeleteCoupon soft-deletes an ACTIVE coupon.
func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) (err error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "CouponService.DeleteCoupon",
		trace.WithAttributes(attribute.String("coupon.id", id.String())))
	defer func() { finish(span, opDelete, err) }()

	coupon, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := coupon.Delete()
	if err != nil {
		return err
	}

	if _, err := s.repo.Save(ctx, deleted); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("coupon_id", id.String()).
		Str("code", deleted.Code().String()).
		Msg("coupon deleted")

	return nil
}

func (s *CouponService) load(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, &models.NotFoundError{ID: id}
	}
	return coupon, nil
}

func finish(span trace.Span, operation string, err error) {
	recordOutcome(operation, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	} else {
		span.SetStatus(otelcodes.Ok, "")
	}
	span.End()
}
