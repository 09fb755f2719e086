package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Cheertaboi/coupon-service/internal/models"
	"github.com/Cheertaboi/coupon-service/pkg/db"
)

const couponColumns = `id, code, description, discount_value, expiration_date,
	published, redeemed, status, deleted_at, created_at`

// Rows already marked DELETED are never overwritten; the upsert then returns
// no row and Save reports the coupon as already deleted.
const upsertCouponQuery = `
	INSERT INTO coupons (` + couponColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		code            = EXCLUDED.code,
		description     = EXCLUDED.description,
		discount_value  = EXCLUDED.discount_value,
		expiration_date = EXCLUDED.expiration_date,
		published       = EXCLUDED.published,
		redeemed        = EXCLUDED.redeemed,
		status          = EXCLUDED.status,
		deleted_at      = EXCLUDED.deleted_at
	WHERE coupons.status <> 'DELETED'
	RETURNING ` + couponColumns

const findCouponByIDQuery = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

// CouponRepo stores coupons in PostgreSQL.
type CouponRepo struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewCouponRepo(conn *sql.DB) *CouponRepo {
	return &CouponRepo{
		db:     conn,
		tracer: otel.Tracer("coupon-repository"),
	}
}

// Save inserts the coupon or overwrites its stored state, and returns the
// coupon as it was persisted.
func (r *CouponRepo) Save(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	ctx, span := r.tracer.Start(ctx, "CouponRepo.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.table", "coupons"),
		attribute.String("coupon.id", coupon.ID().String()),
		attribute.String("coupon.status", coupon.Status().String()),
	)

	var saved *models.Coupon
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, upsertCouponQuery,
			coupon.ID(),
			coupon.Code().String(),
			coupon.Description(),
			coupon.DiscountValue(),
			coupon.ExpirationDate(),
			coupon.Published(),
			coupon.Redeemed(),
			coupon.Status().String(),
			coupon.DeletedAt(),
			coupon.CreatedAt(),
		)

		var err error
		saved, err = scanCoupon(row)
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Error, "coupon already deleted")
		return nil, &models.AlreadyDeletedError{ID: coupon.ID()}
	}
	if err != nil {
		r.recordError(ctx, span, err)
		return nil, errors.Wrap(err, "save coupon")
	}

	span.SetStatus(otelcodes.Ok, "coupon saved")
	return saved, nil
}

// FindByID returns the coupon with the given id, deleted or not.
// A missing row yields (nil, nil).
func (r *CouponRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	ctx, span := r.tracer.Start(ctx, "CouponRepo.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "coupons"),
		attribute.String("coupon.id", id.String()),
	)

	coupon, err := scanCoupon(r.db.QueryRowContext(ctx, findCouponByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "coupon not found")
		return nil, nil
	}
	if err != nil {
		r.recordError(ctx, span, err)
		return nil, errors.Wrap(err, "find coupon")
	}

	span.SetStatus(otelcodes.Ok, "coupon found")
	return coupon, nil
}

func (r *CouponRepo) recordError(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		span.SetAttributes(attribute.String("db.sqlstate", string(pqErr.Code)))
		zerolog.Ctx(ctx).Warn().
			Str("sqlstate", string(pqErr.Code)).
			Str("constraint", pqErr.Constraint).
			Msg(pqErr.Message)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*models.Coupon, error) {
	var (
		id             uuid.UUID
		code           string
		description    string
		discountValue  decimal.Decimal
		expirationDate time.Time
		published      bool
		redeemed       bool
		rawStatus      string
		deletedAt      sql.NullTime
		createdAt      time.Time
	)

	if err := row.Scan(
		&id,
		&code,
		&description,
		&discountValue,
		&expirationDate,
		&published,
		&redeemed,
		&rawStatus,
		&deletedAt,
		&createdAt,
	); err != nil {
		return nil, err
	}

	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	coupon, err := models.ReconstructCoupon(id, code, description, discountValue, expirationDate,
		published, redeemed, status, deleted, createdAt)
	if err != nil {
		return nil, errors.Errorf("stored coupon %s is invalid: %v", id, err)
	}
	return coupon, nil
}
