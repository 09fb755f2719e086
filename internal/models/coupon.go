package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinimumDiscount is the smallest discount a new coupon may carry.
var MinimumDiscount = decimal.RequireFromString("0.5")

// now is swapped in tests.
var now = time.Now

// Coupon is the aggregate root. Build it with NewCoupon or ReconstructCoupon.
type Coupon struct {
	id             uuid.UUID
	code           CouponCode
	description    string
	discountValue  decimal.Decimal
	expirationDate time.Time
	published      bool
	redeemed       bool
	status         Status
	deletedAt      *time.Time
	createdAt      time.Time
}

// NewCoupon validates the inputs in order (code, discount, expiration,
// description) and returns a fresh ACTIVE coupon with a random id.
// A zero discountValue or expirationDate counts as missing.
func NewCoupon(rawCode, description string, discountValue decimal.Decimal, expirationDate time.Time, published bool) (*Coupon, error) {
	code, err := NewCouponCode(rawCode)
	if err != nil {
		return nil, err
	}

	if discountValue.LessThan(MinimumDiscount) {
		return nil, NewBusinessRuleError(fmt.Sprintf("discount value must be at least %s", MinimumDiscount))
	}

	current := now()
	if expirationDate.IsZero() {
		return nil, NewBusinessRuleError("expiration date is required")
	}
	if !expirationDate.After(current) {
		return nil, NewBusinessRuleError("expiration date must not be in the past")
	}

	if strings.TrimSpace(description) == "" {
		return nil, NewBusinessRuleError("description must not be blank")
	}

	return &Coupon{
		id:             uuid.New(),
		code:           code,
		description:    description,
		discountValue:  discountValue,
		expirationDate: expirationDate,
		published:      published,
		status:         StatusActive,
		createdAt:      current,
	}, nil
}

// ReconstructCoupon rebuilds a coupon from stored state. Only the code is
// re-validated; a stored coupon may be expired and that is fine.
func ReconstructCoupon(
	id uuid.UUID,
	code string,
	description string,
	discountValue decimal.Decimal,
	expirationDate time.Time,
	published bool,
	redeemed bool,
	status Status,
	deletedAt *time.Time,
	createdAt time.Time,
) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:             id,
		code:           couponCode,
		description:    description,
		discountValue:  discountValue,
		expirationDate: expirationDate,
		published:      published,
		redeemed:       redeemed,
		status:         status,
		deletedAt:      copyTime(deletedAt),
		createdAt:      createdAt,
	}, nil
}

// Delete returns a soft-deleted copy of c. The receiver is left untouched.
func (c *Coupon) Delete() (*Coupon, error) {
	if c.status == StatusDeleted {
		return nil, &AlreadyDeletedError{ID: c.id}
	}

	deletedAt := now()
	deleted := *c
	deleted.status = StatusDeleted
	deleted.deletedAt = &deletedAt
	return &deleted, nil
}

func (c *Coupon) ID() uuid.UUID                  { return c.id }
func (c *Coupon) Code() CouponCode               { return c.code }
func (c *Coupon) Description() string            { return c.description }
func (c *Coupon) DiscountValue() decimal.Decimal { return c.discountValue }
func (c *Coupon) ExpirationDate() time.Time      { return c.expirationDate }
func (c *Coupon) Published() bool                { return c.published }
func (c *Coupon) Redeemed() bool                 { return c.redeemed }
func (c *Coupon) Status() Status                 { return c.status }
func (c *Coupon) DeletedAt() *time.Time          { return copyTime(c.deletedAt) }
func (c *Coupon) CreatedAt() time.Time           { return c.createdAt }
func (c *Coupon) IsDeleted() bool                { return c.status == StatusDeleted }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
