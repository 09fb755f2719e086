package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/coupon-service/internal/models"
)

// CreateCouponCommand carries the raw inputs for a new coupon.
// Zero DiscountValue or ExpirationDate means the value was not provided.
type CreateCouponCommand struct {
	Code           string
	Description    string
	DiscountValue  decimal.Decimal
	ExpirationDate time.Time
	Published      bool
}

// CouponView is the read representation handed to the transport layer.
type CouponView struct {
	ID             uuid.UUID
	Code           string
	Description    string
	DiscountValue  decimal.Decimal
	ExpirationDate time.Time
	Status         models.Status
	Published      bool
	Redeemed       bool
}

func NewCouponView(c *models.Coupon) CouponView {
	return CouponView{
		ID:             c.ID(),
		Code:           c.Code().String(),
		Description:    c.Description(),
		DiscountValue:  c.DiscountValue(),
		ExpirationDate: c.ExpirationDate(),
		Status:         c.Status(),
		Published:      c.Published(),
		Redeemed:       c.Redeemed(),
	}
}
