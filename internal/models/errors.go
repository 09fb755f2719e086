package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrBusinessRuleViolation = errors.New("business rule violation")
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrCouponAlreadyDeleted  = errors.New("coupon already deleted")
)

// BusinessRuleError is returned when a coupon invariant is not met.
type BusinessRuleError struct {
	Reason string
}

func NewBusinessRuleError(reason string) *BusinessRuleError {
	return &BusinessRuleError{Reason: reason}
}

func (e *BusinessRuleError) Error() string { return e.Reason }

func (e *BusinessRuleError) Unwrap() error { return ErrBusinessRuleViolation }

type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("coupon not found with id: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrCouponNotFound }

type AlreadyDeletedError struct {
	ID uuid.UUID
}

func (e *AlreadyDeletedError) Error() string {
	return fmt.Sprintf("coupon with id '%s' has already been deleted", e.ID)
}

func (e *AlreadyDeletedError) Unwrap() error { return ErrCouponAlreadyDeleted }
