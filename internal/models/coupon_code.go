package models

import (
	"fmt"
	"regexp"
	"strings"
)

// CouponCodeLength is the number of characters a code keeps once sanitized.
const CouponCodeLength = 6

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// CouponCode is a sanitized coupon code: six upper-case alphanumeric characters.
// The zero value is not a valid code; use NewCouponCode.
type CouponCode struct {
	value string
}

// NewCouponCode drops every non-alphanumeric character from raw, checks the
// remaining length and upper-cases the result.
func NewCouponCode(raw string) (CouponCode, error) {
	if strings.TrimSpace(raw) == "" {
		return CouponCode{}, NewBusinessRuleError("coupon code must not be blank")
	}

	sanitized := nonAlphanumeric.ReplaceAllString(raw, "")
	if len(sanitized) != CouponCodeLength {
		return CouponCode{}, NewBusinessRuleError(fmt.Sprintf(
			"coupon code must have exactly %d alphanumeric characters after removing special characters, got %d",
			CouponCodeLength, len(sanitized),
		))
	}

	return CouponCode{value: strings.ToUpper(sanitized)}, nil
}

func (c CouponCode) String() string { return c.value }

func (c CouponCode) Equal(other CouponCode) bool { return c.value == other.value }
