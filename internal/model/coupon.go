package model

import (
	"time"

	"github.com/google/uuid"
)

// CouponStatus enumerates the coupon lifecycle states.
type CouponStatus string

const (
	CouponStatusAvailable CouponStatus = "available"
	CouponStatusClaimed   CouponStatus = "claimed"
	CouponStatusDisabled  CouponStatus = "disabled"
)

// Coupon represents a distributable coupon code in the database.
// Invariant (enforced by a DB CHECK): status='claimed' iff claimed_by and
// claimed_at are both non-null.
type Coupon struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Code      string       `db:"code" json:"code"`
	Status    CouponStatus `db:"status" json:"status"`
	ClaimedBy *uuid.UUID   `db:"claimed_by" json:"claimed_by,omitempty"`
	ClaimedAt *time.Time   `db:"claimed_at" json:"claimed_at,omitempty"`
	ExpiresAt time.Time    `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
