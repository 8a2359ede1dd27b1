package model

import (
	"time"

	"github.com/google/uuid"
)

// Claim is the audit record written when a session successfully claims a
// coupon. Claims are append-only; they are never mutated after insert.
type Claim struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CouponID  uuid.UUID `db:"coupon_id" json:"coupon_id"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClaimWithCoupon is the admin audit view: a claim joined with the code of
// the coupon it references.
type ClaimWithCoupon struct {
	Claim
	CouponCode string `db:"coupon_code" json:"coupon_code"`
}
