package service

import (
	"errors"
	"fmt"
)

// Error taxonomy for the claim and admin flows. Handlers map these onto
// HTTP statuses and app codes; anything not in this list is an internal
// error whose detail goes to the log, never to the client.
var (
	ErrSessionUnavailable = errors.New("session not initialized")
	ErrNoCouponAvailable  = errors.New("no coupons available")
	ErrClaimFailed        = errors.New("failed to claim coupon")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponClaimed      = errors.New("coupon already claimed")
	ErrInvalidExpiryDays  = errors.New("expiry days must be at least 1")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RateLimitedError carries the human-readable wait until the session may
// claim again.
type RateLimitedError struct {
	Wait             string
	RemainingMinutes int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, try again in %s", e.Wait)
}
