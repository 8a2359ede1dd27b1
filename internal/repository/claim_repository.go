package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/model"
)

// ClaimRepository handles claim audit records
type ClaimRepository struct {
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{}
}

// CreateClaim appends a claim record referencing a coupon.
func (r *ClaimRepository) CreateClaim(db DBExecutor, claim *model.Claim) error {
	query := `
		INSERT INTO claims (id, coupon_id, ip_address, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(query,
		claim.ID, claim.CouponID, claim.IPAddress, claim.SessionID, claim.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

// LatestClaimTime returns when the session last claimed successfully, or nil
// when it never has. This is the server-side input to the one-hour window.
func (r *ClaimRepository) LatestClaimTime(db DBExecutor, sessionID uuid.UUID) (*time.Time, error) {
	query := `
		SELECT created_at
		FROM claims
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var last time.Time
	err := db.Get(&last, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest claim: %w", err)
	}

	return &last, nil
}

// ListClaimsWithCoupons returns all claims joined with the code of the
// coupon they reference, newest first.
func (r *ClaimRepository) ListClaimsWithCoupons(db DBExecutor) ([]model.ClaimWithCoupon, error) {
	query := `
		SELECT cl.id, cl.coupon_id, cl.ip_address, cl.session_id, cl.created_at,
		       c.code AS coupon_code
		FROM claims cl
		JOIN coupons c ON c.id = cl.coupon_id
		ORDER BY cl.created_at DESC
	`

	claims := []model.ClaimWithCoupon{}
	if err := db.Select(&claims, query); err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	return claims, nil
}
