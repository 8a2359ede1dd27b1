package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coupondrop/coupondrop/internal/model"
)

// CouponRepository handles coupon data operations
type CouponRepository struct {
	// Stateless - all state lives in PostgreSQL
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

// CreateCoupon inserts a new available coupon. Returns the raw driver error
// on conflict so the caller can detect code collisions via
// IsUniqueViolation and retry with a fresh code.
func (r *CouponRepository) CreateCoupon(db DBExecutor, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now().UTC()
	}
	coupon.Status = model.CouponStatusAvailable

	_, err := db.Exec(query,
		coupon.ID, coupon.Code, coupon.Status, coupon.ExpiresAt, coupon.CreatedAt)
	return err
}

// GetCoupon retrieves a coupon by ID
func (r *CouponRepository) GetCoupon(db DBExecutor, id uuid.UUID) (*model.Coupon, error) {
	query := `
		SELECT id, code, status, claimed_by, claimed_at, expires_at, created_at
		FROM coupons
		WHERE id = $1
	`

	var coupon model.Coupon
	err := db.Get(&coupon, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

// ListCoupons returns all coupons, newest first.
func (r *CouponRepository) ListCoupons(db DBExecutor) ([]model.Coupon, error) {
	query := `
		SELECT id, code, status, claimed_by, claimed_at, expires_at, created_at
		FROM coupons
		ORDER BY created_at DESC
	`

	coupons := []model.Coupon{}
	if err := db.Select(&coupons, query); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	return coupons, nil
}

// ReserveAvailableCoupon locks the oldest claimable coupon inside the given
// transaction. Oldest-first keeps distribution FIFO; SKIP LOCKED keeps
// concurrent claimers from queueing on the same row.
func (r *CouponRepository) ReserveAvailableCoupon(tx *sqlx.Tx, now time.Time) (*model.Coupon, error) {
	query := `
		SELECT id, code, status, claimed_by, claimed_at, expires_at, created_at
		FROM coupons
		WHERE status = 'available' AND expires_at > $1
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var coupon model.Coupon
	err := tx.Get(&coupon, query, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAvailableCoupon
		}
		return nil, fmt.Errorf("failed to reserve coupon: %w", err)
	}

	return &coupon, nil
}

// MarkCouponClaimed flips a coupon from 'available' to 'claimed'. The status
// guard plus the rows-affected check make a lost race observable instead of
// silently succeeding.
func (r *CouponRepository) MarkCouponClaimed(db DBExecutor, id, sessionID uuid.UUID, claimedAt time.Time) error {
	query := `
		UPDATE coupons
		SET status = 'claimed', claimed_by = $1, claimed_at = $2
		WHERE id = $3 AND status = 'available'
	`

	result, err := db.Exec(query, sessionID, claimedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark coupon as claimed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoAvailableCoupon
	}

	return nil
}

// ToggleCouponStatus flips available <-> disabled and returns the new
// status. The status guard excludes claimed coupons, so toggling one
// returns ErrNotFound.
func (r *CouponRepository) ToggleCouponStatus(db DBExecutor, id uuid.UUID) (model.CouponStatus, error) {
	query := `
		UPDATE coupons
		SET status = CASE status
			WHEN 'available' THEN 'disabled'
			WHEN 'disabled' THEN 'available'
		END
		WHERE id = $1 AND status IN ('available', 'disabled')
		RETURNING status
	`

	var status model.CouponStatus
	err := db.Get(&status, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to toggle coupon: %w", err)
	}

	return status, nil
}

// DeleteCoupon removes a coupon; associated claims cascade at the schema
// level.
func (r *CouponRepository) DeleteCoupon(db DBExecutor, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DisableExpired disables available coupons whose expiry has passed and
// returns how many were swept.
func (r *CouponRepository) DisableExpired(db DBExecutor, now time.Time) (int64, error) {
	query := `
		UPDATE coupons
		SET status = 'disabled'
		WHERE status = 'available' AND expires_at <= $1
	`

	result, err := db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to disable expired coupons: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
