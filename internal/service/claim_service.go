package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/coupondrop/coupondrop/internal/metrics"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/ratelimit"
	"github.com/coupondrop/coupondrop/internal/repository"
)

// ClaimService issues coupons to public sessions. The whole claim is one
// database transaction: reserving the coupon, flipping its status and
// writing the claim record either all land or all roll back, so a failed
// claim never leaves a coupon stuck in 'claimed'.
type ClaimService struct {
	postgres   *sqlx.DB
	couponRepo *repository.CouponRepository
	claimRepo  *repository.ClaimRepository
	logger     *zap.Logger
}

// NewClaimService creates a new ClaimService instance
func NewClaimService(postgres *sqlx.DB, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		postgres:   postgres,
		couponRepo: repository.NewCouponRepository(),
		claimRepo:  repository.NewClaimRepository(),
		logger:     logger,
	}
}

// Claim issues one coupon to the given session, enforcing the one-claim-
// per-hour window against the claims table. The client IP is recorded
// best-effort; callers pass "0.0.0.0" when it cannot be determined.
func (s *ClaimService) Claim(ctx context.Context, sessionID uuid.UUID, clientIP string) (*model.Coupon, error) {
	start := time.Now()
	result := "failed"
	defer func() {
		metrics.RecordClaim(result, time.Since(start).Seconds())
	}()

	if sessionID == uuid.Nil {
		return nil, ErrSessionUnavailable
	}
	if clientIP == "" {
		clientIP = "0.0.0.0"
	}

	now := time.Now().UTC()

	// The rate check reads committed claims before the transaction starts,
	// so two in-flight requests from the same session can both pass it and
	// claim two different coupons. The per-IP limiter in front narrows
	// that window; it is not closed here.
	lastClaim, err := s.claimRepo.LatestClaimTime(s.postgres, sessionID)
	if err != nil {
		s.logger.Error("failed to load last claim time",
			zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, ErrClaimFailed
	}

	if decision := ratelimit.Check(lastClaim, now); !decision.Allowed {
		result = "rate_limited"
		return nil, &RateLimitedError{
			Wait:             decision.Wait,
			RemainingMinutes: decision.RemainingMinutes,
		}
	}

	tx, err := s.postgres.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin claim transaction", zap.Error(err))
		return nil, ErrClaimFailed
	}
	defer tx.Rollback()

	coupon, err := s.couponRepo.ReserveAvailableCoupon(tx, now)
	if err != nil {
		if errors.Is(err, repository.ErrNoAvailableCoupon) {
			result = "exhausted"
			return nil, ErrNoCouponAvailable
		}
		s.logger.Error("failed to reserve coupon", zap.Error(err))
		return nil, ErrClaimFailed
	}

	if err := s.couponRepo.MarkCouponClaimed(tx, coupon.ID, sessionID, now); err != nil {
		if errors.Is(err, repository.ErrNoAvailableCoupon) {
			// Lost the race after the reserve; retryable from the
			// caller's point of view.
			result = "exhausted"
			return nil, ErrNoCouponAvailable
		}
		s.logger.Error("failed to mark coupon as claimed",
			zap.String("coupon_id", coupon.ID.String()), zap.Error(err))
		return nil, ErrClaimFailed
	}

	claim := &model.Claim{
		CouponID:  coupon.ID,
		IPAddress: clientIP,
		SessionID: sessionID,
		CreatedAt: now,
	}
	if err := s.claimRepo.CreateClaim(tx, claim); err != nil {
		// Rollback reverts the coupon to 'available'; nothing to
		// compensate by hand.
		s.logger.Error("failed to record claim, rolling back",
			zap.String("coupon_id", coupon.ID.String()), zap.Error(err))
		return nil, ErrClaimFailed
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit claim transaction", zap.Error(err))
		return nil, ErrClaimFailed
	}
	result = "success"

	coupon.Status = model.CouponStatusClaimed
	coupon.ClaimedBy = &sessionID
	coupon.ClaimedAt = &now

	s.logger.Info("coupon claimed",
		zap.String("coupon_id", coupon.ID.String()),
		zap.String("session_id", sessionID.String()))

	return coupon, nil
}

// LastClaimTime exposes the session's most recent claim for UI hints.
func (s *ClaimService) LastClaimTime(ctx context.Context, sessionID uuid.UUID) (*time.Time, error) {
	return s.claimRepo.LatestClaimTime(s.postgres, sessionID)
}
