package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/metrics"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/repository"
)

// codeAlphabet leaves out 0/O/1/I/L so operators can read codes back over
// the phone without ambiguity.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// codeRetries bounds regeneration attempts when a generated code collides
// with an existing one.
const codeRetries = 3

// AdminService backs the dashboard: coupon CRUD and the claims audit view.
type AdminService struct {
	postgres   *sqlx.DB
	couponRepo *repository.CouponRepository
	claimRepo  *repository.ClaimRepository
	codeLength int
	logger     *zap.Logger
}

// NewAdminService creates a new AdminService instance
func NewAdminService(postgres *sqlx.DB, codeLength int, logger *zap.Logger) *AdminService {
	if codeLength <= 0 {
		codeLength = 10
	}
	return &AdminService{
		postgres:   postgres,
		couponRepo: repository.NewCouponRepository(),
		claimRepo:  repository.NewClaimRepository(),
		codeLength: codeLength,
		logger:     logger,
	}
}

// ListCoupons returns every coupon, newest first.
func (s *AdminService) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	return s.couponRepo.ListCoupons(s.postgres)
}

// ListClaims returns the audit trail joined with coupon codes, newest first.
func (s *AdminService) ListClaims(ctx context.Context) ([]model.ClaimWithCoupon, error) {
	return s.claimRepo.ListClaimsWithCoupons(s.postgres)
}

// CreateCoupon mints a coupon with a fresh random code expiring expiryDays
// from now (time of day preserved). Code uniqueness is enforced by the
// database; collisions are retried with a new code a bounded number of
// times.
func (s *AdminService) CreateCoupon(ctx context.Context, expiryDays int) (*model.Coupon, error) {
	if expiryDays < 1 {
		return nil, ErrInvalidExpiryDays
	}

	now := time.Now().UTC()

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := gonanoid.Generate(codeAlphabet, s.codeLength)
		if err != nil {
			return nil, err
		}

		coupon := &model.Coupon{
			Code:      code,
			ExpiresAt: now.AddDate(0, 0, expiryDays),
			CreatedAt: now,
		}

		err = s.couponRepo.CreateCoupon(s.postgres, coupon)
		if err == nil {
			s.logger.Info("coupon created",
				zap.String("coupon_id", coupon.ID.String()),
				zap.Int("expiry_days", expiryDays))
			return coupon, nil
		}
		if repository.IsUniqueViolation(err) {
			s.logger.Warn("coupon code collision, regenerating",
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	return nil, errors.New("exhausted coupon code generation attempts")
}

// ToggleCoupon flips a coupon between available and disabled. Claimed
// coupons are outside the toggle lifecycle and are rejected rather than
// silently reinstated.
func (s *AdminService) ToggleCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetCoupon(s.postgres, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	if coupon.Status == model.CouponStatusClaimed {
		return nil, ErrCouponClaimed
	}

	status, err := s.couponRepo.ToggleCouponStatus(s.postgres, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Claimed or deleted between the read and the update.
			return nil, ErrCouponClaimed
		}
		return nil, err
	}

	coupon.Status = status
	return coupon, nil
}

// DeleteCoupon removes a coupon; its claims cascade away with it.
func (s *AdminService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	err := s.couponRepo.DeleteCoupon(s.postgres, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	s.logger.Info("coupon deleted", zap.String("coupon_id", id.String()))
	return nil
}

// SweepExpired disables available coupons whose expiry has passed. Run by
// the scheduler; safe to invoke concurrently.
func (s *AdminService) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.couponRepo.DisableExpired(s.postgres, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		metrics.ExpiredCouponsSwept.Add(float64(swept))
		s.logger.Info("expired coupons disabled", zap.Int64("count", swept))
	}
	return swept, nil
}
