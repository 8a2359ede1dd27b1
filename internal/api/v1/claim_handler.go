package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/api/response"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/ratelimit"
	"github.com/coupondrop/coupondrop/internal/service"
)

// ClaimService is the slice of the claim workflow the public handler needs.
type ClaimService interface {
	Claim(ctx context.Context, sessionID uuid.UUID, clientIP string) (*model.Coupon, error)
	LastClaimTime(ctx context.Context, sessionID uuid.UUID) (*time.Time, error)
}

// ClaimHandler serves the public claim surface.
type ClaimHandler struct {
	claims        ClaimService
	secureCookies bool
}

// NewClaimHandler creates a new ClaimHandler instance
func NewClaimHandler(claims ClaimService, secureCookies bool) *ClaimHandler {
	return &ClaimHandler{claims: claims, secureCookies: secureCookies}
}

type claimResponse struct {
	Code      string    `json:"code"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// Claim issues one coupon to the calling session.
func (h *ClaimHandler) Claim(c *gin.Context) {
	sessionID := SessionID(c, h.secureCookies)
	if sessionID == uuid.Nil {
		response.Fail(c, http.StatusBadRequest, response.ErrSessionUnavailable, "session not initialized")
		return
	}

	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = "0.0.0.0"
	}

	coupon, err := h.claims.Claim(c.Request.Context(), sessionID, clientIP)
	if err != nil {
		var rateErr *service.RateLimitedError
		switch {
		case errors.As(err, &rateErr):
			response.Fail(c, http.StatusTooManyRequests, response.ErrRateLimited,
				"you can claim again in "+rateErr.Wait)
		case errors.Is(err, service.ErrSessionUnavailable):
			response.Fail(c, http.StatusBadRequest, response.ErrSessionUnavailable, "session not initialized")
		case errors.Is(err, service.ErrNoCouponAvailable):
			response.Fail(c, http.StatusConflict, response.ErrNoCouponAvailable, "no coupons available")
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrClaimFailed, "failed to claim coupon")
		}
		return
	}

	SetLastClaimCookie(c, *coupon.ClaimedAt, h.secureCookies)

	response.Success(c, claimResponse{
		Code:      coupon.Code,
		ClaimedAt: *coupon.ClaimedAt,
	})
}

type claimStatusResponse struct {
	Eligible         bool       `json:"eligible"`
	Wait             string     `json:"wait,omitempty"`
	RemainingMinutes int        `json:"remaining_minutes,omitempty"`
	LastClaimAt      *time.Time `json:"last_claim_at,omitempty"`
}

// Status tells the page whether the session may claim right now, and how
// long to wait if not.
func (h *ClaimHandler) Status(c *gin.Context) {
	sessionID := SessionID(c, h.secureCookies)

	last, err := h.claims.LastClaimTime(c.Request.Context(), sessionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "failed to load claim status")
		return
	}

	decision := ratelimit.Check(last, time.Now().UTC())
	response.Success(c, claimStatusResponse{
		Eligible:         decision.Allowed,
		Wait:             decision.Wait,
		RemainingMinutes: decision.RemainingMinutes,
		LastClaimAt:      last,
	})
}
