package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/api/response"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/service"
)

// AdminService is the slice of the dashboard workflow the handlers need.
type AdminService interface {
	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	ListClaims(ctx context.Context) ([]model.ClaimWithCoupon, error)
	CreateCoupon(ctx context.Context, expiryDays int) (*model.Coupon, error)
	ToggleCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

// AdminHandler serves the dashboard CRUD and audit endpoints. All routes
// sit behind the AdminAuth middleware.
type AdminHandler struct {
	admin             AdminService
	defaultExpiryDays int
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(admin AdminService, defaultExpiryDays int) *AdminHandler {
	if defaultExpiryDays < 1 {
		defaultExpiryDays = 7
	}
	return &AdminHandler{admin: admin, defaultExpiryDays: defaultExpiryDays}
}

// ListCoupons returns every coupon, newest first.
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.admin.ListCoupons(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "failed to load coupons")
		return
	}
	response.Success(c, coupons)
}

// ListClaims returns the audit trail, newest first.
func (h *AdminHandler) ListClaims(c *gin.Context) {
	claims, err := h.admin.ListClaims(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "failed to load claims")
		return
	}
	response.Success(c, claims)
}

type createCouponRequest struct {
	// ExpiryDays defaults to the configured value when omitted.
	ExpiryDays *int `json:"expiry_days"`
}

// CreateCoupon mints a new coupon with a random code.
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "malformed request body")
		return
	}

	expiryDays := h.defaultExpiryDays
	if req.ExpiryDays != nil {
		expiryDays = *req.ExpiryDays
	}

	coupon, err := h.admin.CreateCoupon(c.Request.Context(), expiryDays)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExpiryDays) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidExpiryDays, "expiry days must be at least 1")
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "failed to create coupon")
		return
	}

	response.Success(c, coupon)
}

// ToggleCoupon flips a coupon between available and disabled.
func (h *AdminHandler) ToggleCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "malformed coupon id")
		return
	}

	coupon, err := h.admin.ToggleCoupon(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrCouponNotFound, "coupon not found")
		case errors.Is(err, service.ErrCouponClaimed):
			response.Fail(c, http.StatusConflict, response.ErrCouponClaimed, "claimed coupons cannot be toggled")
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "failed to toggle coupon")
		}
		return
	}

	response.Success(c, coupon)
}

// DeleteCoupon removes a coupon and its claim records.
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "malformed coupon id")
		return
	}

	if err := h.admin.DeleteCoupon(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCouponNotFound, "coupon not found")
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "failed to delete coupon")
		return
	}

	response.Success(c, nil)
}
