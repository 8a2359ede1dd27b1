package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/api/response"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/service"
)

type fakeClaimService struct {
	coupon        *model.Coupon
	claimErr      error
	lastClaim     *time.Time
	lastClaimErr  error
	gotSessionID  uuid.UUID
	gotClientIP   string
	claimAttempts int
}

func (f *fakeClaimService) Claim(_ context.Context, sessionID uuid.UUID, clientIP string) (*model.Coupon, error) {
	f.claimAttempts++
	f.gotSessionID = sessionID
	f.gotClientIP = clientIP
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.coupon, nil
}

func (f *fakeClaimService) LastClaimTime(_ context.Context, sessionID uuid.UUID) (*time.Time, error) {
	f.gotSessionID = sessionID
	return f.lastClaim, f.lastClaimErr
}

func setupClaimRouter(svc ClaimService) http.Handler {
	router := newTestRouter()
	handler := NewClaimHandler(svc, false)
	router.POST("/api/v1/claim", handler.Claim)
	router.GET("/api/v1/claim/status", handler.Status)
	return router
}

func TestClaim_Success(t *testing.T) {
	sessionID := uuid.New()
	claimedAt := time.Now().UTC()
	fake := &fakeClaimService{
		coupon: &model.Coupon{
			ID:        uuid.New(),
			Code:      "WXYZ234567",
			Status:    model.CouponStatusClaimed,
			ClaimedBy: &sessionID,
			ClaimedAt: &claimedAt,
		},
	}
	router := setupClaimRouter(fake)

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/claim", nil,
		[]*http.Cookie{{Name: SessionCookieName, Value: sessionID.String()}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	body := decodeAPIResponse(t, resp.Body.Bytes())
	if body.Code != response.CodeSuccess {
		t.Fatalf("expected success code, got %d", body.Code)
	}

	var data claimResponse
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("failed to decode claim data: %v", err)
	}
	if data.Code != "WXYZ234567" {
		t.Fatalf("expected claimed code in response, got %q", data.Code)
	}

	if fake.gotSessionID != sessionID {
		t.Fatalf("expected claim for session %s, got %s", sessionID, fake.gotSessionID)
	}
	if fake.gotClientIP == "" {
		t.Fatal("expected a client IP to be recorded")
	}

	lastClaim := findCookieByName(resp.Result().Cookies(), LastClaimCookieName)
	if lastClaim == nil {
		t.Fatal("expected last-claim cookie after success")
	}
}

func TestClaim_MintsSessionWhenAbsent(t *testing.T) {
	claimedAt := time.Now().UTC()
	owner := uuid.New()
	fake := &fakeClaimService{
		coupon: &model.Coupon{
			Code:      "QRSTUV2345",
			Status:    model.CouponStatusClaimed,
			ClaimedBy: &owner,
			ClaimedAt: &claimedAt,
		},
	}
	router := setupClaimRouter(fake)

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/claim", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	session := findCookieByName(resp.Result().Cookies(), SessionCookieName)
	if session == nil {
		t.Fatal("expected a session cookie to be minted")
	}
	if fake.gotSessionID.String() != session.Value {
		t.Fatalf("expected claim keyed by minted session %q, got %s", session.Value, fake.gotSessionID)
	}
}

func TestClaim_RateLimited(t *testing.T) {
	fake := &fakeClaimService{
		claimErr: &service.RateLimitedError{Wait: "15 minutes", RemainingMinutes: 15},
	}
	router := setupClaimRouter(fake)

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/claim", nil, nil)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", resp.Code)
	}

	body := decodeAPIResponse(t, resp.Body.Bytes())
	if body.Code != response.ErrRateLimited {
		t.Fatalf("expected app code %d, got %d", response.ErrRateLimited, body.Code)
	}
	if body.Message != "you can claim again in 15 minutes" {
		t.Fatalf("unexpected wait message %q", body.Message)
	}

	if findCookieByName(resp.Result().Cookies(), LastClaimCookieName) != nil {
		t.Fatal("last-claim cookie must not move on a denied claim")
	}
}

func TestClaim_NoCouponsAvailable(t *testing.T) {
	fake := &fakeClaimService{claimErr: service.ErrNoCouponAvailable}
	router := setupClaimRouter(fake)

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/claim", nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	body := decodeAPIResponse(t, resp.Body.Bytes())
	if body.Code != response.ErrNoCouponAvailable {
		t.Fatalf("expected app code %d, got %d", response.ErrNoCouponAvailable, body.Code)
	}
}

func TestClaim_InternalFailureIsGeneric(t *testing.T) {
	fake := &fakeClaimService{claimErr: service.ErrClaimFailed}
	router := setupClaimRouter(fake)

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/claim", nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}

	body := decodeAPIResponse(t, resp.Body.Bytes())
	if body.Message != "failed to claim coupon" {
		t.Fatalf("expected generic failure message, got %q", body.Message)
	}
}

func TestClaimStatus_ReportsWait(t *testing.T) {
	last := time.Now().UTC().Add(-45 * time.Minute)
	fake := &fakeClaimService{lastClaim: &last}
	router := setupClaimRouter(fake)

	resp := performJSONRequest(t, router, http.MethodGet, "/api/v1/claim/status", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	body := decodeAPIResponse(t, resp.Body.Bytes())
	var data claimStatusResponse
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("failed to decode status data: %v", err)
	}
	if data.Eligible {
		t.Fatal("expected session to be ineligible 45 minutes after a claim")
	}
	if data.Wait != "15 minutes" {
		t.Fatalf("expected wait of 15 minutes, got %q", data.Wait)
	}
}
