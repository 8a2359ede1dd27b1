package v1

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/api/middleware"
	"github.com/coupondrop/coupondrop/internal/api/response"
	"github.com/coupondrop/coupondrop/internal/auth"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/service"
)

type fakeAuthService struct {
	user     *model.AdminUser
	token    string
	loginErr error
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (string, *model.AdminUser, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) CurrentUser(_ context.Context, adminID uuid.UUID) (*model.AdminUser, error) {
	if f.user == nil || f.user.ID != adminID {
		return nil, service.ErrInvalidCredentials
	}
	return f.user, nil
}

func (f *fakeAuthService) TokenTTL() time.Duration { return 2 * time.Hour }

type fakeVerifier struct {
	valid  string
	claims *auth.Claims
}

func (f *fakeVerifier) VerifyToken(tokenStr string) (*auth.Claims, error) {
	if tokenStr == f.valid && f.claims != nil {
		return f.claims, nil
	}
	return nil, service.ErrInvalidCredentials
}

func setupAuthRouter(svc AuthService, verifier middleware.TokenVerifier) http.Handler {
	router := newTestRouter()
	handler := NewAuthHandler(svc, true)
	group := router.Group("/api/v1/auth")
	group.POST("/login", handler.Login)
	group.POST("/logout", handler.Logout)
	group.GET("/me", middleware.AdminAuth(verifier), handler.Me)
	return router
}

func TestLogin_Success_SetsCookie(t *testing.T) {
	admin := &model.AdminUser{ID: uuid.New(), Username: "tester"}
	svc := &fakeAuthService{user: admin, token: "signed-token"}
	router := setupAuthRouter(svc, &fakeVerifier{})

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]any{"username": "tester", "password": "password123"}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	cookie := findCookieByName(resp.Result().Cookies(), AccessTokenCookieName)
	if cookie == nil || cookie.Value != "signed-token" {
		t.Fatalf("expected access token cookie, got %+v", cookie)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Fatalf("expected secure httponly access cookie, got %+v", cookie)
	}
}

func TestLogin_WrongPassword_Returns401(t *testing.T) {
	svc := &fakeAuthService{loginErr: service.ErrInvalidCredentials}
	router := setupAuthRouter(svc, &fakeVerifier{})

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]any{"username": "tester", "password": "wrong"}, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}

	body := decodeAPIResponse(t, resp.Body.Bytes())
	if body.Code != response.ErrInvalidCredentials {
		t.Fatalf("expected app code %d, got %d", response.ErrInvalidCredentials, body.Code)
	}
}

func TestLogin_MissingFields_Returns400(t *testing.T) {
	router := setupAuthRouter(&fakeAuthService{}, &fakeVerifier{})

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/auth/login",
		map[string]any{"username": "tester"}, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	router := setupAuthRouter(&fakeAuthService{}, &fakeVerifier{})

	resp := performJSONRequest(t, router, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	cookie := findCookieByName(resp.Result().Cookies(), AccessTokenCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired access token cookie, got %+v", cookie)
	}
}

func TestMe_RequiresAuth(t *testing.T) {
	admin := &model.AdminUser{ID: uuid.New(), Username: "tester"}
	verifier := &fakeVerifier{
		valid:  "good-token",
		claims: &auth.Claims{AdminID: admin.ID.String(), Username: admin.Username},
	}
	router := setupAuthRouter(&fakeAuthService{user: admin}, verifier)

	resp := performJSONRequest(t, router, http.MethodGet, "/api/v1/auth/me", nil, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without a token, got %d", resp.Code)
	}

	resp = performJSONRequest(t, router, http.MethodGet, "/api/v1/auth/me", nil,
		[]*http.Cookie{{Name: AccessTokenCookieName, Value: "good-token"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 with a valid token, got %d", resp.Code)
	}
}
