package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName identifies the anonymous claim session.
	SessionCookieName = "coupon_session_id"
	// LastClaimCookieName carries the last successful claim as epoch
	// milliseconds, readable by the page as a UI hint. Enforcement is
	// server-side against the claims table.
	LastClaimCookieName = "last_claim_time"
	// AccessTokenCookieName carries the admin session token.
	AccessTokenCookieName = "access_token"

	sessionCookieMaxAge = 86400 // 1 day, in seconds
)

// SessionID returns the caller's session id, minting a fresh one and
// setting the cookie when absent or malformed.
func SessionID(c *gin.Context, secure bool) uuid.UUID {
	if raw, err := c.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}

	id := uuid.New()
	setCookie(c, SessionCookieName, id.String(), sessionCookieMaxAge, true, secure)
	return id
}

// SetLastClaimCookie records a successful claim time for the page.
func SetLastClaimCookie(c *gin.Context, at time.Time, secure bool) {
	value := strconv.FormatInt(at.UnixMilli(), 10)
	setCookie(c, LastClaimCookieName, value, sessionCookieMaxAge, false, secure)
}

// SetAccessTokenCookie installs the admin session token.
func SetAccessTokenCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	setCookie(c, AccessTokenCookieName, token, int(ttl.Seconds()), true, secure)
}

// ClearAccessTokenCookie logs the admin out client-side.
func ClearAccessTokenCookie(c *gin.Context, secure bool) {
	setCookie(c, AccessTokenCookieName, "", -1, true, secure)
}

func setCookie(c *gin.Context, name, value string, maxAge int, httpOnly, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
