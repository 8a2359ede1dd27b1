package response

import "github.com/gin-gonic/gin"

const (
	CodeSuccess = 0
)

const (
	ErrUnauthorized = 10001
	ErrTokenExpired = 10002
)

const (
	ErrInvalidCredentials = 20001
)

const (
	ErrRateLimited        = 30001
	ErrSessionUnavailable = 30002
	ErrNoCouponAvailable  = 30003
	ErrClaimFailed        = 30004
)

const (
	ErrCouponNotFound    = 40001
	ErrCouponClaimed     = 40002
	ErrInvalidExpiryDays = 40003
)

const (
	ErrBadRequest = 90001
	ErrInternal   = 99999
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(200, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Fail(c *gin.Context, httpStatus, appCode int, message string) {
	c.JSON(httpStatus, Response{
		Code:    appCode,
		Message: message,
	})
}
