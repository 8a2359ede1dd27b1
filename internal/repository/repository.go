package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// DBExecutor interface for database operations (can be *sqlx.DB or *sqlx.Tx)
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
}

var (
	// ErrNotFound is returned when a lookup matches no rows.
	ErrNotFound = errors.New("not found")
	// ErrNoAvailableCoupon is returned when the claimable pool is empty or
	// the caller lost the race for the last coupon.
	ErrNoAvailableCoupon = errors.New("no available coupons")
)

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, used to retry coupon code generation on collision.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
