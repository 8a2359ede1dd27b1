package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is an operator account for the admin dashboard.
type AdminUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
