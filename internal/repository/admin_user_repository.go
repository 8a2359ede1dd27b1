package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/model"
)

// AdminUserRepository handles operator accounts
type AdminUserRepository struct {
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository() *AdminUserRepository {
	return &AdminUserRepository{}
}

// CreateAdminUser inserts an operator account.
func (r *AdminUserRepository) CreateAdminUser(db DBExecutor, user *model.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// FindByUsername looks an operator up for login.
func (r *AdminUserRepository) FindByUsername(db DBExecutor, username string) (*model.AdminUser, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = $1
	`

	var user model.AdminUser
	err := db.Get(&user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	return &user, nil
}

// FindByID resolves the authenticated operator for the session endpoint.
func (r *AdminUserRepository) FindByID(db DBExecutor, id uuid.UUID) (*model.AdminUser, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE id = $1
	`

	var user model.AdminUser
	err := db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	return &user, nil
}

// CountAdminUsers reports how many operator accounts exist, used to decide
// whether to seed the configured bootstrap admin.
func (r *AdminUserRepository) CountAdminUsers(db DBExecutor) (int64, error) {
	var count int64
	if err := db.Get(&count, `SELECT COUNT(*) FROM admin_users`); err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return count, nil
}
