package repository

import (
	"context"
	"database/sql"

	"github.com/Salaheddine-dev01/factory/internal/model"
)

// UserRepo reads accounts from the `users` table.  Provisioning happens
// out of band; this service never writes users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByUsername fetches a user by exact username match.  sql.ErrNoRows
// propagates so the login handler can answer with a generic 401.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password, role, full_name, created_at FROM users WHERE username = ? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.FullName, &u.CreatedAt)
	return u, err
}
