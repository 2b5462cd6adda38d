package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, first_name, last_name, email_address, password, created_at, updated_at`

// CreateUser inserts a new user. The caller is responsible for hashing the
// password first; this layer stores whatever it is given.
//
// A duplicate email address is reported as apperror.Conflict. The service
// checks for duplicates before calling this, but two registrations racing
// for the same address both pass that check, and the UNIQUE constraint is
// what guarantees only one of them lands.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.EmailAddress,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.EmailAddress)
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetUserByEmail uses SQLite's default BINARY collation, so the match is
// exact and case-sensitive.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email_address = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return &u, nil
}
