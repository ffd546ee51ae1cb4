package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("profile not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	query := `
		SELECT u.id AS user_id, u.username, u.first_name, u.last_name, u.role, c.id AS club_id
		FROM users u
		LEFT JOIN clubs c ON c.user_id = u.id
		WHERE u.id = $1
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	query := `
		SELECT u.id AS user_id, u.username, u.first_name, u.last_name, u.role, c.id AS club_id
		FROM users u
		LEFT JOIN clubs c ON c.user_id = u.id
		WHERE u.username = $1
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}
