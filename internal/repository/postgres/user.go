package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.pool.Query(ctx, `SELECT username, name, avatar_url FROM users ORDER BY username`)
	if err != nil {
		return nil, wrap("listing users", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		var u model.User
		err := row.Scan(&u.Username, &u.Name, &u.AvatarURL)
		return u, err
	})
	if err != nil {
		return nil, wrap("scanning users", err)
	}
	return users, nil
}

// GetUser matches username with ILIKE after escaping its wildcards.
// An exact match wins over a case-folded one.
func (db *DB) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := db.pool.QueryRow(ctx,
		`SELECT username, name, avatar_url FROM users
		 WHERE username ILIKE $1 ESCAPE '\'
		 ORDER BY username = $2 DESC, username
		 LIMIT 1`,
		query.EscapeLike(username), username,
	).Scan(&u.Username, &u.Name, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.UserNotFound(username)
		}
		return nil, wrap("getting user", err)
	}
	return &u, nil
}
