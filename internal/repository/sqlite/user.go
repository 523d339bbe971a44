package sqlite

import (
	"context"
	"database/sql"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT username, name, avatar_url FROM users ORDER BY username`)
	if err != nil {
		return nil, wrap("listing users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.Name, &u.AvatarURL); err != nil {
			return nil, wrap("scanning user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterating users", err)
	}
	return users, nil
}

// GetUser looks a user up case-insensitively. SQLite's LIKE ignores ASCII
// case; wildcards in username are escaped so they match literally.
// An exact match wins over a case-folded one.
func (db *DB) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT username, name, avatar_url FROM users
		 WHERE username LIKE ? ESCAPE '\'
		 ORDER BY username = ? DESC, username
		 LIMIT 1`,
		query.EscapeLike(username), username,
	).Scan(&u.Username, &u.Name, &u.AvatarURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.UserNotFound(username)
		}
		return nil, wrap("getting user", err)
	}
	return &u, nil
}
