package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/news-api/internal/model"
)

func (db *DB) ListTopics(ctx context.Context) ([]model.Topic, error) {
	rows, err := db.pool.Query(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
	if err != nil {
		return nil, wrap("listing topics", err)
	}
	topics, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Topic, error) {
		var t model.Topic
		err := row.Scan(&t.Slug, &t.Description)
		return t, err
	})
	if err != nil {
		return nil, wrap("scanning topics", err)
	}
	return topics, nil
}
