package sqlite

import (
	"context"

	"github.com/sakif/news-api/internal/model"
)

func (db *DB) ListTopics(ctx context.Context) ([]model.Topic, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
	if err != nil {
		return nil, wrap("listing topics", err)
	}
	defer rows.Close()

	topics := make([]model.Topic, 0)
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.Slug, &t.Description); err != nil {
			return nil, wrap("scanning topic row", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterating topics", err)
	}
	return topics, nil
}
