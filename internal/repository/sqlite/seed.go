package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/news-api/internal/fixtures"
)

// Seed replaces the contents of every table with data.
// It runs in one transaction so a failed seed leaves the old data intact.
func (db *DB) Seed(ctx context.Context, data fixtures.Data) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		`DELETE FROM comments`,
		`DELETE FROM articles`,
		`DELETE FROM users`,
		`DELETE FROM topics`,
		`DELETE FROM sqlite_sequence WHERE name IN ('articles', 'comments')`,
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return wrap("clearing tables", err)
		}
	}

	for _, t := range data.Topics {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO topics (slug, description) VALUES (?, ?)`,
			t.Slug, t.Description); err != nil {
			return wrap("seeding topic "+t.Slug, err)
		}
	}

	for _, u := range data.Users {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO users (username, name, avatar_url) VALUES (?, ?, ?)`,
			u.Username, u.Name, u.AvatarURL); err != nil {
			return wrap("seeding user "+u.Username, err)
		}
	}

	for _, a := range data.Articles {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.Title, a.Topic, a.Author, a.Body, a.CreatedAt, a.Votes, a.ArticleImgURL); err != nil {
			return wrap("seeding article "+a.Title, err)
		}
	}

	for _, c := range data.Comments {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO comments (body, article_id, author, votes, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			c.Body, c.ArticleID, c.Author, c.Votes, c.CreatedAt); err != nil {
			return wrap("seeding comment", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing seed: %w", err)
	}
	return nil
}
