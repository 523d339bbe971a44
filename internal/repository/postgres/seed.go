package postgres

import (
	"context"
	"fmt"

	"github.com/sakif/news-api/internal/fixtures"
)

// Seed truncates every table, resets the id sequences and inserts data,
// all in one transaction.
func (db *DB) Seed(ctx context.Context, data fixtures.Data) (err error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: starting seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx,
		`TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`); err != nil {
		return wrap("truncating tables", err)
	}

	for _, t := range data.Topics {
		if _, err = tx.Exec(ctx,
			`INSERT INTO topics (slug, description) VALUES ($1, $2)`,
			t.Slug, t.Description); err != nil {
			return wrap("seeding topic "+t.Slug, err)
		}
	}
	for _, u := range data.Users {
		if _, err = tx.Exec(ctx,
			`INSERT INTO users (username, name, avatar_url) VALUES ($1, $2, $3)`,
			u.Username, u.Name, u.AvatarURL); err != nil {
			return wrap("seeding user "+u.Username, err)
		}
	}
	for _, a := range data.Articles {
		if _, err = tx.Exec(ctx,
			`INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.Title, a.Topic, a.Author, a.Body, a.CreatedAt, a.Votes, a.ArticleImgURL); err != nil {
			return wrap("seeding article "+a.Title, err)
		}
	}
	for _, c := range data.Comments {
		if _, err = tx.Exec(ctx,
			`INSERT INTO comments (body, article_id, author, votes, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			c.Body, c.ArticleID, c.Author, c.Votes, c.CreatedAt); err != nil {
			return wrap("seeding comment", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing seed: %w", err)
	}
	return nil
}
