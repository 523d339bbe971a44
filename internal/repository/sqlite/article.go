package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

var articleDetailSQL = `SELECT a.article_id, a.title, a.topic, a.author, a.body, a.created_at,
		a.votes, a.article_img_url, ` + query.CommentCountSubquery("a") + `
	 FROM articles a
	 WHERE a.article_id = ?`

// GetArticle returns one article with its live comment count.
func (db *DB) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	var a model.Article
	err := db.conn.QueryRowContext(ctx, articleDetailSQL, id).Scan(
		&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt,
		&a.Votes, &a.ArticleImgURL, &a.CommentCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ArticleNotFound(id)
		}
		return nil, wrap("getting article", err)
	}
	return &a, nil
}

// ListArticles runs a statement built by query.Builder.ArticleList.
func (db *DB) ListArticles(ctx context.Context, stmt query.Statement) ([]model.ArticleSummary, error) {
	rows, err := db.conn.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, wrap("listing articles", err)
	}
	defer rows.Close()

	articles := make([]model.ArticleSummary, 0)
	for rows.Next() {
		var a model.ArticleSummary
		if err := rows.Scan(
			&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt,
			&a.Votes, &a.ArticleImgURL, &a.CommentCount,
		); err != nil {
			return nil, wrap("scanning article row", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterating articles", err)
	}
	return articles, nil
}

// CreateArticle inserts the article and returns the stored row.
// votes and comment_count of a new article are always 0.
func (db *DB) CreateArticle(ctx context.Context, in model.NewArticle) (*model.Article, error) {
	createdAt := time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		in.Title, in.Topic, in.Author, in.Body, createdAt, in.ArticleImgURL,
	)
	if err != nil {
		return nil, wrap("creating article", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrap("reading article id", err)
	}

	return &model.Article{
		ArticleID:     id,
		Title:         in.Title,
		Topic:         in.Topic,
		Author:        in.Author,
		Body:          in.Body,
		CreatedAt:     createdAt,
		Votes:         0,
		ArticleImgURL: in.ArticleImgURL,
		CommentCount:  0,
	}, nil
}

// AdjustArticleVotes adds delta to the article's votes.
//
// The UPDATE is the only write. If it matches nothing the article is gone,
// even when an earlier existence check passed.
func (db *DB) AdjustArticleVotes(ctx context.Context, id int64, delta int) (*model.Article, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE articles SET votes = votes + ? WHERE article_id = ?`, delta, id)
	if err != nil {
		return nil, wrap("updating article votes", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, wrap("checking rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.ArticleNotFound(id)
	}

	return db.GetArticle(ctx, id)
}
