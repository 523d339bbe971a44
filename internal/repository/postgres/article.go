package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

const articleColumns = `a.article_id, a.title, a.topic, a.author, a.body, a.created_at, a.votes, a.article_img_url`

var (
	getArticleSQL = `SELECT ` + articleColumns + `, ` + query.CommentCountSubquery("a") + `
	 FROM articles a WHERE a.article_id = $1`

	adjustArticleVotesSQL = `UPDATE articles a SET votes = a.votes + $1 WHERE a.article_id = $2
	 RETURNING ` + articleColumns + `, ` + query.CommentCountSubquery("a")

	createArticleSQL = `INSERT INTO articles AS a (title, topic, author, body, article_img_url)
	 VALUES ($1, $2, $3, $4, $5)
	 RETURNING ` + articleColumns
)

func scanArticle(row pgx.Row, withCount bool) (*model.Article, error) {
	var a model.Article
	dest := []any{
		&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt, &a.Votes, &a.ArticleImgURL,
	}
	if withCount {
		dest = append(dest, &a.CommentCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	a, err := scanArticle(db.pool.QueryRow(ctx, getArticleSQL, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ArticleNotFound(id)
		}
		return nil, wrap("getting article", err)
	}
	return a, nil
}

// ListArticles runs a statement built by query.Builder.ArticleList.
func (db *DB) ListArticles(ctx context.Context, stmt query.Statement) ([]model.ArticleSummary, error) {
	rows, err := db.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, wrap("listing articles", err)
	}
	articles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ArticleSummary, error) {
		var a model.ArticleSummary
		err := row.Scan(&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt,
			&a.Votes, &a.ArticleImgURL, &a.CommentCount)
		return a, err
	})
	if err != nil {
		return nil, wrap("scanning articles", err)
	}
	return articles, nil
}

// CreateArticle inserts the article; a new article has no comments.
func (db *DB) CreateArticle(ctx context.Context, in model.NewArticle) (*model.Article, error) {
	a, err := scanArticle(db.pool.QueryRow(ctx, createArticleSQL,
		in.Title, in.Topic, in.Author, in.Body, in.ArticleImgURL), false)
	if err != nil {
		return nil, wrap("creating article", err)
	}
	return a, nil
}

// AdjustArticleVotes updates and re-reads the article in one statement.
func (db *DB) AdjustArticleVotes(ctx context.Context, id int64, delta int) (*model.Article, error) {
	a, err := scanArticle(db.pool.QueryRow(ctx, adjustArticleVotesSQL, delta, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ArticleNotFound(id)
		}
		return nil, wrap("updating article votes", err)
	}
	return a, nil
}
