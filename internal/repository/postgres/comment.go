package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

const commentColumns = `comment_id, article_id, author, body, votes, created_at`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.CommentID, &c.ArticleID, &c.Author, &c.Body, &c.Votes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) ListComments(ctx context.Context, stmt query.Statement) ([]model.Comment, error) {
	rows, err := db.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, wrap("listing comments", err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return model.Comment{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, wrap("scanning comments", err)
	}
	return comments, nil
}

func (db *DB) CreateComment(ctx context.Context, articleID int64, author, body string) (*model.Comment, error) {
	c, err := scanComment(db.pool.QueryRow(ctx,
		`INSERT INTO comments (body, article_id, author) VALUES ($1, $2, $3)
		 RETURNING `+commentColumns,
		body, articleID, author))
	if err != nil {
		return nil, wrap("creating comment", err)
	}
	return c, nil
}

func (db *DB) AdjustCommentVotes(ctx context.Context, id int64, delta int) (*model.Comment, error) {
	c, err := scanComment(db.pool.QueryRow(ctx,
		`UPDATE comments SET votes = votes + $1 WHERE comment_id = $2
		 RETURNING `+commentColumns,
		delta, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.CommentNotFound(id)
		}
		return nil, wrap("updating comment votes", err)
	}
	return c, nil
}

func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return wrap("deleting comment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.CommentNotFound(id)
	}
	return nil
}
