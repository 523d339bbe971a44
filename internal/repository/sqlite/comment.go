package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

func scanComment(row interface{ Scan(...any) error }, c *model.Comment) error {
	return row.Scan(&c.CommentID, &c.ArticleID, &c.Author, &c.Body, &c.Votes, &c.CreatedAt)
}

// ListComments runs a statement built by query.Builder.CommentList.
func (db *DB) ListComments(ctx context.Context, stmt query.Statement) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, wrap("listing comments", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, wrap("scanning comment row", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterating comments", err)
	}
	return comments, nil
}

func (db *DB) CreateComment(ctx context.Context, articleID int64, author, body string) (*model.Comment, error) {
	createdAt := time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (body, article_id, author, votes, created_at)
		 VALUES (?, ?, ?, 0, ?)`,
		body, articleID, author, createdAt,
	)
	if err != nil {
		return nil, wrap("creating comment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrap("reading comment id", err)
	}

	return &model.Comment{
		CommentID: id,
		ArticleID: articleID,
		Author:    author,
		Body:      body,
		Votes:     0,
		CreatedAt: createdAt,
	}, nil
}

func (db *DB) getComment(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	err := scanComment(db.conn.QueryRowContext(ctx,
		`SELECT comment_id, article_id, author, body, votes, created_at
		 FROM comments WHERE comment_id = ?`, id), &c)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.CommentNotFound(id)
		}
		return nil, wrap("getting comment", err)
	}
	return &c, nil
}

func (db *DB) AdjustCommentVotes(ctx context.Context, id int64, delta int) (*model.Comment, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET votes = votes + ? WHERE comment_id = ?`, delta, id)
	if err != nil {
		return nil, wrap("updating comment votes", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, wrap("checking rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.CommentNotFound(id)
	}

	return db.getComment(ctx, id)
}

// DeleteComment removes the comment permanently.
// Same pattern as the vote updates: zero rows affected means not found.
func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = ?`, id)
	if err != nil {
		return wrap("deleting comment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrap("checking rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.CommentNotFound(id)
	}
	return nil
}
