package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
	"github.com/sakif/news-api/internal/validate"
)

// ListComments returns the comments of an article, newest first unless
// sortBy/order say otherwise.
func (s *NewsService) ListComments(ctx context.Context, rawArticleID, sortBy, order string) ([]model.Comment, error) {
	id, err := parseID("article_id", rawArticleID)
	if err != nil {
		return nil, err
	}

	stmt, err := s.builder.CommentList(query.CommentListParams{ArticleID: id, SortBy: sortBy, Order: order})
	if err != nil {
		return nil, err
	}

	if _, err := s.ResolveArticle(ctx, id); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("listing comments of article %d: %w", id, err)
	}
	return comments, nil
}

// AddComment posts a comment on an article. The author must be an existing
// username; an unknown one is rejected by the database as a constraint
// violation.
func (s *NewsService) AddComment(ctx context.Context, rawArticleID string, payload map[string]any) (*model.Comment, error) {
	id, err := parseID("article_id", rawArticleID)
	if err != nil {
		return nil, err
	}

	var in validate.CommentInput
	if err := s.validator.Bind(validate.CommentShape, payload, &in); err != nil {
		return nil, err
	}

	if _, err := s.ResolveArticle(ctx, id); err != nil {
		return nil, err
	}

	comment, err := s.repo.CreateComment(ctx, id, in.Username, in.Body)
	if err != nil {
		return nil, fmt.Errorf("adding comment to article %d: %w", id, err)
	}

	s.logger.Info("comment added",
		slog.Int64("comment_id", comment.CommentID),
		slog.Int64("article_id", id),
		slog.String("author", comment.Author),
	)
	return comment, nil
}

func (s *NewsService) VoteComment(ctx context.Context, rawCommentID string, payload map[string]any) (*model.Comment, error) {
	id, err := parseID("comment_id", rawCommentID)
	if err != nil {
		return nil, err
	}

	var in validate.VoteInput
	if err := s.validator.Bind(validate.VoteShape, payload, &in); err != nil {
		return nil, err
	}

	comment, err := s.repo.AdjustCommentVotes(ctx, id, int(in.IncVotes))
	if err != nil {
		return nil, fmt.Errorf("voting on comment %d: %w", id, err)
	}
	return comment, nil
}

func (s *NewsService) DeleteComment(ctx context.Context, rawCommentID string) error {
	id, err := parseID("comment_id", rawCommentID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}

	s.logger.Info("comment deleted", slog.Int64("comment_id", id))
	return nil
}
