// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, checks existence, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// FAIL FAST:
// Every operation checks its preconditions in a fixed order and stops at the
// first failure: ids are parsed, then the payload shape is checked, then the
// parent article is resolved, and only then is the single write issued.
// The existence check is advisory. A row deleted between the check and the
// write still surfaces as NotFound, reported by the write itself.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/endpoints"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
	"github.com/sakif/news-api/internal/repository"
	"github.com/sakif/news-api/internal/validate"
)

// Repository is everything NewsService needs from storage.
type Repository interface {
	repository.TopicRepository
	repository.ArticleRepository
	repository.CommentRepository
	repository.UserRepository
}

// NewsService implements the API's operations on topics, articles, comments
// and users.
type NewsService struct {
	repo      Repository
	builder   *query.Builder
	validator *validate.Validator
	endpoints *endpoints.Source
	logger    *slog.Logger
}

func NewNewsService(
	repo Repository,
	builder *query.Builder,
	validator *validate.Validator,
	endpoints *endpoints.Source,
	logger *slog.Logger,
) *NewsService {
	return &NewsService{
		repo:      repo,
		builder:   builder,
		validator: validator,
		endpoints: endpoints,
		logger:    logger,
	}
}

// NewBuilder reads the live article and comment columns and builds the
// query allow-lists. Called once at startup.
func NewBuilder(ctx context.Context, schema repository.SchemaInspector) (*query.Builder, error) {
	articleCols, err := schema.Columns(ctx, "articles")
	if err != nil {
		return nil, fmt.Errorf("reading article columns: %w", err)
	}
	commentCols, err := schema.Columns(ctx, "comments")
	if err != nil {
		return nil, fmt.Errorf("reading comment columns: %w", err)
	}
	return query.NewBuilder(schema.Dialect(), articleCols, commentCols)
}

// parseID converts a path parameter into a positive integer id.
func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.BadRequest(field, fmt.Sprintf("%s %q is not a valid id", field, raw))
	}
	return id, nil
}

func (s *NewsService) Endpoints() (endpoints.Document, error) {
	doc, err := s.endpoints.Load()
	if err != nil {
		s.logger.Error("failed to load endpoints document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading endpoints: %w", err)
	}
	return doc, nil
}

func (s *NewsService) ListTopics(ctx context.Context) ([]model.Topic, error) {
	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

// ResolveArticle returns the article with id or a NotFound error.
// Every operation on an article's sub-resources calls it first.
func (s *NewsService) ResolveArticle(ctx context.Context, id int64) (*model.Article, error) {
	article, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (s *NewsService) GetArticle(ctx context.Context, rawID string) (*model.Article, error) {
	id, err := parseID("article_id", rawID)
	if err != nil {
		return nil, err
	}
	return s.ResolveArticle(ctx, id)
}

// ListArticles returns article summaries filtered by topic and sorted by the
// validated sort column and direction.
func (s *NewsService) ListArticles(ctx context.Context, params query.ArticleListParams) ([]model.ArticleSummary, error) {
	stmt, err := s.builder.ArticleList(params)
	if err != nil {
		return nil, err
	}

	articles, err := s.repo.ListArticles(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return articles, nil
}

func (s *NewsService) AddArticle(ctx context.Context, payload map[string]any) (*model.Article, error) {
	var in validate.ArticleInput
	if err := s.validator.Bind(validate.ArticleShape, payload, &in); err != nil {
		return nil, err
	}

	article, err := s.repo.CreateArticle(ctx, model.NewArticle{
		Author:        in.Author,
		Title:         in.Title,
		Body:          in.Body,
		Topic:         in.Topic,
		ArticleImgURL: in.ArticleImgURL,
	})
	if err != nil {
		return nil, fmt.Errorf("adding article: %w", err)
	}

	s.logger.Info("article added",
		slog.Int64("article_id", article.ArticleID),
		slog.String("author", article.Author),
		slog.String("topic", article.Topic),
	)
	return article, nil
}

// VoteArticle adds payload's inc_votes to the article's votes.
func (s *NewsService) VoteArticle(ctx context.Context, rawID string, payload map[string]any) (*model.Article, error) {
	id, err := parseID("article_id", rawID)
	if err != nil {
		return nil, err
	}

	var in validate.VoteInput
	if err := s.validator.Bind(validate.VoteShape, payload, &in); err != nil {
		return nil, err
	}

	if _, err := s.ResolveArticle(ctx, id); err != nil {
		return nil, err
	}

	article, err := s.repo.AdjustArticleVotes(ctx, id, int(in.IncVotes))
	if err != nil {
		return nil, fmt.Errorf("voting on article %d: %w", id, err)
	}

	s.logger.Info("article votes adjusted",
		slog.Int64("article_id", id),
		slog.Int("delta", int(in.IncVotes)),
		slog.Int("votes", article.Votes),
	)
	return article, nil
}
