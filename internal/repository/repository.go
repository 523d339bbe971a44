// Package repository declares the storage interfaces the service layer uses.
// internal/repository/sqlite and internal/repository/postgres implement them.
package repository

import (
	"context"

	"github.com/sakif/news-api/internal/fixtures"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

type TopicRepository interface {
	ListTopics(ctx context.Context) ([]model.Topic, error)
}

// ArticleRepository reads and writes articles. Every returned article carries
// a freshly computed comment count.
type ArticleRepository interface {
	GetArticle(ctx context.Context, id int64) (*model.Article, error)
	ListArticles(ctx context.Context, stmt query.Statement) ([]model.ArticleSummary, error)
	CreateArticle(ctx context.Context, in model.NewArticle) (*model.Article, error)
	// AdjustArticleVotes adds delta to the article's votes and returns the
	// updated row, or apperror.ErrNotFound when no row matched.
	AdjustArticleVotes(ctx context.Context, id int64, delta int) (*model.Article, error)
}

type CommentRepository interface {
	ListComments(ctx context.Context, stmt query.Statement) ([]model.Comment, error)
	CreateComment(ctx context.Context, articleID int64, author, body string) (*model.Comment, error)
	AdjustCommentVotes(ctx context.Context, id int64, delta int) (*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type UserRepository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	// GetUser matches username case-insensitively.
	GetUser(ctx context.Context, username string) (*model.User, error)
}

// SchemaInspector exposes what the query builder needs at startup.
type SchemaInspector interface {
	Columns(ctx context.Context, table string) ([]string, error)
	Dialect() query.Dialect
}

// Store is everything a backend provides.
type Store interface {
	TopicRepository
	ArticleRepository
	CommentRepository
	UserRepository
	SchemaInspector

	Ping(ctx context.Context) error
	Close() error
}

// Seeder replaces the whole dataset with data. Used for SEED_ON_START and tests.
type Seeder interface {
	Seed(ctx context.Context, data fixtures.Data) error
}
