// Package query assembles the read queries whose structure depends on caller
// input: the article list and the comment list.
//
// INJECTION SAFETY:
// Values (topic filter, article id) are always bound parameters. The ORDER BY
// column and direction cannot be bound, so they are interpolated, but only
// after being checked against allow-lists that are computed once at startup
// from the live table columns and never modified afterwards.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sakif/news-api/internal/apperror"
)

// Dialect is the SQL flavour of the backing database.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// Placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Statement is a SQL string with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

const (
	DefaultSortBy = "created_at"
	DefaultOrder  = "desc"

	// CommentCountColumn is the derived column every article projection carries.
	CommentCountColumn = "comment_count"
)

var validOrders = []string{"asc", "desc"}

// articleProjection is the list view of an article. body is never included.
var articleProjection = []string{
	"article_id", "title", "topic", "author", "created_at", "votes", "article_img_url",
}

var commentProjection = []string{
	"comment_id", "article_id", "author", "body", "votes", "created_at",
}

// excludedSortColumns may never be used as a sort target.
var excludedSortColumns = []string{"body"}

// ArticleListParams are the caller-controlled inputs of the article list.
// Empty strings select the defaults.
type ArticleListParams struct {
	Topic  string
	SortBy string
	Order  string
}

// CommentListParams are the caller-controlled inputs of the comment list.
type CommentListParams struct {
	ArticleID int64
	SortBy    string
	Order     string
}

// Builder holds the sort allow-lists. It is safe for concurrent use.
type Builder struct {
	dialect         Dialect
	articleSortable []string
	commentSortable []string
}

// NewBuilder computes the allow-lists from the live column names of the
// articles and comments tables.
func NewBuilder(dialect Dialect, articleColumns, commentColumns []string) (*Builder, error) {
	if len(articleColumns) == 0 {
		return nil, fmt.Errorf("query: no columns found for articles")
	}
	if len(commentColumns) == 0 {
		return nil, fmt.Errorf("query: no columns found for comments")
	}

	articleSortable := sortable(articleColumns)
	articleSortable = append(articleSortable, CommentCountColumn)

	return &Builder{
		dialect:         dialect,
		articleSortable: articleSortable,
		commentSortable: sortable(commentColumns),
	}, nil
}

func sortable(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		c = strings.ToLower(c)
		if slices.Contains(excludedSortColumns, c) || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (b *Builder) Dialect() Dialect { return b.dialect }

// ArticleSortColumns returns a copy of the article sort allow-list.
func (b *Builder) ArticleSortColumns() []string { return slices.Clone(b.articleSortable) }

// CommentSortColumns returns a copy of the comment sort allow-list.
func (b *Builder) CommentSortColumns() []string { return slices.Clone(b.commentSortable) }

// ArticleList builds the article list query.
//
// Columns are returned in articleProjection order followed by comment_count.
func (b *Builder) ArticleList(p ArticleListParams) (Statement, error) {
	sortBy, err := resolveSortBy(p.SortBy, b.articleSortable)
	if err != nil {
		return Statement{}, err
	}
	order, err := resolveOrder(p.Order)
	if err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	for _, c := range articleProjection {
		sb.WriteString("a.")
		sb.WriteString(c)
		sb.WriteString(", ")
	}
	sb.WriteString(CommentCountSubquery("a"))
	sb.WriteString(" AS ")
	sb.WriteString(CommentCountColumn)
	sb.WriteString(" FROM articles a")

	if p.Topic != "" {
		args = append(args, p.Topic)
		sb.WriteString(" WHERE a.topic = ")
		sb.WriteString(b.dialect.Placeholder(len(args)))
	}

	// comment_count is a select alias; everything else is qualified.
	orderExpr := "a." + sortBy
	if sortBy == CommentCountColumn {
		orderExpr = CommentCountColumn
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, a.article_id %s", orderExpr, strings.ToUpper(order), strings.ToUpper(order))

	return Statement{SQL: sb.String(), Args: args}, nil
}

// CommentList builds the comment list query for one article.
// The default order is newest first.
func (b *Builder) CommentList(p CommentListParams) (Statement, error) {
	sortBy, err := resolveSortBy(p.SortBy, b.commentSortable)
	if err != nil {
		return Statement{}, err
	}
	order, err := resolveOrder(p.Order)
	if err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM comments WHERE article_id = %s ORDER BY %s %s, comment_id %s",
		strings.Join(commentProjection, ", "),
		b.dialect.Placeholder(1),
		sortBy, strings.ToUpper(order), strings.ToUpper(order),
	)
	return Statement{SQL: sql, Args: []any{p.ArticleID}}, nil
}

// CommentCountSubquery returns the correlated subquery counting the comments
// of the article aliased as alias.
func CommentCountSubquery(alias string) string {
	return fmt.Sprintf("(SELECT COUNT(*) FROM comments c WHERE c.article_id = %s.article_id)", alias)
}

func resolveSortBy(sortBy string, allowed []string) (string, error) {
	if sortBy == "" {
		return DefaultSortBy, nil
	}
	if !slices.Contains(allowed, sortBy) {
		return "", apperror.BadRequest("sort_by", fmt.Sprintf("invalid sort_by %q", sortBy))
	}
	return sortBy, nil
}

func resolveOrder(order string) (string, error) {
	if order == "" {
		return DefaultOrder, nil
	}
	lower := strings.ToLower(order)
	if !slices.Contains(validOrders, lower) {
		return "", apperror.BadRequest("order", fmt.Sprintf("invalid order %q", order))
	}
	return lower, nil
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
// The backslash is the escape character (ESCAPE '\').
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
