package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/news-api/internal/apperror"
)

var (
	articleCols = []string{"article_id", "title", "topic", "author", "body", "created_at", "votes", "article_img_url"}
	commentCols = []string{"comment_id", "body", "article_id", "author", "votes", "created_at"}
)

func newTestBuilder(t *testing.T, d Dialect) *Builder {
	t.Helper()
	b, err := NewBuilder(d, articleCols, commentCols)
	require.NoError(t, err)
	return b
}

func TestNewBuilder_AllowLists(t *testing.T) {
	b := newTestBuilder(t, Postgres)

	assert.NotContains(t, b.ArticleSortColumns(), "body")
	assert.Contains(t, b.ArticleSortColumns(), "comment_count")
	assert.Contains(t, b.ArticleSortColumns(), "votes")
	assert.NotContains(t, b.CommentSortColumns(), "body")
	assert.NotContains(t, b.CommentSortColumns(), "comment_count")

	// the returned slices are copies
	cols := b.ArticleSortColumns()
	cols[0] = "body"
	assert.NotContains(t, b.ArticleSortColumns(), "body")
}

func TestNewBuilder_NoColumns(t *testing.T) {
	_, err := NewBuilder(SQLite, nil, commentCols)
	assert.Error(t, err)

	_, err = NewBuilder(SQLite, articleCols, nil)
	assert.Error(t, err)
}

func TestArticleList_Defaults(t *testing.T) {
	b := newTestBuilder(t, Postgres)

	stmt, err := b.ArticleList(ArticleListParams{})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT a.article_id, a.title, a.topic, a.author, a.created_at, a.votes, a.article_img_url, "+
			"(SELECT COUNT(*) FROM comments c WHERE c.article_id = a.article_id) AS comment_count "+
			"FROM articles a ORDER BY a.created_at DESC, a.article_id DESC",
		stmt.SQL)
	assert.Empty(t, stmt.Args)
	assert.NotContains(t, stmt.SQL, "a.body")
}

func TestArticleList_TopicIsBound(t *testing.T) {
	tests := []struct {
		dialect     Dialect
		placeholder string
	}{
		{Postgres, "a.topic = $1"},
		{SQLite, "a.topic = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			b := newTestBuilder(t, tt.dialect)
			stmt, err := b.ArticleList(ArticleListParams{Topic: "cats'; DROP TABLE articles; --"})
			require.NoError(t, err)

			assert.Contains(t, stmt.SQL, tt.placeholder)
			assert.NotContains(t, stmt.SQL, "DROP")
			assert.Equal(t, []any{"cats'; DROP TABLE articles; --"}, stmt.Args)
		})
	}
}

func TestArticleList_Sorting(t *testing.T) {
	b := newTestBuilder(t, SQLite)

	tests := []struct {
		name     string
		sortBy   string
		order    string
		wantTail string
		wantErr  bool
	}{
		{"votes asc", "votes", "asc", "ORDER BY a.votes ASC, a.article_id ASC", false},
		{"order is case insensitive", "title", "DeSc", "ORDER BY a.title DESC, a.article_id DESC", false},
		{"comment_count uses alias", "comment_count", "", "ORDER BY comment_count DESC, a.article_id DESC", false},
		{"body rejected", "body", "asc", "", true},
		{"unknown column rejected", "popularity", "", "", true},
		{"injection rejected", "votes; DROP TABLE articles", "", "", true},
		{"column case must match", "VOTES", "", "", true},
		{"invalid order rejected", "votes", "sideways", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := b.ArticleList(ArticleListParams{SortBy: tt.sortBy, Order: tt.order})
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrBadRequest)
				assert.Empty(t, stmt.SQL)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(stmt.SQL, tt.wantTail), stmt.SQL)
		})
	}
}

func TestCommentList(t *testing.T) {
	b := newTestBuilder(t, Postgres)

	stmt, err := b.CommentList(CommentListParams{ArticleID: 3})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT comment_id, article_id, author, body, votes, created_at FROM comments "+
			"WHERE article_id = $1 ORDER BY created_at DESC, comment_id DESC",
		stmt.SQL)
	assert.Equal(t, []any{int64(3)}, stmt.Args)

	stmt, err = b.CommentList(CommentListParams{ArticleID: 3, SortBy: "votes", Order: "ASC"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stmt.SQL, "ORDER BY votes ASC, comment_id ASC"))

	_, err = b.CommentList(CommentListParams{ArticleID: 3, SortBy: "body"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = b.CommentList(CommentListParams{ArticleID: 3, Order: "up"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", Postgres.Placeholder(3))
	assert.Equal(t, "?", SQLite.Placeholder(3))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `butter\_bridge`, EscapeLike("butter_bridge"))
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}
