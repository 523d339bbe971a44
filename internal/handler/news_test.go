package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/endpoints"
	"github.com/sakif/news-api/internal/handler"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
)

// MockService records what the handler passed in and returns canned results.
type MockService struct {
	CapturedID      string
	CapturedParams  query.ArticleListParams
	CapturedSort    [2]string
	CapturedPayload map[string]any
	Called          bool
	ReturnDoc       endpoints.Document
	ReturnErr       error
}

func (m *MockService) Endpoints() (endpoints.Document, error) {
	if m.ReturnDoc != nil {
		return m.ReturnDoc, m.ReturnErr
	}
	return endpoints.Document{"GET /api": {"description": "this"}}, m.ReturnErr
}

func (m *MockService) ListTopics(ctx context.Context) ([]model.Topic, error) {
	return []model.Topic{{Slug: "cats", Description: "Not dogs"}}, m.ReturnErr
}

func (m *MockService) GetArticle(ctx context.Context, rawID string) (*model.Article, error) {
	m.CapturedID = rawID
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return &model.Article{ArticleID: 1, Title: "one", CommentCount: 5}, nil
}

func (m *MockService) ListArticles(ctx context.Context, p query.ArticleListParams) ([]model.ArticleSummary, error) {
	m.CapturedParams = p
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return []model.ArticleSummary{}, nil
}

func (m *MockService) AddArticle(ctx context.Context, payload map[string]any) (*model.Article, error) {
	m.Called = true
	m.CapturedPayload = payload
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return &model.Article{ArticleID: 7, Title: "new"}, nil
}

func (m *MockService) VoteArticle(ctx context.Context, rawID string, payload map[string]any) (*model.Article, error) {
	m.CapturedID = rawID
	m.CapturedPayload = payload
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return &model.Article{ArticleID: 1, Votes: 101}, nil
}

func (m *MockService) ListComments(ctx context.Context, rawArticleID, sortBy, order string) ([]model.Comment, error) {
	m.CapturedID = rawArticleID
	m.CapturedSort = [2]string{sortBy, order}
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return []model.Comment{{CommentID: 1, ArticleID: 1}}, nil
}

func (m *MockService) AddComment(ctx context.Context, rawArticleID string, payload map[string]any) (*model.Comment, error) {
	m.Called = true
	m.CapturedID = rawArticleID
	m.CapturedPayload = payload
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return &model.Comment{CommentID: 10, ArticleID: 1, Author: "lurker", Body: "hi"}, nil
}

func (m *MockService) VoteComment(ctx context.Context, rawCommentID string, payload map[string]any) (*model.Comment, error) {
	m.CapturedID = rawCommentID
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return &model.Comment{CommentID: 1, Votes: 3}, nil
}

func (m *MockService) DeleteComment(ctx context.Context, rawCommentID string) error {
	m.CapturedID = rawCommentID
	return m.ReturnErr
}

func (m *MockService) ListUsers(ctx context.Context) ([]model.User, error) {
	return []model.User{{Username: "lurker"}}, m.ReturnErr
}

func (m *MockService) GetUser(ctx context.Context, username string) (*model.User, error) {
	m.CapturedID = username
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return &model.User{Username: username}, nil
}

func newRouter(svc handler.NewsService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	return newRouterWithLogger(svc, logger)
}

func newRouterWithLogger(svc handler.NewsService, logger *slog.Logger) *chi.Mux {
	h := handler.NewNewsHandler(svc, logger)

	r := chi.NewRouter()
	r.NotFound(handler.NotFound(logger))
	r.MethodNotAllowed(handler.MethodNotAllowed(logger))
	r.Get("/api", h.HandleEndpoints)
	r.Get("/api/topics", h.HandleListTopics)
	r.Get("/api/articles", h.HandleListArticles)
	r.Post("/api/articles", h.HandleAddArticle)
	r.Get("/api/articles/{article_id}", h.HandleGetArticle)
	r.Patch("/api/articles/{article_id}", h.HandleVoteArticle)
	r.Get("/api/articles/{article_id}/comments", h.HandleListComments)
	r.Post("/api/articles/{article_id}/comments", h.HandleAddComment)
	r.Patch("/api/comments/{comment_id}", h.HandleVoteComment)
	r.Delete("/api/comments/{comment_id}", h.HandleDeleteComment)
	r.Get("/api/users", h.HandleListUsers)
	r.Get("/api/users/{username}", h.HandleGetUser)
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestNewsHandler_Envelopes(t *testing.T) {
	tests := []struct {
		method, target, body string
		status               int
		key                  string
	}{
		{http.MethodGet, "/api", "", http.StatusOK, "endpoints"},
		{http.MethodGet, "/api/topics", "", http.StatusOK, "topics"},
		{http.MethodGet, "/api/articles", "", http.StatusOK, "articles"},
		{http.MethodGet, "/api/articles/1", "", http.StatusOK, "article"},
		{http.MethodPost, "/api/articles", `{"author":"a"}`, http.StatusCreated, "article"},
		{http.MethodPatch, "/api/articles/1", `{"inc_votes":1}`, http.StatusOK, "article"},
		{http.MethodGet, "/api/articles/1/comments", "", http.StatusOK, "comments"},
		{http.MethodPost, "/api/articles/1/comments", `{"username":"a","body":"b"}`, http.StatusCreated, "comment"},
		{http.MethodPatch, "/api/comments/1", `{"inc_votes":1}`, http.StatusOK, "comment"},
		{http.MethodGet, "/api/users", "", http.StatusOK, "users"},
		{http.MethodGet, "/api/users/lurker", "", http.StatusOK, "user"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := do(t, newRouter(&MockService{}), tt.method, tt.target, tt.body)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			out := decode(t, rr)
			assert.Contains(t, out, tt.key)
		})
	}
}

func TestNewsHandler_PassesRawInputs(t *testing.T) {
	t.Run("query params", func(t *testing.T) {
		svc := &MockService{}
		do(t, newRouter(svc), http.MethodGet, "/api/articles?topic=cats&sort_by=votes&order=asc", "")
		assert.Equal(t, query.ArticleListParams{Topic: "cats", SortBy: "votes", Order: "asc"}, svc.CapturedParams)
	})

	t.Run("path param is not parsed by the handler", func(t *testing.T) {
		svc := &MockService{}
		do(t, newRouter(svc), http.MethodGet, "/api/articles/abc/comments?sort_by=votes", "")
		assert.Equal(t, "abc", svc.CapturedID)
		assert.Equal(t, [2]string{"votes", ""}, svc.CapturedSort)
	})

	t.Run("body numbers stay json.Number", func(t *testing.T) {
		svc := &MockService{}
		do(t, newRouter(svc), http.MethodPatch, "/api/articles/3", `{"inc_votes":-100}`)
		assert.Equal(t, "3", svc.CapturedID)
		assert.Equal(t, json.Number("-100"), svc.CapturedPayload["inc_votes"])
	})
}

func TestNewsHandler_MalformedBodyNeverReachesService(t *testing.T) {
	for _, body := range []string{`{"username":`, `[1,2]`, `null`, `{"a":1} {"b":2}`} {
		svc := &MockService{}
		rr := do(t, newRouter(svc), http.MethodPost, "/api/articles/1/comments", body)

		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "Bad Request", decode(t, rr)["msg"], body)
		assert.False(t, svc.Called, body)
	}
}

func TestNewsHandler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		msg     string
		hasIncd bool
	}{
		{"not found keeps message", apperror.ArticleNotFound(99999), http.StatusNotFound, "No article was found with the id 99999", false},
		{"bad request is generic", apperror.BadRequest("article_id", "article_id \"abc\" is not a valid id"), http.StatusBadRequest, "Bad Request", false},
		{"fk violation is bad request", apperror.Backend(apperror.CodeForeignKeyViolation, errors.New("insert or update violates fk")), http.StatusBadRequest, "Bad Request", false},
		{"unknown is internal", errors.New("connection reset by peer"), http.StatusInternalServerError, "Internal Server Error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, newRouter(&MockService{ReturnErr: tt.err}), http.MethodGet, "/api/articles/1", "")

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, map[string]any{"msg": tt.msg}, decode(t, rr))
			assert.Equal(t, tt.hasIncd, rr.Header().Get(handler.IncidentHeader) != "")
		})
	}
}

func TestNewsHandler_InternalErrorHidesDetail(t *testing.T) {
	rr := do(t, newRouter(&MockService{ReturnErr: errors.New(`pq: relation "secret_table" does not exist`)}),
		http.MethodGet, "/api/topics", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret_table")
}

func TestNewsHandler_Delete(t *testing.T) {
	svc := &MockService{}
	rr := do(t, newRouter(svc), http.MethodDelete, "/api/comments/4", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, "4", svc.CapturedID)

	svc.ReturnErr = apperror.CommentNotFound(4)
	rr = do(t, newRouter(svc), http.MethodDelete, "/api/comments/4", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewsHandler_PayloadTooLarge(t *testing.T) {
	r := newRouter(&MockService{})
	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"body":"`+strings.Repeat("x", 64)+`"}`))
	rr := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rr, req.Body, 16)

	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "Request Entity Too Large", decode(t, rr)["msg"])
}

func TestNewsHandler_UnknownRoutes(t *testing.T) {
	r := newRouter(&MockService{})

	rr := do(t, r, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Route not found", decode(t, rr)["msg"])

	rr = do(t, r, http.MethodPut, "/api/topics", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "Method Not Allowed", decode(t, rr)["msg"])
}

func TestNewsHandler_MalformedQueryString(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"semicolon in sort_by", "/api/articles?sort_by=votes;drop"},
		{"semicolon in order", "/api/articles?order=asc;"},
		{"bad escape", "/api/articles?topic=%zz"},
		{"comments semicolon", "/api/articles/1/comments?sort_by=votes;drop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			rr := do(t, newRouter(svc), http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Bad Request", decode(t, rr)["msg"])
			assert.Empty(t, svc.CapturedParams.SortBy)
			assert.Empty(t, svc.CapturedID)
		})
	}
}

func TestNewsHandler_EncodeFailureUsesInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := &MockService{ReturnDoc: endpoints.Document{"GET /api": {"description": make(chan int)}}}

	rr := do(t, newRouterWithLogger(svc, logger), http.MethodGet, "/api", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, buf.String(), "failed to encode JSON response")
}
