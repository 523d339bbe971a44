package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/endpoints"
	"github.com/sakif/news-api/internal/model"
	"github.com/sakif/news-api/internal/query"
	"github.com/sakif/news-api/internal/validate"
)

// NewsService is what the handlers need from the business layer.
// *service.NewsService satisfies it; tests may substitute their own.
type NewsService interface {
	Endpoints() (endpoints.Document, error)
	ListTopics(ctx context.Context) ([]model.Topic, error)
	GetArticle(ctx context.Context, rawID string) (*model.Article, error)
	ListArticles(ctx context.Context, params query.ArticleListParams) ([]model.ArticleSummary, error)
	AddArticle(ctx context.Context, payload map[string]any) (*model.Article, error)
	VoteArticle(ctx context.Context, rawID string, payload map[string]any) (*model.Article, error)
	ListComments(ctx context.Context, rawArticleID, sortBy, order string) ([]model.Comment, error)
	AddComment(ctx context.Context, rawArticleID string, payload map[string]any) (*model.Comment, error)
	VoteComment(ctx context.Context, rawCommentID string, payload map[string]any) (*model.Comment, error)
	DeleteComment(ctx context.Context, rawCommentID string) error
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, username string) (*model.User, error)
}

// NewsHandler exposes NewsService over HTTP.
//
// THIN HANDLERS:
// Each method pulls raw strings out of the request (path params, query
// string, decoded body), hands them to the service and writes whatever comes
// back. Parsing ids and validating bodies is the service's job, so the
// same rules apply no matter how the service is called.
type NewsHandler struct {
	service NewsService
	logger  *slog.Logger
}

func NewNewsHandler(svc NewsService, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{service: svc, logger: logger}
}

// queryParams parses the query string strictly. r.URL.Query() silently drops
// malformed pairs (such as one containing ';'), which would turn
// ?sort_by=votes;drop into the default sort instead of a 400.
func queryParams(r *http.Request) (url.Values, error) {
	q, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, apperror.BadRequest("query", err.Error())
	}
	return q, nil
}

// HandleEndpoints describes every route of the API.
//
// HTTP: GET /api
func (h *NewsHandler) HandleEndpoints(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Endpoints()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"endpoints": doc})
}

// HTTP: GET /api/topics
func (h *NewsHandler) HandleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"topics": topics})
}

// HandleListArticles lists articles without their bodies.
//
// HTTP: GET /api/articles?topic=&sort_by=&order=
//
// An unknown topic is not an error: it just matches nothing and the
// response is {"articles": []}.
func (h *NewsHandler) HandleListArticles(w http.ResponseWriter, r *http.Request) {
	q, err := queryParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	articles, err := h.service.ListArticles(r.Context(), query.ArticleListParams{
		Topic:  q.Get("topic"),
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"articles": articles})
}

// HTTP: GET /api/articles/{article_id}
func (h *NewsHandler) HandleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.GetArticle(r.Context(), chi.URLParam(r, "article_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"article": article})
}

// HandleAddArticle posts a new article.
//
// HTTP: POST /api/articles
// REQUEST BODY: {"author","title","body","topic","article_img_url"}
func (h *NewsHandler) HandleAddArticle(w http.ResponseWriter, r *http.Request) {
	payload, err := validate.Decode(r.Body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	article, err := h.service.AddArticle(r.Context(), payload)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, map[string]any{"article": article})
}

// HTTP: PATCH /api/articles/{article_id}
// REQUEST BODY: {"inc_votes": 1}
func (h *NewsHandler) HandleVoteArticle(w http.ResponseWriter, r *http.Request) {
	payload, err := validate.Decode(r.Body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	article, err := h.service.VoteArticle(r.Context(), chi.URLParam(r, "article_id"), payload)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"article": article})
}

// HTTP: GET /api/articles/{article_id}/comments?sort_by=&order=
func (h *NewsHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	q, err := queryParams(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "article_id"), q.Get("sort_by"), q.Get("order"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"comments": comments})
}

// HTTP: POST /api/articles/{article_id}/comments
// REQUEST BODY: {"username": "butter_bridge", "body": "..."}
func (h *NewsHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	payload, err := validate.Decode(r.Body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), chi.URLParam(r, "article_id"), payload)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, map[string]any{"comment": comment})
}

// HTTP: PATCH /api/comments/{comment_id}
func (h *NewsHandler) HandleVoteComment(w http.ResponseWriter, r *http.Request) {
	payload, err := validate.Decode(r.Body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	comment, err := h.service.VoteComment(r.Context(), chi.URLParam(r, "comment_id"), payload)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"comment": comment})
}

// HandleDeleteComment removes a comment.
//
// HTTP: DELETE /api/comments/{comment_id}
// 204 No Content on success; deleting the same id again is a 404.
func (h *NewsHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteComment(r.Context(), chi.URLParam(r, "comment_id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTTP: GET /api/users
func (h *NewsHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"users": users})
}

// HTTP: GET /api/users/{username}
func (h *NewsHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"user": user})
}
