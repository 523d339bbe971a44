// Package apperror defines the error taxonomy shared by every layer of the API.
//
// ERROR CATEGORIES:
// Every failure that reaches a handler belongs to exactly one category:
//
//	ErrBadRequest       → the caller sent something malformed (400)
//	ErrNotFound         → a referenced article/comment/user is absent (404)
//	ErrConstraint       → the database rejected a write that passed local checks (400)
//	ErrPayloadTooLarge  → the request body exceeded the configured limit (413)
//	ErrInternal         → schema/connection problems, never the caller's fault (500)
//
// Services and repositories return *AppError values (or *BackendError for raw
// database failures). The HTTP layer turns them into a status code with Classify.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	ErrConstraint      = errors.New("constraint violation")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrInternal        = errors.New("internal error")
)

type AppError struct {
	Err     error  // category sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// BadRequest reports malformed caller input. The message is logged but never
// sent to the client, which only ever sees "Bad Request".
func BadRequest(field, message string) *AppError {
	return &AppError{
		Err:     ErrBadRequest,
		Message: message,
		Field:   field,
	}
}

// NotFound builds a caller-facing message of the form
// "No <resource> was found with the <key> <value>".
func NotFound(resource, key, value string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("No %s was found with the %s %s", resource, key, value),
	}
}

func ArticleNotFound(id int64) *AppError {
	return NotFound("article", "id", fmt.Sprint(id))
}

func CommentNotFound(id int64) *AppError {
	return NotFound("comment", "id", fmt.Sprint(id))
}

func UserNotFound(username string) *AppError {
	return NotFound("user", "username", username)
}

func Constraint(message string) *AppError {
	return &AppError{
		Err:     ErrConstraint,
		Message: message,
	}
}

func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Err:     ErrPayloadTooLarge,
		Message: fmt.Sprintf("request body exceeds %d bytes", limit),
	}
}

// SQLSTATE codes the classifier cares about. SQLite failures are mapped onto
// the same codes by the sqlite repository so both backends classify alike.
const (
	CodeNumericValueOutOfRange    = "22003"
	CodeInvalidTextRepresentation = "22P02"
	CodeNotNullViolation          = "23502"
	CodeForeignKeyViolation       = "23503"
	CodeUniqueViolation           = "23505"
	CodeCheckViolation            = "23514"
	CodeUndefinedColumn           = "42703"
	CodeUndefinedTable            = "42P01"
)

// BackendError carries a database failure together with its SQLSTATE code.
type BackendError struct {
	Code string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error %s: %v", e.Code, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Backend wraps err with code. An empty code leaves err untouched.
func Backend(code string, err error) error {
	if code == "" || err == nil {
		return err
	}
	return &BackendError{Code: code, Err: err}
}

// CodeOf returns the SQLSTATE code carried anywhere in err's chain, or "".
func CodeOf(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
