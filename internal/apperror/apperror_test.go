// Tests for the error taxonomy and the classifier chain.
// Run with: go test ./internal/apperror/ -v
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TABLE-DRIVEN TESTS:
// Each case is one struct in the slice; t.Run gives every case its own name
// in the test output.

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "ArticleNotFound wraps ErrNotFound",
			err:       ArticleNotFound(7),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "BadRequest wraps ErrBadRequest",
			err:       BadRequest("order", "invalid order"),
			target:    ErrBadRequest,
			wantMatch: true,
		},
		{
			name:      "Constraint wraps ErrConstraint",
			err:       Constraint("unknown topic"),
			target:    ErrConstraint,
			wantMatch: true,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("fetching article: %w", ArticleNotFound(1)),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrBadRequest",
			err:       UserNotFound("nobody"),
			target:    ErrBadRequest,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "article",
			err:         ArticleNotFound(99999),
			wantMessage: "No article was found with the id 99999",
		},
		{
			name:        "comment",
			err:         CommentNotFound(3),
			wantMessage: "No comment was found with the id 3",
		},
		{
			name:        "user",
			err:         UserNotFound("lurker"),
			wantMessage: "No user was found with the username lurker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestBackend(t *testing.T) {
	base := errors.New("boom")

	if got := Backend("", base); got != base {
		t.Errorf("Backend with empty code should return err unchanged, got %v", got)
	}

	wrapped := fmt.Errorf("sqlite: inserting comment: %w", Backend(CodeForeignKeyViolation, base))
	if code := CodeOf(wrapped); code != CodeForeignKeyViolation {
		t.Errorf("CodeOf() = %q, want %q", code, CodeForeignKeyViolation)
	}
	if !errors.Is(wrapped, base) {
		t.Error("BackendError should unwrap to the driver error")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"explicit bad request", BadRequest("sort_by", "invalid sort_by body"), http.StatusBadRequest, "Bad Request"},
		{"invalid text representation", Backend(CodeInvalidTextRepresentation, errors.New("x")), http.StatusBadRequest, "Bad Request"},
		{"undefined column", Backend(CodeUndefinedColumn, errors.New("x")), http.StatusBadRequest, "Bad Request"},
		{"numeric out of range", Backend(CodeNumericValueOutOfRange, errors.New("integer out of range")), http.StatusBadRequest, "Bad Request"},
		{"not null violation", Backend(CodeNotNullViolation, errors.New("x")), http.StatusBadRequest, "Bad Request"},
		{"foreign key violation", Backend(CodeForeignKeyViolation, errors.New("x")), http.StatusBadRequest, "Bad Request"},
		{"explicit constraint", Constraint("dup"), http.StatusBadRequest, "Bad Request"},
		{"not found keeps message", fmt.Errorf("wrap: %w", ArticleNotFound(99999)), http.StatusNotFound, "No article was found with the id 99999"},
		{"explicit payload too large", PayloadTooLarge(10), http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"max bytes reader", fmt.Errorf("decode: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"undefined table", Backend(CodeUndefinedTable, errors.New(`relation "articles" does not exist`)), http.StatusInternalServerError, "Internal Server Error"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestClassifyChainTerminates(t *testing.T) {
	// The final rule must match anything, including nil-ish oddities.
	last := chain[len(chain)-1]
	for _, err := range []error{nil, errors.New(""), &BackendError{Code: "XX000"}} {
		if !last.match(err) {
			t.Errorf("terminal rule did not match %v", err)
		}
	}
}

func TestCategoryName(t *testing.T) {
	if got := CategoryName(Classify(UserNotFound("x")).Category); got != "not_found" {
		t.Errorf("CategoryName() = %q, want not_found", got)
	}
	if got := CategoryName(Classify(errors.New("x")).Category); got != "internal" {
		t.Errorf("CategoryName() = %q, want internal", got)
	}
}
