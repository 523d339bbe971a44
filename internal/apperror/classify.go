package apperror

import (
	"errors"
	"net/http"
	"slices"
	"strings"
)

// Classification is the outward face of a failure: one status, one message.
type Classification struct {
	Status   int
	Message  string
	Category error // one of the Err* sentinels
}

// Internal reports whether the failure should be logged as a server fault.
func (c Classification) Internal() bool {
	return c.Status >= http.StatusInternalServerError
}

// rule is one link of the classifier chain.
type rule struct {
	name  string
	match func(err error) bool
	build func(err error) Classification
}

var badRequestCodes = []string{
	CodeNumericValueOutOfRange,
	CodeInvalidTextRepresentation,
	CodeUndefinedColumn,
	CodeNotNullViolation,
}

// CHAIN ORDER:
// Rules are evaluated top to bottom and the first match wins. The last rule
// matches everything, so every error yields exactly one response.
var chain = []rule{
	{
		name: "bad_request",
		match: func(err error) bool {
			return errors.Is(err, ErrBadRequest) || slices.Contains(badRequestCodes, CodeOf(err))
		},
		build: fixed(http.StatusBadRequest, ErrBadRequest),
	},
	{
		name: "constraint",
		match: func(err error) bool {
			return errors.Is(err, ErrConstraint) || strings.HasPrefix(CodeOf(err), "23")
		},
		build: fixed(http.StatusBadRequest, ErrConstraint),
	},
	{
		name:  "not_found",
		match: func(err error) bool { return errors.Is(err, ErrNotFound) },
		build: func(err error) Classification {
			// NotFound messages are caller-facing and preserved verbatim.
			msg := http.StatusText(http.StatusNotFound)
			var appErr *AppError
			if errors.As(err, &appErr) {
				msg = appErr.Message
			}
			return Classification{Status: http.StatusNotFound, Message: msg, Category: ErrNotFound}
		},
	},
	{
		name: "payload_too_large",
		match: func(err error) bool {
			var maxErr *http.MaxBytesError
			return errors.Is(err, ErrPayloadTooLarge) || errors.As(err, &maxErr)
		},
		build: fixed(http.StatusRequestEntityTooLarge, ErrPayloadTooLarge),
	},
	{
		name:  "internal",
		match: func(error) bool { return true },
		build: fixed(http.StatusInternalServerError, ErrInternal),
	},
}

func fixed(status int, category error) func(error) Classification {
	return func(error) Classification {
		return Classification{Status: status, Message: http.StatusText(status), Category: category}
	}
}

// Classify maps any error to exactly one HTTP-facing classification.
// Backend detail never appears in the message except for NotFound, whose
// message is written for the caller.
func Classify(err error) Classification {
	for _, r := range chain {
		if r.match(err) {
			return r.build(err)
		}
	}
	// unreachable: the final rule always matches
	return fixed(http.StatusInternalServerError, ErrInternal)(err)
}

// CategoryName returns a short label for a category sentinel, used in metrics.
func CategoryName(category error) string {
	switch category {
	case ErrBadRequest:
		return "bad_request"
	case ErrNotFound:
		return "not_found"
	case ErrConstraint:
		return "constraint"
	case ErrPayloadTooLarge:
		return "payload_too_large"
	default:
		return "internal"
	}
}
