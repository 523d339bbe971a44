// Package validate checks request payloads before they reach the database.
//
// TWO STAGES:
//  1. Shape: the decoded JSON object must have exactly the template's fields,
//     each with the template's primitive kind. No coercion ("5" is not a number).
//  2. Rules: the payload is decoded into a typed struct and checked with
//     go-playground/validator tags (required fields, URLs, integral deltas).
//
// Either stage failing yields an apperror.ErrBadRequest.
package validate

import (
	"encoding/json"
)

// Kind is the primitive JSON type a field must carry.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Field is one entry of a Shape.
type Field struct {
	Name string
	Kind Kind
}

// Shape is a fixed template of field names and kinds.
// Shapes are package-level values and are never modified after init.
type Shape struct {
	name   string
	fields []Field
}

func NewShape(name string, fields ...Field) Shape {
	return Shape{name: name, fields: append([]Field(nil), fields...)}
}

func (s Shape) Name() string { return s.name }

// Len returns the number of fields in the template.
func (s Shape) Len() int { return len(s.fields) }

func (s Shape) kindOf(name string) (Kind, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Kind, true
		}
	}
	return 0, false
}

var (
	// CommentShape is the body of POST /api/articles/{article_id}/comments.
	CommentShape = NewShape("comment",
		Field{"username", KindString},
		Field{"body", KindString},
	)

	// VoteShape is the body of both PATCH vote endpoints.
	VoteShape = NewShape("vote",
		Field{"inc_votes", KindNumber},
	)

	// ArticleShape is the body of POST /api/articles.
	ArticleShape = NewShape("article",
		Field{"author", KindString},
		Field{"title", KindString},
		Field{"body", KindString},
		Field{"topic", KindString},
		Field{"article_img_url", KindString},
	)
)

// Check reports whether candidate matches shape exactly.
func Check(shape Shape, candidate map[string]any) bool {
	if len(candidate) != shape.Len() {
		return false
	}
	for name, value := range candidate {
		kind, ok := shape.kindOf(name)
		if !ok || !hasKind(value, kind) {
			return false
		}
	}
	return true
}

func hasKind(v any, kind Kind) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		switch v.(type) {
		case json.Number, float64, float32, int, int32, int64:
			return true
		}
	}
	return false
}
