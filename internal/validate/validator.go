package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/news-api/internal/apperror"
)

// CommentInput is the typed form of CommentShape.
type CommentInput struct {
	Username string `json:"username" validate:"required"`
	Body     string `json:"body"     validate:"required"`
}

// VoteInput is the typed form of VoteShape. A zero delta is allowed.
// The delta has the range of the INT votes column; anything wider fails to
// decode and is rejected as a bad request.
type VoteInput struct {
	IncVotes int32 `json:"inc_votes"`
}

// ArticleInput is the typed form of ArticleShape.
type ArticleInput struct {
	Author        string `json:"author"          validate:"required"`
	Title         string `json:"title"           validate:"required"`
	Body          string `json:"body"            validate:"required"`
	Topic         string `json:"topic"           validate:"required"`
	ArticleImgURL string `json:"article_img_url" validate:"required,url"`
}

// Validator wraps the go-playground validator.
type Validator struct {
	validator *validator.Validate
}

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: validate}
}

// Decode reads a single JSON object from r. Numbers are kept as json.Number
// so Check can tell them apart from strings without losing precision.
func Decode(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("decoding body: %w", apperror.BadRequest("body", err.Error()))
	}
	if payload == nil {
		return nil, apperror.BadRequest("body", "body must be a JSON object")
	}
	if dec.More() {
		return nil, apperror.BadRequest("body", "unexpected data after JSON object")
	}
	return payload, nil
}

// Bind checks candidate against shape, decodes it into dst and runs the
// struct rules on dst.
func (v *Validator) Bind(shape Shape, candidate map[string]any, dst any) error {
	if !Check(shape, candidate) {
		return apperror.BadRequest(shape.Name(), fmt.Sprintf("payload does not match %s shape", shape.Name()))
	}

	raw, err := json.Marshal(normalizeNumbers(candidate))
	if err != nil {
		return apperror.BadRequest(shape.Name(), err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.BadRequest(shape.Name(), err.Error())
	}

	if err := v.validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.BadRequest(verrs[0].Field(), fmt.Sprintf("%s failed %q", verrs[0].Field(), verrs[0].Tag()))
		}
		return apperror.BadRequest(shape.Name(), err.Error())
	}
	return nil
}

// normalizeNumbers rewrites integral numbers written with an exponent or a
// fractional part (1e3, 10.0) in plain integer form, so they decode into
// integer fields. Non-integral numbers are left as they are.
// candidate itself is not modified.
func normalizeNumbers(candidate map[string]any) map[string]any {
	out := make(map[string]any, len(candidate))
	for k, v := range candidate {
		out[k] = v
		n, ok := v.(json.Number)
		if !ok || !strings.ContainsAny(string(n), ".eE") {
			continue
		}
		f, _, err := big.ParseFloat(string(n), 10, 256, big.ToNearestEven)
		if err != nil || !f.IsInt() {
			continue
		}
		i, acc := f.Int64()
		if acc != big.Exact {
			continue
		}
		out[k] = json.Number(strconv.FormatInt(i, 10))
	}
	return out
}
