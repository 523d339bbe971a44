// Package endpoints serves the JSON description of the API behind GET /api.
//
// The description ships inside the binary (endpoints.json). Setting a path
// replaces it with a file on disk that is re-read on every request, so the
// document can be edited without a restart.
package endpoints

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed endpoints.json
var embedded []byte

// Document maps "METHOD /path" to a free-form description object.
type Document map[string]map[string]any

// Source loads the endpoints document.
type Source struct {
	path string
}

// NewSource returns a Source reading path, or the embedded document when
// path is empty. The document is parsed once here so a broken file fails
// startup instead of the first request.
func NewSource(path string) (*Source, error) {
	s := &Source{path: path}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns a freshly parsed copy of the document.
func (s *Source) Load() (Document, error) {
	raw := embedded
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("endpoints: reading %s: %w", s.path, err)
		}
		raw = b
	}
	return parse(raw)
}

func parse(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("endpoints: parsing document: %w", err)
	}
	for name, ep := range doc {
		if d, ok := ep["description"].(string); !ok || d == "" {
			return nil, fmt.Errorf("endpoints: %q has no description", name)
		}
	}
	return doc, nil
}
