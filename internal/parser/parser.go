// Package parser maps the published voteinfo JSON documents onto the typed
// models and back.
//
// Field names on the wire are the German operational keys of the feed, e.g.
// gebietAusgezaehlt, jaStimmenAbsolut or eingelegteStimmzettel. They are
// matched exactly.
package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedJSON           = errors.New("malformed JSON")
	ErrMissingField            = errors.New("missing required field")
	ErrInvalidValue            = errors.New("invalid value")
	ErrConflictingSubdivisions = errors.New("more than one subdivision level reported")
)

// RootPath is the path reported for faults that concern the whole document.
const RootPath = "$"

// ParseError represents a parsing error at a specific field path
type ParseError struct {
	// Path uses the published keys, e.g. schweiz.vorlagen[0].resultat.jaStimmenAbsolut
	Path string
	// Offset is the byte offset reported by the JSON decoder, if any.
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("parse error at %s (offset %d): %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("parse error at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(path string, err error) *ParseError {
	if path == "" {
		path = RootPath
	}
	return &ParseError{
		Path: path,
		Err:  err,
	}
}
