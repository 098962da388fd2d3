// Package catalog reads opendata.swiss dataset catalogs and picks the most
// recent resource out of them.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goccy/go-json"

	"voteinfo/internal/parser"
)

// ErrNoResourceFound is matched by *NoResourceFoundError.
var ErrNoResourceFound = errors.New("no resources found")

// NoResourceFoundError is returned when a catalog lists no resources.
type NoResourceFoundError struct {
	// Source is the catalog URL, if known.
	Source string
}

func (e *NoResourceFoundError) Error() string {
	if e.Source == "" {
		return ErrNoResourceFound.Error()
	}
	return fmt.Sprintf("%s in catalog %s", ErrNoResourceFound, e.Source)
}

func (e *NoResourceFoundError) Is(target error) bool {
	return target == ErrNoResourceFound
}

// Resource is one downloadable distribution of a dataset. Coverage is the
// voting-day label the publisher attaches to it.
type Resource struct {
	Coverage string `json:"coverage" yaml:"coverage"`
	URL      string `json:"url" yaml:"url"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Validate ensures all required fields are present and valid
func (r Resource) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Coverage, validation.Required),
		validation.Field(&r.URL, validation.Required, is.URL),
	)
}

type packageShow struct {
	Success *bool `json:"success"`
	Result  *struct {
		Resources *[]wireResource `json:"resources"`
	} `json:"result"`
}

// wireResource tolerates the localized name objects CKAN returns.
type wireResource struct {
	Coverage string          `json:"coverage"`
	URL      string          `json:"url"`
	Name     json.RawMessage `json:"name"`
	Format   string          `json:"format"`
}

// ParseCatalog decodes a CKAN package_show response. Failures are
// *parser.ParseError values, like those of the dataset documents.
func ParseCatalog(text []byte) ([]Resource, error) {
	var doc packageShow
	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, decodeError(err)
	}
	if doc.Success != nil && !*doc.Success {
		return nil, parser.NewParseError("success", fmt.Errorf("%w: request was not successful", parser.ErrInvalidValue))
	}
	if doc.Result == nil {
		return nil, parser.NewParseError("result", parser.ErrMissingField)
	}
	if doc.Result.Resources == nil {
		return nil, parser.NewParseError("result.resources", parser.ErrMissingField)
	}

	out := make([]Resource, 0, len(*doc.Result.Resources))
	for _, w := range *doc.Result.Resources {
		out = append(out, Resource{
			Coverage: w.Coverage,
			URL:      strings.TrimSpace(w.URL),
			Name:     resourceName(w.Name),
			Format:   w.Format,
		})
	}
	return out, nil
}

func decodeError(err error) *parser.ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &parser.ParseError{
			Path:   parser.RootPath,
			Offset: syntaxErr.Offset,
			Err:    fmt.Errorf("%w: %v", parser.ErrMalformedJSON, err),
		}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &parser.ParseError{
			Path:   parser.RootPath,
			Offset: typeErr.Offset,
			Err:    fmt.Errorf("%w: %v", parser.ErrInvalidValue, err),
		}
	}
	return parser.NewParseError(parser.RootPath, fmt.Errorf("%w: %v", parser.ErrMalformedJSON, err))
}

// resourceName accepts a plain string or a {"de": ..., "fr": ...} object.
func resourceName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var localized map[string]string
	if json.Unmarshal(raw, &localized) != nil {
		return ""
	}
	for _, lang := range []string{"de", "fr", "it", "rm", "en"} {
		if v := strings.TrimSpace(localized[lang]); v != "" {
			return v
		}
	}
	return ""
}

// Latest returns the resource with the greatest Coverage label. Labels are
// compared as plain strings; on ties the later resource wins.
func Latest(resources []Resource) (Resource, error) {
	return LatestFrom("", resources)
}

// LatestFrom is Latest with the catalog source recorded on failure.
func LatestFrom(source string, resources []Resource) (Resource, error) {
	if len(resources) == 0 {
		return Resource{}, &NoResourceFoundError{Source: source}
	}
	best := 0
	for i := 1; i < len(resources); i++ {
		if resources[i].Coverage >= resources[best].Coverage {
			best = i
		}
	}
	return resources[best], nil
}
