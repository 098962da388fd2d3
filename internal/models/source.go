package models

import "fmt"

// DatasetKind represents which voting-day dataset a source publishes
type DatasetKind string

const (
	KindNational DatasetKind = "national"
	KindCantonal DatasetKind = "cantonal"
)

// DatasetKinds lists every supported kind in display order
var DatasetKinds = []DatasetKind{KindNational, KindCantonal}

// ValidateDatasetKind checks if the dataset kind is valid
func ValidateDatasetKind(kind DatasetKind) error {
	switch kind {
	case KindNational, KindCantonal:
		return nil
	default:
		return fmt.Errorf("invalid dataset kind: %q", kind)
	}
}

// DatasetSource represents where a dataset of a given kind was loaded from
type DatasetSource struct {
	Kind     DatasetKind `json:"kind"`
	URL      string      `json:"url"`
	Coverage string      `json:"coverage,omitempty"`
}

// Validate ensures all required fields are present and valid
func (s *DatasetSource) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	return ValidateDatasetKind(s.Kind)
}
