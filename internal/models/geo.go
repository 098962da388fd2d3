package models

import (
	"slices"

	"github.com/goccy/go-json"
)

// District is a result reported at district level.
type District struct {
	LevelNumber string  `json:"level_number"`
	LevelName   string  `json:"level_name"`
	Outcome     Outcome `json:"outcome"`
}

// Commune is a result reported at commune level. ParentLevelNumber refers to
// the owning canton.
type Commune struct {
	LevelNumber       string  `json:"level_number"`
	LevelName         string  `json:"level_name"`
	ParentLevelNumber string  `json:"parent_level_number"`
	Outcome           Outcome `json:"outcome"`
}

// Constituency is a counting district of a city, shaped like a Commune.
type Constituency Commune

// SubdivisionKind tags which granularity a canton reports below itself.
type SubdivisionKind uint8

const (
	NoSubdivisions SubdivisionKind = iota
	DistrictLevel
	CommuneLevel
	ConstituencyLevel
)

func (k SubdivisionKind) String() string {
	switch k {
	case DistrictLevel:
		return "districts"
	case CommuneLevel:
		return "communes"
	case ConstituencyLevel:
		return "constituencies"
	default:
		return "none"
	}
}

// Subdivisions holds at most one of districts, communes or constituencies.
// The zero value reports none. Use the variant constructors to build one;
// an empty collection yields the zero value.
//
// Slices returned by the accessors are shared and must not be modified.
type Subdivisions struct {
	kind           SubdivisionKind
	districts      []District
	communes       []Commune
	constituencies []Constituency
}

// DistrictSubdivisions builds the districts variant.
func DistrictSubdivisions(d []District) Subdivisions {
	if len(d) == 0 {
		return Subdivisions{}
	}
	return Subdivisions{kind: DistrictLevel, districts: d}
}

// CommuneSubdivisions builds the communes variant.
func CommuneSubdivisions(c []Commune) Subdivisions {
	if len(c) == 0 {
		return Subdivisions{}
	}
	return Subdivisions{kind: CommuneLevel, communes: c}
}

// ConstituencySubdivisions builds the constituencies variant.
func ConstituencySubdivisions(c []Constituency) Subdivisions {
	if len(c) == 0 {
		return Subdivisions{}
	}
	return Subdivisions{kind: ConstituencyLevel, constituencies: c}
}

func (s Subdivisions) Kind() SubdivisionKind { return s.kind }

func (s Subdivisions) Districts() ([]District, bool) {
	return s.districts, s.kind == DistrictLevel
}

func (s Subdivisions) Communes() ([]Commune, bool) {
	return s.communes, s.kind == CommuneLevel
}

func (s Subdivisions) Constituencies() ([]Constituency, bool) {
	return s.constituencies, s.kind == ConstituencyLevel
}

// Len returns the number of units in whichever variant is populated.
func (s Subdivisions) Len() int {
	switch s.kind {
	case DistrictLevel:
		return len(s.districts)
	case CommuneLevel:
		return len(s.communes)
	case ConstituencyLevel:
		return len(s.constituencies)
	}
	return 0
}

// Equal reports structural equality.
func (s Subdivisions) Equal(o Subdivisions) bool {
	return s.kind == o.kind &&
		slices.Equal(s.districts, o.districts) &&
		slices.Equal(s.communes, o.communes) &&
		slices.Equal(s.constituencies, o.constituencies)
}

// Units visits every unit as (level number, name, outcome), in order.
func (s Subdivisions) Units(fn func(levelNumber, name string, o Outcome)) {
	for _, d := range s.districts {
		fn(d.LevelNumber, d.LevelName, d.Outcome)
	}
	for _, c := range s.communes {
		fn(c.LevelNumber, c.LevelName, c.Outcome)
	}
	for _, c := range s.constituencies {
		fn(c.LevelNumber, c.LevelName, c.Outcome)
	}
}

// MarshalJSON renders the populated variant under its own key.
func (s Subdivisions) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind           string         `json:"kind"`
		Districts      []District     `json:"districts,omitempty"`
		Communes       []Commune      `json:"communes,omitempty"`
		Constituencies []Constituency `json:"constituencies,omitempty"`
	}{
		Kind:           s.kind.String(),
		Districts:      s.districts,
		Communes:       s.communes,
		Constituencies: s.constituencies,
	}
	return json.Marshal(out)
}
