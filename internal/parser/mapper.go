package parser

import (
	"fmt"

	"github.com/goccy/go-json"

	"voteinfo/internal/models"
)

// ParseNational maps a federal voting-day document (eidgAbstimmung) onto
// models.NationalData. Failures are *ParseError values.
func ParseNational(text []byte) (models.NationalData, error) {
	var w wireNationalData
	if err := decodeJSON(text, &w); err != nil {
		return models.NationalData{}, err
	}
	r := &reader{}
	d := r.nationalData(&w)
	if r.err != nil {
		return models.NationalData{}, r.err
	}
	return d, nil
}

// ParseCantonal maps a cantonal voting-day document (kantAbstimmung) onto
// models.CantonalData. Failures are *ParseError values.
func ParseCantonal(text []byte) (models.CantonalData, error) {
	var w wireCantonalData
	if err := decodeJSON(text, &w); err != nil {
		return models.CantonalData{}, err
	}
	r := &reader{}
	d := r.cantonalData(&w)
	if r.err != nil {
		return models.CantonalData{}, r.err
	}
	return d, nil
}

// EncodeNational renders d with the published keys. ParseNational accepts
// the output and yields a value equal to d.
func EncodeNational(d models.NationalData) ([]byte, error) {
	out, err := json.Marshal(wireNationalDataOf(d))
	if err != nil {
		return nil, fmt.Errorf("encode national data: %w", err)
	}
	return out, nil
}

// EncodeCantonal renders d with the published keys.
func EncodeCantonal(d models.CantonalData) ([]byte, error) {
	out, err := json.Marshal(wireCantonalDataOf(d))
	if err != nil {
		return nil, fmt.Errorf("encode cantonal data: %w", err)
	}
	return out, nil
}
