package models

import "time"

// VotingDayLayout is the layout of abstimmtag.
const VotingDayLayout = "20060102"

// timestampLayouts are tried in order; older feeds omit the zone offset.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseTimestamp(s string) (t time.Time, err error) {
	for _, layout := range timestampLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return t, err
}

// CantonsTally counts full and half cantons accepting and rejecting an issue
// that needs a double majority.
type CantonsTally struct {
	YesFull   uint8 `json:"yes_full" yaml:"yes_full"`
	NoFull    uint8 `json:"no_full" yaml:"no_full"`
	FullCount uint8 `json:"full_count" yaml:"full_count"`
	YesHalf   uint8 `json:"yes_half" yaml:"yes_half"`
	NoHalf    uint8 `json:"no_half" yaml:"no_half"`
	HalfCount uint8 `json:"half_count" yaml:"half_count"`
}

// CantonResult is one canton's result on a federal issue.
type CantonResult struct {
	LevelNumber  string       `json:"level_number"`
	LevelName    string       `json:"level_name"`
	Outcome      Outcome      `json:"outcome"`
	Subdivisions Subdivisions `json:"subdivisions"`
}

// NationalIssue is a federal referendum or initiative.
type NationalIssue struct {
	ID              uint32         `json:"id"`
	DisplayOrder    uint32         `json:"display_order"`
	Titles          Titles         `json:"titles"`
	Completed       bool           `json:"completed"`
	Provisional     bool           `json:"provisional"`
	Accepted        bool           `json:"accepted"`
	TypeID          uint32         `json:"type_id"`
	ParentID        uint32         `json:"parent_id"`
	ReserveInfoText *string        `json:"reserve_info_text,omitempty"`
	DoubleMajority  bool           `json:"double_majority"`
	CantonsTally    CantonsTally   `json:"cantons_tally"`
	Outcome         Outcome        `json:"outcome"`
	Cantons         []CantonResult `json:"cantons"`
}

// Title returns the issue title in lang, if one is published.
func (i NationalIssue) Title(lang Lang) (string, bool) {
	return i.Titles.Get(lang)
}

// Canton looks up a canton result by its level number.
func (i NationalIssue) Canton(levelNumber string) (CantonResult, bool) {
	for _, c := range i.Cantons {
		if c.LevelNumber == levelNumber {
			return c, true
		}
	}
	return CantonResult{}, false
}

// Country aggregates every federal issue of a voting day.
type Country struct {
	LevelNumber      uint8           `json:"level_number"`
	LevelName        string          `json:"level_name"`
	NoInformationYet bool            `json:"no_information_yet"`
	Issues           []NationalIssue `json:"issues"`
}

// Issue looks up an issue by id.
func (c Country) Issue(id uint32) (NationalIssue, bool) {
	for _, i := range c.Issues {
		if i.ID == id {
			return i, true
		}
	}
	return NationalIssue{}, false
}

// NationalData is a parsed federal voting-day dataset.
type NationalData struct {
	VotingDay string  `json:"voting_day"`
	Timestamp string  `json:"timestamp"`
	Country   Country `json:"country"`
}

// Day parses the voting day.
func (d NationalData) Day() (time.Time, error) {
	return time.Parse(VotingDayLayout, d.VotingDay)
}

// PublishedAt parses the publication timestamp.
func (d NationalData) PublishedAt() (time.Time, error) {
	return parseTimestamp(d.Timestamp)
}
