package models

import "time"

// CantonalIssue is an issue put to vote by a single canton. It reports its
// own subdivisions directly.
type CantonalIssue struct {
	ID           uint32       `json:"id"`
	DisplayOrder uint32       `json:"display_order"`
	Titles       Titles       `json:"titles"`
	Completed    bool         `json:"completed"`
	Accepted     bool         `json:"accepted"`
	TypeID       uint32       `json:"type_id"`
	ParentID     *uint32      `json:"parent_id,omitempty"`
	Outcome      Outcome      `json:"outcome"`
	Subdivisions Subdivisions `json:"subdivisions"`
}

// Title returns the issue title in lang, if one is published.
func (i CantonalIssue) Title(lang Lang) (string, bool) {
	return i.Titles.Get(lang)
}

// CantonIssues lists the issues one canton put to vote.
type CantonIssues struct {
	LevelNumber      uint8           `json:"level_number"`
	LevelName        string          `json:"level_name"`
	NoInformationYet bool            `json:"no_information_yet"`
	Issues           []CantonalIssue `json:"issues"`
}

// Issue looks up an issue by id.
func (c CantonIssues) Issue(id uint32) (CantonalIssue, bool) {
	for _, i := range c.Issues {
		if i.ID == id {
			return i, true
		}
	}
	return CantonalIssue{}, false
}

// CantonalData is a parsed cantonal voting-day dataset.
type CantonalData struct {
	VotingDay string         `json:"voting_day"`
	Timestamp string         `json:"timestamp"`
	Cantons   []CantonIssues `json:"cantons"`
}

// Canton looks up a canton by its level number.
func (d CantonalData) Canton(levelNumber uint8) (CantonIssues, bool) {
	for _, c := range d.Cantons {
		if c.LevelNumber == levelNumber {
			return c, true
		}
	}
	return CantonIssues{}, false
}

// Day parses the voting day.
func (d CantonalData) Day() (time.Time, error) {
	return time.Parse(VotingDayLayout, d.VotingDay)
}

// PublishedAt parses the publication timestamp.
func (d CantonalData) PublishedAt() (time.Time, error) {
	return parseTimestamp(d.Timestamp)
}
