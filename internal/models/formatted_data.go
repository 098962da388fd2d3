package models

// OutcomeMetrics represents an outcome together with its derived metrics.
// Metrics that are undefined for the outcome are nil.
type OutcomeMetrics struct {
	CountCompleted    bool     `json:"count_completed" yaml:"count_completed"`
	YesVotes          uint32   `json:"yes_votes" yaml:"yes_votes"`
	NoVotes           uint32   `json:"no_votes" yaml:"no_votes"`
	CastBallotPapers  uint32   `json:"cast_ballot_papers" yaml:"cast_ballot_papers"`
	EligibleVoters    uint32   `json:"eligible_voters" yaml:"eligible_voters"`
	ValidVotes        uint64   `json:"valid_votes" yaml:"valid_votes"`
	InvalidVotes      *uint64  `json:"invalid_votes" yaml:"invalid_votes"`
	YesRatio          *float64 `json:"yes_ratio" yaml:"yes_ratio"`
	NoRatio           *float64 `json:"no_ratio" yaml:"no_ratio"`
	ValidVotesRatio   *float64 `json:"valid_votes_ratio" yaml:"valid_votes_ratio"`
	InvalidVotesRatio *float64 `json:"invalid_votes_ratio" yaml:"invalid_votes_ratio"`
	Turnout           *float64 `json:"turnout" yaml:"turnout"`
	Anomalies         []string `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
}

// UnitSummary represents the metrics of one geographic unit below an issue
type UnitSummary struct {
	Level       string         `json:"level" yaml:"level"`
	LevelNumber string         `json:"level_number" yaml:"level_number"`
	Name        string         `json:"name" yaml:"name"`
	Metrics     OutcomeMetrics `json:"metrics" yaml:"metrics"`
}

// IssueSummary represents a flattened, display-ready issue
type IssueSummary struct {
	Kind           DatasetKind    `json:"kind" yaml:"kind"`
	Scope          string         `json:"scope" yaml:"scope"`
	VotingDay      string         `json:"voting_day" yaml:"voting_day"`
	IssueID        uint32         `json:"issue_id" yaml:"issue_id"`
	DisplayOrder   uint32         `json:"display_order" yaml:"display_order"`
	Title          string         `json:"title" yaml:"title"`
	TitleLang      Lang           `json:"title_lang,omitempty" yaml:"title_lang,omitempty"`
	Completed      bool           `json:"completed" yaml:"completed"`
	Accepted       bool           `json:"accepted" yaml:"accepted"`
	Provisional    bool           `json:"provisional,omitempty" yaml:"provisional,omitempty"`
	DoubleMajority bool           `json:"double_majority,omitempty" yaml:"double_majority,omitempty"`
	Cantons        *CantonsTally  `json:"cantons_tally,omitempty" yaml:"cantons_tally,omitempty"`
	Metrics        OutcomeMetrics `json:"metrics" yaml:"metrics"`
	Units          []UnitSummary  `json:"units,omitempty" yaml:"units,omitempty"`
}
