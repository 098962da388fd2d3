package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedRatio is matched by every *UndefinedRatioError.
	ErrUndefinedRatio = errors.New("undefined ratio")
	// ErrArithmeticUnderflow is matched by every *ArithmeticUnderflowError.
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")
)

// Metric names used in errors and summaries.
const (
	MetricYesRatio          = "yes_ratio"
	MetricNoRatio           = "no_ratio"
	MetricValidVotesRatio   = "valid_votes_ratio"
	MetricInvalidVotes      = "invalid_votes"
	MetricInvalidVotesRatio = "invalid_votes_ratio"
	MetricTurnout           = "turnout"
)

// UndefinedRatioError reports a ratio whose denominator is zero.
type UndefinedRatioError struct {
	Metric      string
	Denominator string
}

func (e *UndefinedRatioError) Error() string {
	return fmt.Sprintf("%s: undefined ratio, %s is zero", e.Metric, e.Denominator)
}

func (e *UndefinedRatioError) Is(target error) bool {
	return target == ErrUndefinedRatio
}

// ArithmeticUnderflowError reports an outcome with fewer cast ballot papers
// than valid votes. The outcome is carried so callers can log it as-is.
type ArithmeticUnderflowError struct {
	Outcome Outcome
}

func (e *ArithmeticUnderflowError) Error() string {
	return fmt.Sprintf("%s: cast ballot papers %d below valid votes %d",
		MetricInvalidVotes, e.Outcome.CastBallotPapers, e.Outcome.ValidVotes())
}

func (e *ArithmeticUnderflowError) Is(target error) bool {
	return target == ErrArithmeticUnderflow
}

// Outcome is the tally of one geographic unit on one issue.
type Outcome struct {
	CountCompleted   bool   `json:"count_completed"`
	YesVotes         uint32 `json:"yes_votes"`
	NoVotes          uint32 `json:"no_votes"`
	CastBallotPapers uint32 `json:"cast_ballot_papers"`
	EligibleVoters   uint32 `json:"eligible_voters"`
}

// ValidVotes returns yes plus no votes. The sum is widened so that two
// maximal counts cannot wrap.
func (o Outcome) ValidVotes() uint64 {
	return uint64(o.YesVotes) + uint64(o.NoVotes)
}

// InvalidVotes returns cast ballot papers minus valid votes, or an
// *ArithmeticUnderflowError when the source data has more valid votes than
// ballot papers.
func (o Outcome) InvalidVotes() (uint64, error) {
	valid := o.ValidVotes()
	cast := uint64(o.CastBallotPapers)
	if cast < valid {
		return 0, &ArithmeticUnderflowError{Outcome: o}
	}
	return cast - valid, nil
}

// YesRatio returns yes votes over valid votes.
func (o Outcome) YesRatio() (float64, error) {
	return ratio(MetricYesRatio, uint64(o.YesVotes), o.ValidVotes(), "valid_votes")
}

// NoRatio returns no votes over valid votes.
func (o Outcome) NoRatio() (float64, error) {
	return ratio(MetricNoRatio, uint64(o.NoVotes), o.ValidVotes(), "valid_votes")
}

// ValidVotesRatio returns valid votes over cast ballot papers.
func (o Outcome) ValidVotesRatio() (float64, error) {
	return ratio(MetricValidVotesRatio, o.ValidVotes(), uint64(o.CastBallotPapers), "cast_ballot_papers")
}

// InvalidVotesRatio returns invalid votes over cast ballot papers. A zero
// denominator is reported before an underflow.
func (o Outcome) InvalidVotesRatio() (float64, error) {
	if o.CastBallotPapers == 0 {
		return 0, &UndefinedRatioError{Metric: MetricInvalidVotesRatio, Denominator: "cast_ballot_papers"}
	}
	invalid, err := o.InvalidVotes()
	if err != nil {
		return 0, err
	}
	return ratio(MetricInvalidVotesRatio, invalid, uint64(o.CastBallotPapers), "cast_ballot_papers")
}

// Turnout returns valid votes over eligible voters.
func (o Outcome) Turnout() (float64, error) {
	return ratio(MetricTurnout, o.ValidVotes(), uint64(o.EligibleVoters), "eligible_voters")
}

func ratio(metric string, num, den uint64, denName string) (float64, error) {
	if den == 0 {
		return 0, &UndefinedRatioError{Metric: metric, Denominator: denName}
	}
	return float64(num) / float64(den), nil
}

// Metrics evaluates every derived metric. Metrics that cannot be computed
// are left nil and the reason is appended to Anomalies.
func (o Outcome) Metrics() OutcomeMetrics {
	m := OutcomeMetrics{
		CountCompleted:   o.CountCompleted,
		YesVotes:         o.YesVotes,
		NoVotes:          o.NoVotes,
		CastBallotPapers: o.CastBallotPapers,
		EligibleVoters:   o.EligibleVoters,
		ValidVotes:       o.ValidVotes(),
	}

	if v, err := o.InvalidVotes(); err != nil {
		m.Anomalies = append(m.Anomalies, err.Error())
	} else {
		m.InvalidVotes = &v
	}

	m.YesRatio = m.collect(o.YesRatio)
	m.NoRatio = m.collect(o.NoRatio)
	m.ValidVotesRatio = m.collect(o.ValidVotesRatio)
	m.InvalidVotesRatio = m.collect(o.InvalidVotesRatio)
	m.Turnout = m.collect(o.Turnout)
	return m
}

func (m *OutcomeMetrics) collect(fn func() (float64, error)) *float64 {
	v, err := fn()
	if err != nil {
		// invalid_votes_ratio repeats the invalid_votes underflow
		if !errors.Is(err, ErrArithmeticUnderflow) {
			m.Anomalies = append(m.Anomalies, err.Error())
		}
		return nil
	}
	return &v
}
