// Package formatter flattens parsed voting-day datasets into issue summaries
// and renders them as text, JSON or YAML.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"voteinfo/internal/models"
)

// Format selects an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat checks if the output format is valid
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

const (
	levelCanton       = "canton"
	levelDistrict     = "district"
	levelCommune      = "commune"
	levelConstituency = "constituency"
)

// resolveTitle picks a title in the requested languages, falling back to the
// default order.
func resolveTitle(id uint32, titles models.Titles, langs []models.Lang) (string, models.Lang) {
	if text, lang, ok := titles.Preferred(langs...); ok {
		return text, lang
	}
	if text, lang, ok := titles.Preferred(models.DefaultLangs...); ok {
		return text, lang
	}
	return fmt.Sprintf("Vorlage %d", id), ""
}

// SummarizeNational returns one summary per federal issue, with one unit per
// canton.
func SummarizeNational(data models.NationalData, langs ...models.Lang) []models.IssueSummary {
	out := make([]models.IssueSummary, 0, len(data.Country.Issues))
	for _, issue := range data.Country.Issues {
		title, lang := resolveTitle(issue.ID, issue.Titles, langs)
		tally := issue.CantonsTally
		s := models.IssueSummary{
			Kind:           models.KindNational,
			Scope:          data.Country.LevelName,
			VotingDay:      data.VotingDay,
			IssueID:        issue.ID,
			DisplayOrder:   issue.DisplayOrder,
			Title:          title,
			TitleLang:      lang,
			Completed:      issue.Completed,
			Accepted:       issue.Accepted,
			Provisional:    issue.Provisional,
			DoubleMajority: issue.DoubleMajority,
			Metrics:        issue.Outcome.Metrics(),
		}
		if issue.DoubleMajority {
			s.Cantons = &tally
		}
		for _, c := range issue.Cantons {
			s.Units = append(s.Units, models.UnitSummary{
				Level:       levelCanton,
				LevelNumber: c.LevelNumber,
				Name:        c.LevelName,
				Metrics:     c.Outcome.Metrics(),
			})
		}
		out = append(out, s)
	}
	return out
}

// SummarizeCantonal returns one summary per cantonal issue, with one unit per
// reported subdivision.
func SummarizeCantonal(data models.CantonalData, langs ...models.Lang) []models.IssueSummary {
	var out []models.IssueSummary
	for _, canton := range data.Cantons {
		for _, issue := range canton.Issues {
			title, lang := resolveTitle(issue.ID, issue.Titles, langs)
			s := models.IssueSummary{
				Kind:         models.KindCantonal,
				Scope:        canton.LevelName,
				VotingDay:    data.VotingDay,
				IssueID:      issue.ID,
				DisplayOrder: issue.DisplayOrder,
				Title:        title,
				TitleLang:    lang,
				Completed:    issue.Completed,
				Accepted:     issue.Accepted,
				Metrics:      issue.Outcome.Metrics(),
			}
			level := unitLevel(issue.Subdivisions.Kind())
			issue.Subdivisions.Units(func(levelNumber, name string, o models.Outcome) {
				s.Units = append(s.Units, models.UnitSummary{
					Level:       level,
					LevelNumber: levelNumber,
					Name:        name,
					Metrics:     o.Metrics(),
				})
			})
			out = append(out, s)
		}
	}
	if out == nil {
		out = []models.IssueSummary{}
	}
	return out
}

func unitLevel(k models.SubdivisionKind) string {
	switch k {
	case models.DistrictLevel:
		return levelDistrict
	case models.CommuneLevel:
		return levelCommune
	case models.ConstituencyLevel:
		return levelConstituency
	}
	return ""
}

// StripUnits drops the per-unit breakdown from every summary.
func StripUnits(summaries []models.IssueSummary) []models.IssueSummary {
	out := make([]models.IssueSummary, len(summaries))
	for i, s := range summaries {
		s.Units = nil
		out[i] = s
	}
	return out
}

// Write renders summaries to w.
func Write(w io.Writer, format Format, summaries []models.IssueSummary) error {
	if format == FormatText || format == "" {
		return writeText(w, summaries)
	}
	return Encode(w, format, summaries)
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

var (
	acceptedColor = color.New(color.FgGreen, color.Bold)
	rejectedColor = color.New(color.FgRed, color.Bold)
	countingColor = color.New(color.FgYellow)
	anomalyColor  = color.New(color.FgMagenta)
)

func status(s models.IssueSummary) string {
	switch {
	case !s.Completed:
		return countingColor.Sprint("COUNTING")
	case s.Accepted:
		return acceptedColor.Sprint("ACCEPTED")
	default:
		return rejectedColor.Sprint("REJECTED")
	}
}

func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func writeText(w io.Writer, summaries []models.IssueSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "no issues published")
		return err
	}
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := fmt.Sprintf("%s %s #%d %s", s.VotingDay, s.Scope, s.IssueID, status(s))
		if s.Provisional {
			header += " (provisional)"
		}
		fmt.Fprintln(w, header)
		fmt.Fprintf(w, "  %s\n", s.Title)
		fmt.Fprintf(w, "  yes %s (%s)  no %s (%s)  turnout %s\n",
			humanize.Comma(int64(s.Metrics.YesVotes)), percent(s.Metrics.YesRatio),
			humanize.Comma(int64(s.Metrics.NoVotes)), percent(s.Metrics.NoRatio),
			percent(s.Metrics.Turnout))
		if t := s.Cantons; t != nil {
			fmt.Fprintf(w, "  cantons yes %d no %d of %d, half cantons yes %d no %d of %d\n",
				t.YesFull, t.NoFull, t.FullCount, t.YesHalf, t.NoHalf, t.HalfCount)
		}
		for _, a := range s.Metrics.Anomalies {
			fmt.Fprintf(w, "  %s\n", anomalyColor.Sprint("! "+a))
		}
		if len(s.Units) > 0 {
			if err := writeUnits(w, s.Units); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeUnits(w io.Writer, units []models.UnitSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s\t%s\t\n", "unit", "yes", "no", "yes %", "turnout")
	for _, u := range units {
		done := ""
		if !u.Metrics.CountCompleted {
			done = "*"
		}
		fmt.Fprintf(tw, "\t%s%s\t%s\t%s\t%s\t%s\t\n",
			u.Name, done,
			humanize.Comma(int64(u.Metrics.YesVotes)),
			humanize.Comma(int64(u.Metrics.NoVotes)),
			percent(u.Metrics.YesRatio),
			percent(u.Metrics.Turnout))
	}
	return tw.Flush()
}
