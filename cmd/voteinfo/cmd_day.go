package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voteinfo/internal/formatter"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show federal and cantonal results of the latest voting day",
	Args:  cobra.NoArgs,
	RunE:  runDay,
}

func runDay(cmd *cobra.Command, _ []string) error {
	day, err := app.client.LatestVotingDay(cmd.Context())
	if err != nil {
		return err
	}

	summaries := formatter.SummarizeNational(day.National, app.langs...)
	summaries = append(summaries, formatter.SummarizeCantonal(day.Cantonal, app.langs...)...)
	if app.format != formatter.FormatText {
		return render(cmd, summaries, false)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "federal  %s (%s)\n", day.NationalSource.Coverage, day.NationalSource.URL)
	fmt.Fprintf(out, "cantonal %s (%s)\n\n", day.CantonalSource.Coverage, day.CantonalSource.URL)
	if day.National.VotingDay != day.Cantonal.VotingDay {
		fmt.Fprintf(out, "note: federal and cantonal datasets cover different days\n\n")
	}
	return render(cmd, summaries, false)
}
