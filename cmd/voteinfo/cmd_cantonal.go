package main

import (
	"github.com/spf13/cobra"

	"voteinfo/internal/formatter"
	"voteinfo/internal/models"
)

var cantonalFlags struct {
	url    string
	units  bool
	canton uint8
}

var cantonalCmd = &cobra.Command{
	Use:   "cantonal",
	Short: "Show cantonal referendum results",
	Long:  "Show the cantonal issues of a voting day. Without --url the most recent\nresource of the cantonal catalog is used.",
	Args:  cobra.NoArgs,
	RunE:  runCantonal,
}

func init() {
	f := cantonalCmd.Flags()
	f.StringVar(&cantonalFlags.url, "url", "", "Resource URL of a kantAbstimmung document")
	f.BoolVar(&cantonalFlags.units, "units", false, "Include district, commune or constituency results")
	f.Uint8Var(&cantonalFlags.canton, "canton", 0, "Only show the canton with this number (1-26)")
}

func runCantonal(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var data models.CantonalData
	var err error
	if cantonalFlags.url != "" {
		data, err = app.client.CantonalByURL(ctx, cantonalFlags.url)
	} else {
		data, _, err = app.client.LatestCantonal(ctx)
	}
	if err != nil {
		return err
	}
	if cantonalFlags.canton != 0 {
		canton, ok := data.Canton(cantonalFlags.canton)
		if !ok {
			data.Cantons = nil
		} else {
			data.Cantons = []models.CantonIssues{canton}
		}
	}
	return render(cmd, formatter.SummarizeCantonal(data, app.langs...), cantonalFlags.units)
}
