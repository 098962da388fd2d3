package main

import (
	"github.com/spf13/cobra"

	"voteinfo/internal/formatter"
	"voteinfo/internal/models"
)

var nationalFlags struct {
	url   string
	units bool
}

var nationalCmd = &cobra.Command{
	Use:   "national",
	Short: "Show federal referendum results",
	Long:  "Show the federal issues of a voting day. Without --url the most recent\nresource of the federal catalog is used.",
	Args:  cobra.NoArgs,
	RunE:  runNational,
}

func init() {
	f := nationalCmd.Flags()
	f.StringVar(&nationalFlags.url, "url", "", "Resource URL of an eidgAbstimmung document")
	f.BoolVar(&nationalFlags.units, "units", false, "Include per-canton results")
}

func runNational(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var data models.NationalData
	var err error
	if nationalFlags.url != "" {
		data, err = app.client.NationalByURL(ctx, nationalFlags.url)
	} else {
		data, _, err = app.client.LatestNational(ctx)
	}
	if err != nil {
		return err
	}
	return render(cmd, formatter.SummarizeNational(data, app.langs...), nationalFlags.units)
}
