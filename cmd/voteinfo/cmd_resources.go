package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voteinfo/internal/catalog"
	"voteinfo/internal/formatter"
	"voteinfo/internal/models"
)

var resourcesCmd = &cobra.Command{
	Use:       "resources <national|cantonal>",
	Short:     "List the resources of a dataset catalog",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.KindNational), string(models.KindCantonal)},
	RunE:      runResources,
}

func runResources(cmd *cobra.Command, args []string) error {
	kind := models.DatasetKind(strings.ToLower(args[0]))
	if err := models.ValidateDatasetKind(kind); err != nil {
		return err
	}
	resources, err := app.client.Resources(cmd.Context(), kind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if app.format != formatter.FormatText {
		return formatter.Encode(out, app.format, resources)
	}
	if len(resources) == 0 {
		fmt.Fprintln(out, "no resources published")
		return nil
	}
	latest, _ := catalog.Latest(resources)
	for _, r := range resources {
		marker := " "
		if r == latest {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-10s %s\n", marker, r.Coverage, r.URL)
	}
	return nil
}
