// voteinfo prints Swiss referendum results from the opendata.swiss
// voting-day feeds.
//
// Usage:
//
//	voteinfo national [--url=<resource>] [--units]
//	voteinfo cantonal [--url=<resource>] [--units]
//	voteinfo resources <national|cantonal>
//	voteinfo day
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "voteinfo",
	Short: "Swiss referendum results from opendata.swiss",
	Long:  "voteinfo reads the federal and cantonal voting-day datasets published\non opendata.swiss and prints outcomes, turnout and the cantons tally.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")
	f.DurationVar(&rootFlags.timeout, "timeout", 0, "HTTP timeout for catalog and dataset requests")
	f.StringSliceVar(&rootFlags.langs, "lang", nil, "Preferred title languages, e.g. fr,de")
	f.StringVarP(&rootFlags.output, "output", "o", "text", "Output format: text, json or yaml")
	f.StringVar(&rootFlags.nationalCatalog, "national-catalog", "", "Catalog URL of the federal dataset")
	f.StringVar(&rootFlags.cantonalCatalog, "cantonal-catalog", "", "Catalog URL of the cantonal dataset")

	rootCmd.AddCommand(nationalCmd)
	rootCmd.AddCommand(cantonalCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.Version = version
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
