package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"voteinfo/internal/config"
	"voteinfo/internal/dataset"
	"voteinfo/internal/fetch"
	"voteinfo/internal/formatter"
	"voteinfo/internal/logging"
	"voteinfo/internal/models"
)

var rootFlags struct {
	logLevel        string
	logFormat       string
	timeout         time.Duration
	langs           []string
	output          string
	nationalCatalog string
	cantonalCatalog string
}

// app holds what setup resolved for the running command.
var app struct {
	client *dataset.Client
	langs  []models.Lang
	format formatter.Format
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = rootFlags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = rootFlags.logFormat
	}
	if flags.Changed("timeout") {
		cfg.FetchTimeout = rootFlags.timeout
	}
	if flags.Changed("national-catalog") {
		cfg.NationalCatalogURL = rootFlags.nationalCatalog
	}
	if flags.Changed("cantonal-catalog") {
		cfg.CantonalCatalogURL = rootFlags.cantonalCatalog
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logging.Init(cfg.SlogLevel(), cfg.LogFormat, cmd.ErrOrStderr())

	app.format, err = formatter.ParseFormat(rootFlags.output)
	if err != nil {
		return err
	}
	app.langs = app.langs[:0]
	for _, raw := range rootFlags.langs {
		lang, err := models.ParseLang(raw)
		if err != nil {
			return err
		}
		app.langs = append(app.langs, lang)
	}

	fetcher, err := fetch.New(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithLogger(logging.New("fetch")),
	)
	if err != nil {
		return err
	}
	app.client, err = dataset.New(fetcher,
		dataset.WithCatalogURL(models.KindNational, cfg.NationalCatalogURL),
		dataset.WithCatalogURL(models.KindCantonal, cfg.CantonalCatalogURL),
		dataset.WithLogger(logging.New("dataset")),
	)
	return err
}

func render(cmd *cobra.Command, summaries []models.IssueSummary, units bool) error {
	if !units {
		summaries = formatter.StripUnits(summaries)
	}
	return formatter.Write(cmd.OutOrStdout(), app.format, summaries)
}
