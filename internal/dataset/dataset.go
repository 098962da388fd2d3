// Package dataset loads voting-day datasets, either from a given resource
// URL or from the most recent resource listed in the opendata.swiss catalog.
package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"voteinfo/internal/catalog"
	"voteinfo/internal/fetch"
	"voteinfo/internal/logging"
	"voteinfo/internal/models"
	"voteinfo/internal/parser"
)

// Default catalog endpoints on opendata.swiss.
const (
	NationalCatalogURL = "https://ckan.opendata.swiss/api/3/action/package_show?id=echtzeitdaten-am-abstimmungstag-zu-eidgenoessischen-abstimmungsvorlagen"
	CantonalCatalogURL = "https://ckan.opendata.swiss/api/3/action/package_show?id=echtzeitdaten-am-abstimmungstag-zu-kantonalen-abstimmungsvorlagen"
)

// DefaultAllowedHosts are the hosts the catalogs publish dataset documents on.
var DefaultAllowedHosts = []string{"ogd-static.voteinfo-app.ch"}

// Client assembles datasets from a Fetcher.
type Client struct {
	fetcher  fetch.Fetcher
	catalogs map[models.DatasetKind]string
	logger   *slog.Logger
}

// Option configures the Client during construction.
type Option func(*Client) error

// WithCatalogURL overrides the catalog endpoint for kind.
func WithCatalogURL(kind models.DatasetKind, url string) Option {
	return func(c *Client) error {
		if err := models.ValidateDatasetKind(kind); err != nil {
			return err
		}
		if url == "" {
			return fmt.Errorf("dataset: empty catalog url for %s", kind)
		}
		c.catalogs[kind] = url
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// New creates a Client that retrieves documents through f.
func New(f fetch.Fetcher, opts ...Option) (*Client, error) {
	if f == nil {
		return nil, fmt.Errorf("dataset: fetcher is required")
	}
	c := &Client{
		fetcher: f,
		catalogs: map[models.DatasetKind]string{
			models.KindNational: NationalCatalogURL,
			models.KindCantonal: CantonalCatalogURL,
		},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c, nil
}

// CatalogURL returns the catalog endpoint used for kind.
func (c *Client) CatalogURL(kind models.DatasetKind) (string, error) {
	if err := models.ValidateDatasetKind(kind); err != nil {
		return "", err
	}
	return c.catalogs[kind], nil
}

// Resources lists every resource in the catalog for kind.
func (c *Client) Resources(ctx context.Context, kind models.DatasetKind) ([]catalog.Resource, error) {
	url, err := c.CatalogURL(kind)
	if err != nil {
		return nil, err
	}
	text, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", kind, err)
	}
	resources, err := catalog.ParseCatalog(text)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", kind, err)
	}
	return resources, nil
}

// LatestURL resolves the most recent resource for kind.
func (c *Client) LatestURL(ctx context.Context, kind models.DatasetKind) (models.DatasetSource, error) {
	resources, err := c.Resources(ctx, kind)
	if err != nil {
		return models.DatasetSource{}, err
	}
	latest, err := catalog.LatestFrom(c.catalogs[kind], resources)
	if err != nil {
		return models.DatasetSource{}, fmt.Errorf("select latest %s resource: %w", kind, err)
	}
	c.logger.DebugContext(ctx, "selected latest resource",
		"kind", kind, "coverage", latest.Coverage, "url", latest.URL)
	return models.DatasetSource{Kind: kind, URL: latest.URL, Coverage: latest.Coverage}, nil
}

// NationalByURL fetches and parses the federal document at url.
func (c *Client) NationalByURL(ctx context.Context, url string) (models.NationalData, error) {
	text, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.NationalData{}, fmt.Errorf("load national dataset: %w", err)
	}
	data, err := parser.ParseNational(text)
	if err != nil {
		return models.NationalData{}, fmt.Errorf("load national dataset %s: %w", url, err)
	}
	c.logger.InfoContext(ctx, "loaded national dataset",
		"url", url, "voting_day", data.VotingDay, "issues", len(data.Country.Issues))
	return data, nil
}

// CantonalByURL fetches and parses the cantonal document at url.
func (c *Client) CantonalByURL(ctx context.Context, url string) (models.CantonalData, error) {
	text, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.CantonalData{}, fmt.Errorf("load cantonal dataset: %w", err)
	}
	data, err := parser.ParseCantonal(text)
	if err != nil {
		return models.CantonalData{}, fmt.Errorf("load cantonal dataset %s: %w", url, err)
	}
	c.logger.InfoContext(ctx, "loaded cantonal dataset",
		"url", url, "voting_day", data.VotingDay, "cantons", len(data.Cantons))
	return data, nil
}

// LatestNational loads the most recent federal dataset.
func (c *Client) LatestNational(ctx context.Context) (models.NationalData, models.DatasetSource, error) {
	src, err := c.LatestURL(ctx, models.KindNational)
	if err != nil {
		return models.NationalData{}, models.DatasetSource{}, err
	}
	data, err := c.NationalByURL(ctx, src.URL)
	if err != nil {
		return models.NationalData{}, src, err
	}
	return data, src, nil
}

// LatestCantonal loads the most recent cantonal dataset.
func (c *Client) LatestCantonal(ctx context.Context) (models.CantonalData, models.DatasetSource, error) {
	src, err := c.LatestURL(ctx, models.KindCantonal)
	if err != nil {
		return models.CantonalData{}, models.DatasetSource{}, err
	}
	data, err := c.CantonalByURL(ctx, src.URL)
	if err != nil {
		return models.CantonalData{}, src, err
	}
	return data, src, nil
}

// VotingDay bundles the latest federal and cantonal datasets.
type VotingDay struct {
	National       models.NationalData
	NationalSource models.DatasetSource
	Cantonal       models.CantonalData
	CantonalSource models.DatasetSource
}

// LatestVotingDay loads both latest datasets concurrently. The first failure
// cancels the other load.
func (c *Client) LatestVotingDay(ctx context.Context) (VotingDay, error) {
	var day VotingDay
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, src, err := c.LatestNational(ctx)
		day.National, day.NationalSource = data, src
		return err
	})
	g.Go(func() error {
		data, src, err := c.LatestCantonal(ctx)
		day.Cantonal, day.CantonalSource = data, src
		return err
	})
	if err := g.Wait(); err != nil {
		return VotingDay{}, err
	}
	return day, nil
}
