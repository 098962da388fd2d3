package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"voteinfo/internal/catalog"
	"voteinfo/internal/dataset"
	"voteinfo/internal/fetch"
	"voteinfo/internal/formatter"
	"voteinfo/internal/models"
	"voteinfo/internal/parser"
)

// Loader is the dataset access the handlers need. *dataset.Client satisfies it.
type Loader interface {
	NationalByURL(ctx context.Context, url string) (models.NationalData, error)
	CantonalByURL(ctx context.Context, url string) (models.CantonalData, error)
	LatestNational(ctx context.Context) (models.NationalData, models.DatasetSource, error)
	LatestCantonal(ctx context.Context) (models.CantonalData, models.DatasetSource, error)
	Resources(ctx context.Context, kind models.DatasetKind) ([]catalog.Resource, error)
	CatalogURL(kind models.DatasetKind) (string, error)
}

type VoteHandler struct {
	loader       Loader
	logger       *slog.Logger
	allowedHosts map[string]bool
}

// Option configures a VoteHandler.
type Option func(*VoteHandler)

// WithAllowedHosts replaces the hosts the url query parameter may point at.
func WithAllowedHosts(hosts ...string) Option {
	return func(h *VoteHandler) {
		h.allowedHosts = make(map[string]bool, len(hosts))
		for _, host := range hosts {
			if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
				h.allowedHosts[host] = true
			}
		}
	}
}

// NewVoteHandler returns handlers serving datasets through loader. Dataset
// URLs supplied by clients are limited to dataset.DefaultAllowedHosts unless
// WithAllowedHosts says otherwise.
func NewVoteHandler(loader Loader, logger *slog.Logger, opts ...Option) *VoteHandler {
	h := &VoteHandler{
		loader: loader,
		logger: logger,
	}
	WithAllowedHosts(dataset.DefaultAllowedHosts...)(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// datasetURL reads the url query parameter and checks it against the allowed
// hosts.
func (h *VoteHandler) datasetURL(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		return "", errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", errors.New("url must be an absolute http(s) URL")
	}
	if !h.allowedHosts[strings.ToLower(u.Hostname())] {
		return "", fmt.Errorf("host %q is not allowed", u.Hostname())
	}
	return raw, nil
}

// Register adds the API routes to mux.
func (h *VoteHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/{kind}", h.HandleGetByURL)
	mux.HandleFunc("GET /api/{kind}/latest", h.HandleGetLatest)
	mux.HandleFunc("GET /api/{kind}/resources", h.HandleGetResources)
	mux.HandleFunc("GET /api/{kind}/raw", h.HandleGetRaw)
	mux.HandleFunc("GET /health", h.HandleHealth)
}

// DatasetResponse is the JSON body of the dataset endpoints.
type DatasetResponse struct {
	Source    models.DatasetSource  `json:"source"`
	VotingDay string                `json:"voting_day"`
	Timestamp string                `json:"timestamp"`
	Total     int                   `json:"total"`
	Issues    []models.IssueSummary `json:"issues"`
}

// ResourcesResponse is the JSON body of the resources endpoint.
type ResourcesResponse struct {
	Kind      models.DatasetKind `json:"kind"`
	Catalog   string             `json:"catalog"`
	Latest    *catalog.Resource  `json:"latest,omitempty"`
	Resources []catalog.Resource `json:"resources"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path,omitempty"`
	Status int    `json:"status"`
}

// queryOptions are the options shared by the dataset endpoints.
type queryOptions struct {
	langs  []models.Lang
	units  bool
	format formatter.Format
}

func parseQueryOptions(r *http.Request) (queryOptions, error) {
	q := r.URL.Query()
	opts := queryOptions{units: true, format: formatter.FormatJSON}

	if raw := q.Get("lang"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			lang, err := models.ParseLang(part)
			if err != nil {
				return opts, err
			}
			opts.langs = append(opts.langs, lang)
		}
	}
	if raw := q.Get("units"); raw != "" {
		units, err := cast.ToBoolE(raw)
		if err != nil {
			return opts, errors.New("units must be a boolean")
		}
		opts.units = units
	}
	if raw := q.Get("format"); raw != "" {
		f, err := formatter.ParseFormat(raw)
		if err != nil {
			return opts, err
		}
		opts.format = f
	}
	return opts, nil
}

func pathKind(r *http.Request) (models.DatasetKind, error) {
	kind := models.DatasetKind(strings.ToLower(r.PathValue("kind")))
	if err := models.ValidateDatasetKind(kind); err != nil {
		return "", err
	}
	return kind, nil
}

// HandleGetByURL summarizes the dataset published at the url query parameter.
func (h *VoteHandler) HandleGetByURL(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	opts, err := parseQueryOptions(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	docURL, err := h.datasetURL(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	src := models.DatasetSource{Kind: kind, URL: docURL}
	resp, err := h.load(r.Context(), src, opts)
	if err != nil {
		h.writeLoadError(w, r, err)
		return
	}
	h.writeDataset(w, r, opts, resp)
}

// HandleGetLatest summarizes the most recent dataset of a kind.
func (h *VoteHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	opts, err := parseQueryOptions(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	resp, err := h.load(r.Context(), models.DatasetSource{Kind: kind}, opts)
	if err != nil {
		h.writeLoadError(w, r, err)
		return
	}
	h.writeDataset(w, r, opts, resp)
}

// load reads the dataset at src, or the latest one when src has no URL.
func (h *VoteHandler) load(ctx context.Context, src models.DatasetSource, opts queryOptions) (DatasetResponse, error) {
	var resp DatasetResponse
	switch src.Kind {
	case models.KindNational:
		var data models.NationalData
		var err error
		if src.URL == "" {
			data, src, err = h.loader.LatestNational(ctx)
		} else {
			data, err = h.loader.NationalByURL(ctx, src.URL)
		}
		if err != nil {
			return resp, err
		}
		resp.VotingDay, resp.Timestamp = data.VotingDay, data.Timestamp
		resp.Issues = formatter.SummarizeNational(data, opts.langs...)
	case models.KindCantonal:
		var data models.CantonalData
		var err error
		if src.URL == "" {
			data, src, err = h.loader.LatestCantonal(ctx)
		} else {
			data, err = h.loader.CantonalByURL(ctx, src.URL)
		}
		if err != nil {
			return resp, err
		}
		resp.VotingDay, resp.Timestamp = data.VotingDay, data.Timestamp
		resp.Issues = formatter.SummarizeCantonal(data, opts.langs...)
	}
	if !opts.units {
		resp.Issues = formatter.StripUnits(resp.Issues)
	}
	resp.Source = src
	resp.Total = len(resp.Issues)
	return resp, nil
}

func (h *VoteHandler) writeDataset(w http.ResponseWriter, r *http.Request, opts queryOptions, resp DatasetResponse) {
	switch opts.format {
	case formatter.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case formatter.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	default:
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if err := formatter.Write(w, opts.format, resp.Issues); err != nil {
		h.logger.ErrorContext(r.Context(), "error rendering dataset", "error", err)
	}
}

// HandleGetResources lists the catalog resources of a kind.
func (h *VoteHandler) HandleGetResources(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	catalogURL, err := h.loader.CatalogURL(kind)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	resources, err := h.loader.Resources(r.Context(), kind)
	if err != nil {
		h.writeLoadError(w, r, err)
		return
	}

	resp := ResourcesResponse{Kind: kind, Catalog: catalogURL, Resources: resources}
	if latest, err := catalog.Latest(resources); err == nil {
		resp.Latest = &latest
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetRaw returns the dataset at url re-encoded with the published keys.
func (h *VoteHandler) HandleGetRaw(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	docURL, err := h.datasetURL(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var body []byte
	switch kind {
	case models.KindNational:
		data, err := h.loader.NationalByURL(r.Context(), docURL)
		if err != nil {
			h.writeLoadError(w, r, err)
			return
		}
		body, err = parser.EncodeNational(data)
		if err != nil {
			h.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	case models.KindCantonal:
		data, err := h.loader.CantonalByURL(r.Context(), docURL)
		if err != nil {
			h.writeLoadError(w, r, err)
			return
		}
		body, err = parser.EncodeCantonal(data)
		if err != nil {
			h.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *VoteHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// statusFor maps dataset errors onto response codes.
func statusFor(err error) int {
	var parseErr *parser.ParseError
	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, catalog.ErrNoResourceFound):
		return http.StatusNotFound
	case errors.As(err, &parseErr), errors.As(err, &statusErr), errors.Is(err, fetch.ErrTooLarge):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *VoteHandler) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeError(w, r, statusFor(err), err)
}

func (h *VoteHandler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		"request_id", RequestID(r.Context()), "path", r.URL.Path, "status", status, "error", err)

	resp := errorResponse{Error: publicMessage(status, err), Status: status}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		resp.Path = parseErr.Path
	}
	writeJSON(w, status, resp)
}

// publicMessage is the error text returned to clients. Upstream response
// bodies and transport details stay in the log.
func publicMessage(status int, err error) string {
	var parseErr *parser.ParseError
	var statusErr *fetch.StatusError
	switch {
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &statusErr):
		return fmt.Sprintf("upstream returned HTTP %d", statusErr.StatusCode)
	case errors.Is(err, fetch.ErrTooLarge):
		return "upstream document too large"
	case status == http.StatusGatewayTimeout:
		return "upstream request timed out"
	case status >= http.StatusInternalServerError:
		return http.StatusText(status)
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
