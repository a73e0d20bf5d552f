// Package nhl extracts teams, rosters, players, games, standings and season
// summaries from the league's public JSON APIs.
package nhl

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/fetch"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

const (
	// DefaultStatsBaseURL hosts the stats REST reports.
	DefaultStatsBaseURL = "https://api.nhle.com/stats/rest/en"

	pageSize = 100

	// DefaultMaxPages caps one stats report walk.
	DefaultMaxPages = 50
)

// Handler fetches and normalizes league data. The web API and the stats REST
// reports are both reached through one paced client so the two hosts share
// a single request budget.
type Handler struct {
	client    *fetch.Client
	statsBase string
	teams     []string
	maxPages  int
	clock     provider.Clock
	logger    *slog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock replaces the clock used for default seasons.
func WithClock(c provider.Clock) Option {
	return func(h *Handler) { h.clock = c }
}

// WithTeams replaces the team codes swept by multi-team operations.
func WithTeams(codes []string) Option {
	return func(h *Handler) { h.teams = codes }
}

// WithMaxPages caps the number of pages read from one stats report.
func WithMaxPages(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxPages = n
		}
	}
}

// NewHandler creates a handler over client, whose base URL is the web API.
// Stats reports are requested as absolute URLs under statsBaseURL.
func NewHandler(client *fetch.Client, statsBaseURL string, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if statsBaseURL == "" {
		statsBaseURL = DefaultStatsBaseURL
	}
	h := &Handler{
		client:    client,
		statsBase: strings.TrimRight(statsBaseURL, "/"),
		teams:     provider.TeamCodes,
		maxPages:  DefaultMaxPages,
		clock:     provider.SystemClock{},
		logger:    logger.With("source", config.SourceNHLAPI),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Teams returns the team codes this handler sweeps.
func (h *Handler) Teams() []string { return h.teams }

// season resolves an optional season argument to its 8-digit form.
func (h *Handler) season(season string) (string, error) {
	if season == "" {
		return provider.CurrentSeason(h.clock.Now()), nil
	}
	return provider.ExpandSeason(season)
}

// localized is the {"default": "..."} wrapper the web API uses for names.
type localized struct {
	Default string `json:"default"`
}

// flag decodes booleans the API sends either as true/false or as 0/1.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = flag(t)
	case float64:
		*f = t != 0
	default:
		*f = false
	}
	return nil
}
