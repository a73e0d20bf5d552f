// Package puckpedia scrapes player contracts from PuckPedia's team cap pages.
//
// The site offers no API. Parsing is a best-effort heuristic over table
// markup and will drift when the site's layout changes.
package puckpedia

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/fetch"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// Handler fetches team cap pages and player pages.
type Handler struct {
	client *fetch.Client
	teams  []string
	clock  provider.Clock
	logger *slog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithTeams restricts AllContracts to the given team codes.
func WithTeams(codes []string) Option {
	return func(h *Handler) { h.teams = codes }
}

// WithClock replaces the clock used for scrape timestamps and seasons.
func WithClock(c provider.Clock) Option {
	return func(h *Handler) { h.clock = c }
}

func NewHandler(client *fetch.Client, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		client: client,
		teams:  Teams(),
		clock:  provider.SystemClock{},
		logger: logger.With("source", config.SourcePuckPedia),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	resp, err := h.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &fetch.DecodeError{URL: resp.URL, Format: "html", Err: err}
	}
	return doc, nil
}

// TeamContracts scrapes one team's cap page. An unknown team code yields an
// unavailable batch carrying an UnknownEntityError.
func (h *Handler) TeamContracts(ctx context.Context, team string) provider.Batch[provider.Contract] {
	slug, ok := TeamSlugs[team]
	if !ok {
		h.logger.Warn("unknown team", "team", team)
		return provider.Unavailable[provider.Contract](&provider.UnknownEntityError{Kind: "team", Key: team})
	}

	doc, err := h.fetchDocument(ctx, fmt.Sprintf("/%s/cap", slug))
	if err != nil {
		h.logger.Error("cap page fetch failed", "team", team, "error", err)
		return provider.Unavailable[provider.Contract](err)
	}

	now := h.clock.Now().UTC().Truncate(time.Second)
	season := provider.CurrentSeason(now)

	var batch provider.Batch[provider.Contract]
	contractTables(doc).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td, th")
			if cells.Length() < 3 {
				return
			}
			c, ok := ParseContractRow(cells, team)
			if !ok {
				return
			}
			if err := c.Validate(); err != nil {
				h.logger.Debug("skipping contract row", "team", team, "error", err)
				batch.Fail(c.PlayerName, &provider.RowParseError{Source: config.SourcePuckPedia, Key: c.PlayerName, Err: err})
				return
			}
			c.Season = season
			c.ScrapedAt = now
			batch.Add(c)
		})
	})

	h.logger.Info("scraped team contracts", "team", team, "count", len(batch.Items))
	return batch
}

// AllContracts scrapes every team sequentially. A team that fails is logged
// and recorded; the sweep continues with the next team.
func (h *Handler) AllContracts(ctx context.Context) provider.Batch[provider.Contract] {
	var all provider.Batch[provider.Contract]
	for _, team := range h.teams {
		if err := ctx.Err(); err != nil {
			all.Err = err
			return all
		}
		batch := h.TeamContracts(ctx, team)
		if batch.Err != nil {
			h.logger.Warn("team contracts failed", "team", team, "error", batch.Err)
		}
		all.Merge(team, batch)
	}
	h.logger.Info("scraped all contracts", "count", len(all.Items), "failed", len(all.Failures))
	return all
}

// PlayerContract looks a player up by display name on the player page.
func (h *Handler) PlayerContract(ctx context.Context, name string) (provider.Contract, error) {
	slug := PlayerSlug(name)
	if slug == "" {
		return provider.Contract{}, &provider.UnknownEntityError{Kind: "player", Key: name}
	}

	doc, err := h.fetchDocument(ctx, "/player/"+slug)
	if err != nil {
		h.logger.Warn("player lookup failed", "player", name, "error", err)
		return provider.Contract{}, fmt.Errorf("player %q: %w", name, err)
	}

	c := parsePlayerPage(doc, name)
	c.ScrapedAt = h.clock.Now().UTC().Truncate(time.Second)
	return c, nil
}
