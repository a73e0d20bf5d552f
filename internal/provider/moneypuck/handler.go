// Package moneypuck extracts per-player analytics from the season summary
// CSV files published by MoneyPuck.
package moneypuck

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/fetch"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// Handler fetches and parses the skater and goalie summary files.
type Handler struct {
	client *fetch.Client
	clock  provider.Clock
	logger *slog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock replaces the clock used for the default season.
func WithClock(c provider.Clock) Option {
	return func(h *Handler) { h.clock = c }
}

// NewHandler creates a handler over client, whose base URL is the site root.
func NewHandler(client *fetch.Client, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		client: client,
		clock:  provider.SystemClock{},
		logger: logger.With("source", config.SourceMoneyPuck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CurrentSeason returns the single-year season the site files are named by.
func (h *Handler) CurrentSeason() string {
	return provider.CurrentSeasonStartYear(h.clock.Now())
}

// seasons resolves an optional season into the file's year and the record's
// 8-digit season id.
func (h *Handler) seasons(season string) (year, id string, err error) {
	if season == "" {
		season = h.CurrentSeason()
	}
	if year, err = provider.SeasonYear(season); err != nil {
		return "", "", err
	}
	id, err = provider.ExpandSeason(year)
	return year, id, err
}

func summaryPath(year, kind string) string {
	return fmt.Sprintf("/moneypuck/playerData/seasonSummary/%s/regular/%s.csv", year, kind)
}

// fetchRows downloads one summary file and keeps rows for situation.
func (h *Handler) fetchRows(ctx context.Context, year, kind, situation string) ([]row, []provider.Failure, error) {
	path := summaryPath(year, kind)
	text, err := h.client.GetText(ctx, path, nil)
	if err != nil {
		h.logger.Error("csv fetch failed", "url", path, "error", err)
		return nil, nil, err
	}

	var failures []provider.Failure
	rows, err := readTable(text, func(line int, err error) {
		h.logger.Warn("skipping malformed csv record", "kind", kind, "line", line, "error", err)
		failures = append(failures, provider.Failure{
			Key: fmt.Sprintf("line %d", line),
			Err: &provider.RowParseError{Source: config.SourceMoneyPuck, Key: kind, Err: err},
		})
	})
	if err != nil {
		return nil, nil, &fetch.DecodeError{URL: path, Format: "csv", Err: err}
	}

	kept := rows[:0]
	for _, r := range rows {
		if r.text("situation") == situation {
			kept = append(kept, r)
		}
	}
	return kept, failures, nil
}

// requireIdentity reports rows that cannot be keyed to a player.
func requireIdentity(r row) error {
	for _, key := range []string{"playerId", "name"} {
		if !r.has(key) {
			return fmt.Errorf("missing column %q", key)
		}
	}
	if r.count("playerId") <= 0 {
		return fmt.Errorf("invalid playerId %q", r.text("playerId"))
	}
	return nil
}

// SkaterStats returns every skater's line for one situation ("all" when
// empty). A failed download yields an unavailable batch.
func (h *Handler) SkaterStats(ctx context.Context, season, situation string) provider.Batch[provider.SkaterAdvanced] {
	if situation == "" {
		situation = provider.SituationAll
	}
	year, id, err := h.seasons(season)
	if err != nil {
		return provider.Unavailable[provider.SkaterAdvanced](err)
	}

	rows, failures, err := h.fetchRows(ctx, year, "skaters", situation)
	if err != nil {
		return provider.Unavailable[provider.SkaterAdvanced](err)
	}

	batch := provider.Batch[provider.SkaterAdvanced]{Failures: failures}
	for _, r := range rows {
		s, err := parseSkater(r, id)
		if err != nil {
			h.logger.Warn("parse skater failed", "player", r.text("name"), "line", r.line, "error", err)
			batch.Fail(fmt.Sprintf("line %d", r.line), &provider.RowParseError{Source: config.SourceMoneyPuck, Key: r.text("name"), Err: err})
			continue
		}
		batch.Add(s)
	}
	h.logger.Info("parsed skater stats", "season", id, "situation", situation, "count", len(batch.Items))
	return batch
}

// GoalieStats returns every goalie's all-situations line.
func (h *Handler) GoalieStats(ctx context.Context, season string) provider.Batch[provider.GoalieAdvanced] {
	year, id, err := h.seasons(season)
	if err != nil {
		return provider.Unavailable[provider.GoalieAdvanced](err)
	}

	rows, failures, err := h.fetchRows(ctx, year, "goalies", provider.SituationAll)
	if err != nil {
		return provider.Unavailable[provider.GoalieAdvanced](err)
	}

	batch := provider.Batch[provider.GoalieAdvanced]{Failures: failures}
	for _, r := range rows {
		g, err := parseGoalie(r, id)
		if err != nil {
			h.logger.Warn("parse goalie failed", "player", r.text("name"), "line", r.line, "error", err)
			batch.Fail(fmt.Sprintf("line %d", r.line), &provider.RowParseError{Source: config.SourceMoneyPuck, Key: r.text("name"), Err: err})
			continue
		}
		batch.Add(g)
	}
	h.logger.Info("parsed goalie stats", "season", id, "count", len(batch.Items))
	return batch
}

// Players returns skaters then goalies, both all-situations, as persisted
// analytics rows. The batch is unavailable only when both files are.
func (h *Handler) Players(ctx context.Context, season string) provider.Batch[provider.AdvancedStat] {
	skaters := provider.Map(h.SkaterStats(ctx, season, provider.SituationAll), provider.SkaterAdvanced.AdvancedStat)
	goalies := provider.Map(h.GoalieStats(ctx, season), provider.GoalieAdvanced.AdvancedStat)

	if skaters.Err != nil && goalies.Err != nil {
		return provider.Unavailable[provider.AdvancedStat](fmt.Errorf("skaters: %w; goalies: %v", skaters.Err, goalies.Err))
	}
	var out provider.Batch[provider.AdvancedStat]
	out.Merge("skaters", skaters)
	out.Merge("goalies", goalies)
	return out
}
