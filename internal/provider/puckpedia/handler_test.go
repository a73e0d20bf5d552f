package puckpedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/nhl-ingest/internal/fetch"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var testNow = fixedClock(time.Date(2024, time.November, 5, 18, 30, 0, 0, time.UTC))

func newTestHandler(t *testing.T, mux http.Handler, logger *slog.Logger, opts ...Option) *Handler {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := fetch.New(fetch.Config{
		Name:              "puckpedia",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Timeout:           5 * time.Second,
	}, logger)
	t.Cleanup(client.Close)

	opts = append([]Option{WithClock(testNow)}, opts...)
	return NewHandler(client, logger, opts...)
}

func capPage(rows ...string) string {
	return `<html><body>
	<table class="nav"><tr><td>Home</td><td>Teams</td><td>Players</td></tr></table>
	<table class="pp-cap-table">
		<tr><th>Player</th><th>Cap Hit</th><th>Salary</th><th>Term</th><th>Expiry</th></tr>
		` + strings.Join(rows, "\n") + `
	</table>
	</body></html>`
}

func serveHTML(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}
}

func rowCells(t *testing.T, row string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + row + "</table>"))
	require.NoError(t, err)
	return doc.Find("tr").First().Find("td, th")
}

func TestParseContractRow(t *testing.T) {
	cells := rowCells(t, `<tr><td><a href="/player/auston-matthews">Auston Matthews</a> C</td>
		<td>$13,250,000</td><td>$15.9M</td><td>4 yrs</td><td>UFA</td><td>NMC</td></tr>`)

	c, ok := ParseContractRow(cells, "TOR")
	require.True(t, ok)
	assert.Equal(t, "Auston Matthews", c.PlayerName)
	assert.Equal(t, "TOR", c.TeamAbbrev)
	assert.Equal(t, int64(13_250_000), c.CapHit)
	assert.Equal(t, int64(13_250_000), c.AAV)
	assert.Equal(t, int64(15_900_000), c.Salary)
	assert.Equal(t, 4, c.TotalYears)
	assert.Equal(t, provider.ExpiryUFA, c.ExpiryStatus)
	assert.True(t, c.HasNMC)
	assert.False(t, c.HasNTC)
	assert.Equal(t, "puckpedia", c.Source)
	assert.Contains(t, string(c.Raw), "Auston Matthews")
}

func TestParseContractRowDefaults(t *testing.T) {
	cells := rowCells(t, `<tr><td>Joseph Woll</td><td>$766,667</td><td>10.2(c)</td><td>Modified No-Trade</td></tr>`)

	c, ok := ParseContractRow(cells, "TOR")
	require.True(t, ok)
	assert.Equal(t, "Joseph Woll", c.PlayerName)
	assert.Equal(t, int64(766_667), c.CapHit)
	assert.Equal(t, c.CapHit, c.Salary)
	assert.Equal(t, 1, c.TotalYears)
	assert.Equal(t, provider.Expiry102C, c.ExpiryStatus)
	assert.True(t, c.HasNTC)
	assert.False(t, c.HasNMC)
}

func TestParseContractRowSkips(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"header", `<tr><th>Player</th><th>Cap Hit</th><th>Term</th></tr>`},
		{"name header", `<tr><td>Name</td><td>$1</td><td>x</td></tr>`},
		{"position header", `<tr><td>POS</td><td>Cap</td><td>x</td></tr>`},
		{"short name", `<tr><td>X</td><td>$1,000,000</td><td>x</td></tr>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseContractRow(rowCells(t, tt.row), "TOR")
			assert.False(t, ok)
		})
	}
}

func TestTeamContracts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/toronto-maple-leafs/cap", serveHTML(capPage(
		`<tr><td><a href="#">Auston Matthews</a></td><td>$13,250,000</td><td>$15,900,000</td><td>4 yrs</td><td>UFA</td></tr>`,
		`<tr><td><a href="#">Mitch Marner</a></td><td>$10.9M</td><td>$10.9M</td><td>1 yr</td><td>UFA</td></tr>`,
		`<tr><td>Two cells</td><td>$1</td></tr>`,
	)))
	h := newTestHandler(t, mux, nil)

	batch := h.TeamContracts(context.Background(), "TOR")
	require.Equal(t, provider.StatusOK, batch.Status())
	require.Len(t, batch.Items, 2)

	assert.Equal(t, "Mitch Marner", batch.Items[1].PlayerName)
	assert.Equal(t, int64(10_900_000), batch.Items[1].CapHit)
	assert.Equal(t, "20242025", batch.Items[0].Season)
	assert.Equal(t, time.Time(testNow), batch.Items[0].ScrapedAt)
}

func TestTeamContractsFallsBackToAllTables(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/boston-bruins/cap", serveHTML(`<html><body><table>
		<tr><td>David Pastrnak</td><td>$11,250,000</td><td>8 years</td></tr>
	</table></body></html>`))
	h := newTestHandler(t, mux, nil)

	batch := h.TeamContracts(context.Background(), "BOS")
	require.Len(t, batch.Items, 1)
	assert.Equal(t, 8, batch.Items[0].TotalYears)
}

func TestTeamContractsUnknownTeam(t *testing.T) {
	var logs bytes.Buffer
	h := newTestHandler(t, http.NewServeMux(), slog.New(slog.NewTextHandler(&logs, nil)))

	batch := h.TeamContracts(context.Background(), "XYZ")
	assert.Equal(t, provider.StatusUnavailable, batch.Status())
	assert.Empty(t, batch.Items)

	var unknown *provider.UnknownEntityError
	require.True(t, errors.As(batch.Err, &unknown))
	assert.Equal(t, "XYZ", unknown.Key)
	assert.Contains(t, logs.String(), "unknown team")
}

func TestAllContractsSurvivesOneMissingTeam(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/toronto-maple-leafs/cap", serveHTML(capPage(
		`<tr><td>Auston Matthews</td><td>$13,250,000</td><td>4 yrs</td></tr>`,
	)))
	mux.HandleFunc("/montreal-canadiens/cap", serveHTML(capPage(
		`<tr><td>Nick Suzuki</td><td>$7,875,000</td><td>6 yrs</td></tr>`,
		`<tr><td>Cole Caufield</td><td>$7,850,000</td><td>7 yrs</td></tr>`,
	)))
	// boston-bruins is not routed and answers 404.

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := newTestHandler(t, mux, logger, WithTeams([]string{"TOR", "BOS", "MTL"}))

	batch := h.AllContracts(context.Background())
	require.Equal(t, provider.StatusOK, batch.Status())
	require.Len(t, batch.Items, 3)
	assert.Equal(t, "TOR", batch.Items[0].TeamAbbrev)
	assert.Equal(t, "MTL", batch.Items[2].TeamAbbrev)

	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "BOS", batch.Failures[0].Key)
	assert.True(t, fetch.IsNotFound(batch.Failures[0].Err))
	assert.Contains(t, logs.String(), "team contracts failed")
	assert.Contains(t, logs.String(), "team=BOS")
}

func TestPlayerSlug(t *testing.T) {
	assert.Equal(t, "connor-mcdavid", PlayerSlug("Connor McDavid"))
	assert.Equal(t, "ryan-oreilly", PlayerSlug("Ryan O'Reilly"))
	assert.Equal(t, "tim-sttzle", PlayerSlug("Tim Stützle"))
	assert.Equal(t, "pierre-luc-dubois", PlayerSlug(" Pierre-Luc Dubois "))
}

func TestPlayerContract(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/player/connor-mcdavid", serveHTML(`<html><body>
		<div class="summary">
			<div><span>Cap Hit</span></div><div><strong>$12,500,000</strong></div>
			<div><span>Term</span> <b>8 years</b></div>
			<p>Expiry: UFA</p>
			<p>Clauses: NMC</p>
		</div>
	</body></html>`))
	h := newTestHandler(t, mux, nil)

	c, err := h.PlayerContract(context.Background(), "Connor McDavid")
	require.NoError(t, err)
	assert.Equal(t, "Connor McDavid", c.PlayerName)
	assert.Equal(t, int64(12_500_000), c.CapHit)
	assert.Equal(t, 8, c.TotalYears)
	assert.Equal(t, provider.ExpiryUFA, c.ExpiryStatus)
	assert.True(t, c.HasNMC)
	assert.False(t, c.HasNTC)
}

func TestPlayerContractNotFound(t *testing.T) {
	h := newTestHandler(t, http.NewServeMux(), nil)
	_, err := h.PlayerContract(context.Background(), "Nobody Here")
	assert.True(t, fetch.IsNotFound(err))

	_, err = h.PlayerContract(context.Background(), "!!!")
	var unknown *provider.UnknownEntityError
	assert.ErrorAs(t, err, &unknown)
}

func TestTeamSlugs(t *testing.T) {
	assert.Len(t, TeamSlugs, 32)
	assert.Equal(t, "utah-hockey-club", TeamSlugs["UTA"])
	_, hasARI := TeamSlugs["ARI"]
	assert.False(t, hasARI)

	teams := Teams()
	assert.Len(t, teams, 32)
	assert.Equal(t, "ANA", teams[0])
	assert.Equal(t, "WSH", teams[31])
	assert.Equal(t, provider.ActiveTeamCodes(), teams)
}
