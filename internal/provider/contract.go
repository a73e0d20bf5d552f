package provider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Expiry statuses a contract can end in.
const (
	ExpiryUFA  = "UFA"
	ExpiryRFA  = "RFA"
	Expiry102C = "10.2(C)"
)

// Contract is one player's current contract as scraped from a cap site.
//
// The natural key is (PlayerName, TeamAbbrev): two players with the same name
// on one team collapse into a single row.
type Contract struct {
	PlayerID     *int            `json:"player_id,omitempty"`
	PlayerName   string          `json:"player_name"`
	TeamAbbrev   string          `json:"team_abbrev"`
	Season       string          `json:"season,omitempty"`
	ContractType string          `json:"contract_type,omitempty"`
	StartSeason  string          `json:"start_season,omitempty"`
	EndSeason    string          `json:"end_season,omitempty"`
	TotalYears   int             `json:"total_years"`
	TotalValue   int64           `json:"total_value"`
	AAV          int64           `json:"aav"`
	CapHit       int64           `json:"cap_hit"`
	Salary       int64           `json:"salary"`
	ExpiryStatus string          `json:"expiry_status,omitempty"`
	HasNMC       bool            `json:"has_nmc"`
	HasNTC       bool            `json:"has_ntc"`
	Source       string          `json:"source"`
	ScrapedAt    time.Time       `json:"scraped_at"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}

func (c Contract) Validate() error {
	if strings.TrimSpace(c.PlayerName) == "" {
		return fmt.Errorf("contract: missing player name")
	}
	if c.TotalYears < 0 || c.CapHit < 0 || c.Salary < 0 || c.AAV < 0 || c.TotalValue < 0 {
		return fmt.Errorf("contract %s: negative amount", c.PlayerName)
	}
	switch c.ExpiryStatus {
	case "", ExpiryUFA, ExpiryRFA, Expiry102C:
	default:
		return fmt.Errorf("contract %s: unknown expiry status %q", c.PlayerName, c.ExpiryStatus)
	}
	return nil
}

// HasTradeProtection reports whether either clause restricts a trade.
func (c Contract) HasTradeProtection() bool { return c.HasNMC || c.HasNTC }

// YearsRemaining counts seasons left including the current one. It uses the
// end season when known and falls back to the contract length.
func (c Contract) YearsRemaining(now time.Time) int {
	end, ok := seasonEndYear(c.EndSeason)
	if !ok {
		return c.TotalYears
	}
	remaining := end - SeasonStartYear(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// seasonEndYear reads the year a season finishes in from "2027-28",
// "20272028" or "2028".
func seasonEndYear(season string) (int, bool) {
	season = strings.TrimSpace(season)
	switch {
	case len(season) == 8:
		y, err := strconv.Atoi(season[4:])
		return y, err == nil
	case len(season) == 7 && season[4] == '-':
		start, err := strconv.Atoi(season[:4])
		if err != nil {
			return 0, false
		}
		return start + 1, true
	case len(season) == 4:
		y, err := strconv.Atoi(season)
		return y, err == nil
	default:
		return 0, false
	}
}
