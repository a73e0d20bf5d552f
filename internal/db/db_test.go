package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/nhl-ingest/internal/config"
)

func TestSchemaCoversEveryTable(t *testing.T) {
	schema := Schema()
	for _, table := range config.Tables {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, line := range strings.Split(Schema(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "CREATE ") {
			assert.Contains(t, line, "IF NOT EXISTS", line)
		}
	}
}

func TestSchemaNaturalKeys(t *testing.T) {
	schema := Schema()
	for _, key := range []string{
		"ON player_stats (player_id, season, source)",
		"ON contracts (player_name, team_abbrev)",
		"ON advanced_stats (player_id, season, situation)",
		"ON rosters (player_id, team_abbrev, season)",
		"ON advanced_stats (player_id, season)",
		"ON rosters (team_abbrev, season)",
	} {
		assert.Contains(t, schema, key)
	}
}

func TestCountStatement(t *testing.T) {
	assert.Equal(t, "count_players", CountStatement(config.PlayersTable))
}
