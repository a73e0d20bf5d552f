package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

// --------------------------------------------------------------------------
// show / standings commands (live, no database)
// --------------------------------------------------------------------------

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display live data from the NHL API",
	}
	cmd.AddCommand(showRosterCmd())
	cmd.AddCommand(showPlayerCmd())
	return cmd
}

func showRosterCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "roster TEAM",
		Short: "Display a team roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			team := strings.ToUpper(args[0])
			if !provider.IsTeamCode(team) {
				return &provider.UnknownEntityError{Kind: "team", Key: team}
			}
			return runLive(func(ctx context.Context, _ *config.Config, src *sources) error {
				roster, err := src.nhl.Roster(ctx, team, season)
				if err != nil {
					return err
				}
				renderRoster(os.Stdout, roster)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&season, "season", "s", "", "Season, e.g. 20242025 (default current)")
	return cmd
}

func showPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player ID",
		Short: "Display a player's profile and recent seasons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid player id %q", args[0])
			}
			return runLive(func(ctx context.Context, _ *config.Config, src *sources) error {
				detail, err := src.nhl.PlayerDetails(ctx, id)
				if err != nil {
					return err
				}
				renderPlayer(os.Stdout, detail)
				return nil
			})
		},
	}
}

func standingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show current standings by division",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(func(ctx context.Context, _ *config.Config, src *sources) error {
				standings, err := src.nhl.Standings(ctx)
				if err != nil {
					return err
				}
				renderStandings(os.Stdout, standings)
				return nil
			})
		},
	}
}
