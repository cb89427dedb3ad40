package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/birdhunt/internal/simulate"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		lifetime bool
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the current week's standings, or all-time with --lifetime.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(cmd, svc)

			fetch, title := svc.WeeklyLeaderboard, "Week "+svc.Clock().Current().String()
			if lifetime {
				fetch, title = svc.LifetimeLeaderboard, "All time"
			}
			entries, err := fetch(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleColor.Sprint(title))
			if len(entries) == 0 {
				fmt.Fprintln(out, "No sightings yet.")
				return nil
			}
			return printLeaderboard(out, entries)
		},
	}
	cmd.Flags().BoolVar(&lifetime, "lifetime", false, "Rank all-time points instead of this week")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum rows; 0 prints everyone")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats USER",
		Short: "Summarise one player's points, medals and collection.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(cmd, svc)

			st, err := svc.UserStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printUserStats(cmd.OutOrStdout(), st)
		},
	}
}

func newMedalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "medals",
		Short: "Print the podium of every closed week.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(cmd, svc)

			history, err := svc.MedalHistory(cmd.Context())
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No closed weeks yet.")
				return nil
			}
			return printMedalHistory(cmd.OutOrStdout(), history)
		},
	}
}

func newCatalogCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the species catalog, optionally fuzzy-filtered.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openService(cmd)
			if err != nil {
				return err
			}
			defer closeService(cmd, svc)

			species := svc.Catalog().Species()
			if q := strings.TrimSpace(query); q != "" {
				species = svc.Catalog().Search(q)
			}
			return printCatalog(cmd.OutOrStdout(), species)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Fuzzy filter on species name")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var cfg simulate.Config
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Submit random sightings to a running server and verify its totals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := simulate.New(cfg, simulate.WithLogger(cmdLogger(cmd)))
			if err != nil {
				return err
			}
			report, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := printReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("verification failed for %d players", len(report.Mismatches))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Server base URL")
	cmd.Flags().IntVar(&cfg.Players, "players", simulate.DefaultPlayers, "Distinct players")
	cmd.Flags().IntVar(&cfg.Sightings, "sightings", simulate.DefaultSightings, "Sightings to submit")
	cmd.Flags().IntVar(&cfg.Workers, "workers", simulate.DefaultWorkers, "Concurrent submitters")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.Flags().StringVar(&cfg.Prefix, "prefix", simulate.DefaultPrefix, "Player name prefix")
	cmd.Flags().StringSliceVar(&cfg.Birds, "birds", nil, "Species to pick from (default: server catalog)")
	return cmd
}
