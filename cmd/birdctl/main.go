// Command birdctl inspects a bird hunt record log from the terminal and can
// drive a running server with simulated sightings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/birdhunt/internal/adapters/repository"
	service "github.com/okian/birdhunt/internal/app"
	"github.com/okian/birdhunt/internal/config"
	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/weekclock"
	"github.com/okian/birdhunt/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("error: ")+err.Error())
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "birdctl",
		Short:         "Inspect bird hunt standings from the record log.",
		Long:          "birdctl reads the configured record store directly (BIRDHUNT_* environment, optional BIRDHUNT_CONFIG file) and prints standings, player summaries and the species catalog.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().Bool("verbose", false, "Log to stderr at debug level")

	root.AddCommand(newLeaderboardCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newMedalsCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newSimulateCmd())
	return root
}

// cmdLogger returns a stderr logger when --verbose is set and a no-op otherwise.
func cmdLogger(cmd *cobra.Command) logger.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return logger.Nop()
	}
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return logger.Nop()
	}
	_ = logger.SetLevelString("debug")
	return logger.Get()
}

// openService builds a service over the configured store without starting
// the notification workers. Callers must Stop it.
func openService(cmd *cobra.Command) (*service.Service, error) {
	ctx := cmd.Context()
	log := cmdLogger(cmd)

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Default(catalog.WithPointOverrides(cfg.SpeciesPoints), catalog.WithLogger(log))
	if err != nil {
		return nil, err
	}
	store, err := repository.Open(ctx, cfg, repository.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	svc, err := service.New(store,
		service.WithLogger(log),
		service.WithCatalog(cat),
		service.WithClock(weekclock.New(weekclock.WithLocation(loc))),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return svc, nil
}

func closeService(cmd *cobra.Command, svc *service.Service) {
	_ = svc.Stop(context.WithoutCancel(cmd.Context()))
}
