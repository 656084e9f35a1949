package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
	"truck-status-service/internal/adapters/cache"
	"truck-status-service/internal/adapters/repositories"
	"truck-status-service/internal/app"
	"truck-status-service/internal/config"
	"truck-status-service/internal/platform/db"
	"truck-status-service/internal/ports"
	"truck-status-service/internal/services"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Maintenance tasks for the truck status service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCmd(),
		newSeedCmd(),
		newSweepCmd(),
		newClassifyCmd(),
	)
	return root
}

func openDB(ctx context.Context) (*sql.DB, error) {
	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return db.Open(ctx, databaseURL)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			log.Println("Initializing database schema...")
			if err := repositories.InitSchema(conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			log.Println("Schema ready.")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load trucks and schedules from a JSON seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}

			log.Printf("Seeding database from %s...", seedPath)
			if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			log.Println("Seeding complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "file", config.Get("SEED_PATH", "data/seeds/trucks.json"), "seed file path")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired and unreadable entries from the configured truck cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			deps, err := app.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			removed, err := cache.NewTruckCache(deps.Store, ports.SystemClock).SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", removed)
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	var (
		date      string
		lookahead int
		tz        string
		at        string
	)

	cmd := &cobra.Command{
		Use:   "classify START END",
		Short: "Print the status of a HH:MM-HH:MM schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock := ports.SystemClock
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				clock = ports.ClockFunc(func() time.Time { return ts })
			}

			if date == "" {
				now, err := services.LocalizedNow(clock.Now(), tz)
				if err != nil {
					return err
				}
				date = now.Format("2006-01-02")
			}

			status, err := services.Classify(args[0], args[1], date, lookahead, tz, clock)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "schedule date YYYY-MM-DD (default: today in --tz)")
	cmd.Flags().IntVar(&lookahead, "lookahead", 30, "closing-soon window in minutes")
	cmd.Flags().StringVar(&tz, "tz", config.Get("DEFAULT_TIMEZONE", "UTC"), "IANA timezone of the truck")
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this RFC3339 instant instead of now")
	return cmd
}
