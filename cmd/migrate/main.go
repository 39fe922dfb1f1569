package main

// Apply or inspect audit_sessions migrations:
//   go run ./cmd/migrate up|down|status

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"exitlayer/internal/shared/config"
	"exitlayer/internal/shared/storage/db"
	"exitlayer/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.LogFormat)
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the ExitLayer database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, dir := range []db.Direction{db.Up, db.Down, db.Status} {
		root.AddCommand(directionCmd(cfg, dir))
	}
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err})
		os.Exit(1)
	}
}

func directionCmd(cfg config.Config, dir db.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir),
		Short: "Run goose " + string(dir),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.MigrateOptions().WithConfig(cfg))
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := db.Migrate(ctx, sqlDB, dir); err != nil {
				return err
			}
			version, err := db.SchemaVersion(ctx, sqlDB)
			if err != nil {
				return err
			}
			telemetry.Info("migrate.done", map[string]any{"direction": string(dir), "version": version})
			return nil
		},
	}
}
