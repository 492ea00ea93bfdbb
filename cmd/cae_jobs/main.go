// Command cae_jobs runs the periodic maintenance work of the carbon accounting engine.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/platform/app"
	"github.com/SscSPs/carbon_accounting_app/internal/platform/config"
	"github.com/SscSPs/carbon_accounting_app/pkg/database"
	"github.com/spf13/cobra"
)

// bootstrapFunc returns the wired engines and a function releasing them.
type bootstrapFunc func(ctx context.Context) (*portssvc.ServiceContainer, func(), error)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(logger, func(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return a.Services, a.Close, nil
	})

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, bootstrap bootstrapFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cae_jobs",
		Short:         "Carbon accounting maintenance jobs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(
		newReconcileOffsetsCmd(logger, bootstrap),
		newRefreshGoalsCmd(logger, bootstrap),
		newMigrateCmd(logger),
	)
	return cmd
}

func newReconcileOffsetsCmd(logger *slog.Logger, bootstrap bootstrapFunc) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "reconcile-offsets",
		Short: "Apply purchased offsets whose usage update did not complete",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be > 0, got %d", limit)
			}
			svc, release, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			settled, err := svc.Tracking.ReconcilePendingOffsets(cmd.Context(), limit)
			if err != nil {
				logger.Error("Offset reconciliation failed", slog.String("error", err.Error()))
				return err
			}
			logger.Info("Offset reconciliation finished", slog.Int("settled", settled))
			cmd.Printf("settled %d pending offset(s)\n", settled)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of pending offsets to process")
	return cmd
}

func newRefreshGoalsCmd(logger *slog.Logger, bootstrap bootstrapFunc) *cobra.Command {
	var organizationID string
	cmd := &cobra.Command{
		Use:   "refresh-goals",
		Short: "Recompute progress of every active goal of an organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, release, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			results, err := svc.Goals.RefreshActiveGoals(cmd.Context(), organizationID)
			if err != nil {
				logger.Error("Goal refresh failed",
					slog.String("organization_id", organizationID), slog.String("error", err.Error()))
				return err
			}
			achieved := 0
			for _, p := range results {
				if p.IsAchieved {
					achieved++
				}
			}
			logger.Info("Goal refresh finished",
				slog.String("organization_id", organizationID),
				slog.Int("refreshed", len(results)),
				slog.Int("achieved", achieved))
			cmd.Printf("refreshed %d goal(s), %d achieved\n", len(results), achieved)
			return nil
		},
	}
	cmd.Flags().StringVar(&organizationID, "organization", "", "organization whose goals are refreshed")
	_ = cmd.MarkFlagRequired("organization")
	return cmd
}

func newMigrateCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath)
		},
	}
}
