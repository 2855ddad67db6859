package main

import (
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/spf13/cobra"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/repo"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_outbox"
)

type retention struct {
	status string
	days   int
}

func cleanupOutboxCmd() *cobra.Command {
	var (
		spannerDB     string
		completedDays int
		failedDays    int
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup-outbox",
		Short: "Delete processed outbox events past their retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spannerDB == "" {
				return fmt.Errorf("--spanner-database (or SPANNER_DATABASE) is required")
			}
			ctx := cmd.Context()

			client, err := spanner.NewClient(ctx, spannerDB)
			if err != nil {
				return fmt.Errorf("failed to create Spanner client: %w", err)
			}
			defer client.Close()

			outbox := repo.NewOutboxRepo(client)
			now := time.Now().UTC()

			log.Printf("Starting outbox cleanup (dry run: %v)...", dryRun)

			var total int64
			for _, r := range []retention{
				{status: m_outbox.StatusCompleted, days: completedDays},
				{status: m_outbox.StatusFailed, days: failedDays},
			} {
				cutoff := now.AddDate(0, 0, -r.days)
				log.Printf("  %s events cutoff: %s (retention: %d days)", r.status, cutoff.Format(time.RFC3339), r.days)

				var n int64
				if dryRun {
					n, err = outbox.CountBefore(ctx, r.status, cutoff)
				} else {
					n, err = outbox.DeleteBefore(ctx, r.status, cutoff)
				}
				if err != nil {
					return err
				}

				if dryRun {
					log.Printf("  Would delete %d %s events", n, r.status)
				} else {
					log.Printf("  Deleted %d %s events", n, r.status)
				}
				total += n
			}

			if dryRun {
				log.Printf("DRY RUN: Would delete %d total events", total)
				return nil
			}
			log.Printf("Cleanup completed: deleted %d events", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&spannerDB, "spanner-database", getEnvOrDefault("SPANNER_DATABASE", ""), "Spanner database (projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	cmd.Flags().IntVar(&completedDays, "completed-retention", 30, "Retention days for completed events")
	cmd.Flags().IntVar(&failedDays, "failed-retention", 90, "Retention days for failed events")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting")

	return cmd
}
