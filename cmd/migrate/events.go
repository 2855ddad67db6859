package main

import (
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/spf13/cobra"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/repo"
)

func outboxEventsCmd() *cobra.Command {
	var (
		spannerDB string
		quoteID   string
		limit     int64
	)

	cmd := &cobra.Command{
		Use:   "outbox-events",
		Short: "Print the outbox events recorded for a quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spannerDB == "" || quoteID == "" {
				return fmt.Errorf("--spanner-database and --quote are required")
			}
			ctx := cmd.Context()

			client, err := spanner.NewClient(ctx, spannerDB)
			if err != nil {
				return fmt.Errorf("failed to create Spanner client: %w", err)
			}
			defer client.Close()

			events, err := repo.NewOutboxRepo(client).ListByAggregate(ctx, quoteID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintf(out, "No events recorded for quote %s\n", quoteID)
				return nil
			}
			for i, e := range events {
				fmt.Fprintf(out, "%d. %s - %s (status: %s)\n   %s\n", i+1, e.EventType, e.EventID, e.Status, e.Payload)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&spannerDB, "spanner-database", getEnvOrDefault("SPANNER_DATABASE", ""), "Spanner database (projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	cmd.Flags().StringVar(&quoteID, "quote", "", "Quote ID")
	cmd.Flags().Int64Var(&limit, "limit", 50, "Maximum number of events to print")

	return cmd
}
