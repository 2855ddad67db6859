package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/spf13/cobra"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_package"
)

func loadPackagesCmd() *cobra.Command {
	var (
		spannerDB string
		file      string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "load-packages",
		Short: "Validate a JSON package export and upsert it into the packages table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			packages, err := readPackages(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "%d packages valid, nothing written (dry run)\n", len(packages))
				return nil
			}
			if spannerDB == "" {
				return fmt.Errorf("--spanner-database is required")
			}

			ctx := cmd.Context()
			client, err := spanner.NewClient(ctx, spannerDB)
			if err != nil {
				return fmt.Errorf("failed to create Spanner client: %w", err)
			}
			defer client.Close()

			model := m_package.NewModel()
			now := time.Now().UTC()
			muts := make([]*spanner.Mutation, 0, len(packages))
			for _, pkg := range packages {
				data, err := m_package.FromDomain(pkg, now)
				if err != nil {
					return err
				}
				muts = append(muts, model.UpsertMut(data))
			}
			if _, err := client.Apply(ctx, muts); err != nil {
				return fmt.Errorf("failed to write packages: %w", err)
			}

			fmt.Fprintf(out, "Loaded %d packages\n", len(packages))
			return nil
		},
	}

	cmd.Flags().StringVar(&spannerDB, "spanner-database", getEnvOrDefault("SPANNER_DATABASE", ""), "Spanner database (projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	cmd.Flags().StringVar(&file, "file", "", "JSON file holding an array of packages")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate only")

	return cmd
}

// readPackages decodes and validates every package in the file. Any invalid package
// rejects the whole file.
func readPackages(path string) ([]*domain.Package, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var packages []*domain.Package
	if err := json.Unmarshal(raw, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	seen := make(map[string]bool, len(packages))
	for i, pkg := range packages {
		if pkg.ID == "" {
			return nil, fmt.Errorf("package #%d has no id", i+1)
		}
		if seen[pkg.ID] {
			return nil, fmt.Errorf("package %s appears twice", pkg.ID)
		}
		seen[pkg.ID] = true
		if err := pkg.Validate(); err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.ID, err)
		}
	}
	return packages, nil
}
