package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type target struct {
	projectID  string
	instanceID string
	databaseID string
}

func (t target) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.projectID, t.instanceID)
}

func (t target) databaseName() string {
	return fmt.Sprintf("%s/databases/%s", t.instanceName(), t.databaseID)
}

func upCmd() *cobra.Command {
	var t target
	var migrateDir string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create the instance and database if needed and apply every migration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST"); emulatorHost != "" {
				log.Printf("Using Spanner emulator at %s", emulatorHost)
			}

			if err := ensureInstance(ctx, t); err != nil {
				return fmt.Errorf("failed to ensure instance: %w", err)
			}
			if err := ensureDatabase(ctx, t); err != nil {
				return fmt.Errorf("failed to ensure database: %w", err)
			}
			if err := applyMigrations(ctx, t, migrateDir); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			log.Println("Migrations completed successfully!")
			return nil
		},
	}

	cmd.Flags().StringVar(&t.projectID, "project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	cmd.Flags().StringVar(&t.instanceID, "instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	cmd.Flags().StringVar(&t.databaseID, "database", getEnvOrDefault("SPANNER_DATABASE_ID", "quote-pricing-db"), "Spanner database ID")
	cmd.Flags().StringVar(&migrateDir, "migrations", "migrations", "Directory containing migration SQL files")

	return cmd
}

func ensureInstance(ctx context.Context, t target) error {
	log.Printf("Ensuring instance %s exists...", t.instanceID)

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: t.instanceName()})
	if err == nil {
		log.Println("Instance already exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		log.Printf("Warning: unexpected error checking instance: %v", err)
		return nil
	}

	log.Println("Creating instance...")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", t.projectID),
		InstanceId: t.instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", t.projectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create instance: %w", err)
		}
		log.Println("Instance already exists")
		return nil
	}

	// The emulator may complete the operation before Wait is called.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Printf("Warning during instance creation: %v", err)
	}

	log.Println("Instance created successfully")
	return nil
}

func ensureDatabase(ctx context.Context, t target) error {
	log.Printf("Ensuring database %s exists...", t.databaseID)

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: t.databaseName()})
	if err == nil {
		log.Println("Database already exists")
		return nil
	}

	if status.Code(err) == codes.NotFound {
		log.Println("Creating database...")
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          t.instanceName(),
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", t.databaseID),
		})
		if err != nil {
			if status.Code(err) != codes.AlreadyExists {
				return fmt.Errorf("failed to create database: %w", err)
			}
			log.Println("Database already exists")
			return nil
		}
		if _, err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to wait for database creation: %w", err)
		}
		log.Println("Database created successfully")
		return nil
	}

	if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
		log.Printf("Proceeding with database (emulator mode): %v", err)
		return nil
	}
	return fmt.Errorf("failed to check database: %w", err)
}

func applyMigrations(ctx context.Context, t target, migrateDir string) error {
	log.Printf("Applying migrations from %s...", migrateDir)

	files, err := filepath.Glob(filepath.Join(migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Println("No migration files found")
		return nil
	}
	sort.Strings(files)

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	for _, file := range files {
		migrationName := filepath.Base(file)
		log.Printf("Applying %s...", migrationName)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := splitDDLStatements(string(content))
		if len(statements) == 0 {
			continue
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   t.databaseName(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", migrationName, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", migrationName, err)
		}

		log.Printf("Successfully applied %s (%d statements)", migrationName, len(statements))
	}

	return nil
}

// splitDDLStatements drops comment lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
