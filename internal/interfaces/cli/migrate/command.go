package migrate

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tvmanager/internal/infrastructure/migration"
	"tvmanager/internal/infrastructure/repository"
	"tvmanager/internal/interfaces/cli/cliutil"
)

var (
	strategyName string
	steps        int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the SQLite schema: apply pending migrations, roll back and check status.`,
	}

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}

	cmd.Flags().StringVar(&strategyName, "strategy", migration.StrategyGoose, "Migration strategy (goose, gorm_auto_migrate)")

	return cmd
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	env, err := cliutil.Setup()
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running up migrations", "strategy", strategyName, "path", env.Config.Storage.Path)

	manager := migration.NewManager(strategyName, env.Log)
	if err := manager.Migrate(env.DB); err != nil {
		env.Log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied with %s\n", manager.GetStrategy().GetName())
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	env, err := cliutil.Setup()
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running down migrations", "steps", steps)

	if err := migration.NewGooseStrategy(env.Log).MigrateDown(env.DB, steps); err != nil {
		env.Log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := cliutil.Setup()
	if err != nil {
		return err
	}
	defer env.Close()

	strategy := migration.NewGooseStrategy(env.Log)

	version, err := strategy.GetVersion(env.DB)
	if err != nil {
		env.Log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Database:        %s\n", env.Config.Storage.Path)
	fmt.Fprintf(out, "  Current Version: %d\n\n", version)

	if err := strategy.Status(env.DB, out); err != nil {
		env.Log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	if version > 0 {
		return writeDocumentStatus(cmd.Context(), out, repository.NewClientBlobRepository(env.DB, env.Log))
	}
	return nil
}

// writeDocumentStatus reports the stored client document: how often it was
// written and how many of its records are unreadable.
func writeDocumentStatus(ctx context.Context, out io.Writer, repo *repository.ClientBlobRepository) error {
	writes, err := repo.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to read client document version: %w", err)
	}
	clients, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read client document: %w", err)
	}

	fmt.Fprintf(out, "\nClient Document:\n")
	fmt.Fprintf(out, "  Writes:          %d\n", writes)
	fmt.Fprintf(out, "  Clients:         %d\n", len(clients))
	fmt.Fprintf(out, "  Unreadable:      %d\n", repo.Unreadable())
	return nil
}
