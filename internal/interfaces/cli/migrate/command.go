package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piprapay/ppgateway/internal/infrastructure/migration"
	"github.com/piprapay/ppgateway/internal/interfaces/cli/bootstrap"
)

var (
	flags bootstrap.Flags
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the billing schema: apply pending migrations, roll back, and show status.`,
	}

	cmd.PersistentFlags().StringVarP(&flags.Env, "env", "e", "", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running up migrations", "driver", env.Config.Database.Driver)

	strategy := migration.NewGooseStrategy(env.Config.Database.Driver, env.Log)
	if err := strategy.Migrate(cmd.Context(), env.DB); err != nil {
		env.Log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	env.Log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running down migrations", "steps", steps)

	strategy := migration.NewGooseStrategy(env.Config.Database.Driver, env.Log)
	if err := strategy.MigrateDown(cmd.Context(), env.DB, steps); err != nil {
		env.Log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	env.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	strategy := migration.NewGooseStrategy(env.Config.Database.Driver, env.Log)

	version, err := strategy.GetVersion(cmd.Context(), env.DB)
	if err != nil {
		env.Log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Driver:          %s\n", env.Config.Database.Driver)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(cmd.Context(), env.DB); err != nil {
		env.Log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}
