package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/piprapay/ppgateway/internal/interfaces/cli/charge"
	"github.com/piprapay/ppgateway/internal/interfaces/cli/migrate"
	"github.com/piprapay/ppgateway/internal/interfaces/cli/server"
	"github.com/piprapay/ppgateway/internal/shared/version"
)

// @title PipraPay Gateway API
// @version 1.0
// @description Hosted PipraPay payments for billing invoices and the provider notification endpoint.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:     "ppgateway",
		Short:   "PipraPay payment gateway for the billing platform",
		Long:    `ppgateway creates PipraPay hosted payments for invoices and applies verified payments to client accounts.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		charge.NewCommand(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
