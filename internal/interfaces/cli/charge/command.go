// Package charge is the operator command that starts a hosted payment for an
// invoice and prints where to send the payer.
package charge

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piprapay/ppgateway/internal/application/payment/usecases"
	"github.com/piprapay/ppgateway/internal/interfaces/cli/bootstrap"
	httpServer "github.com/piprapay/ppgateway/internal/interfaces/http"
)

var flags bootstrap.Flags

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charge <invoice-id>",
		Short: "Create a hosted payment for an invoice",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	cmd.Flags().StringVarP(&flags.Env, "env", "e", "", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	invoiceID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || invoiceID == 0 {
		return fmt.Errorf("invalid invoice id %q", args[0])
	}

	env, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Config.Validate(); err != nil {
		return err
	}

	container, err := httpServer.NewContainer(env.Config, env.DB, env.Log)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	result, err := container.CreateChargeUseCase().Execute(cmd.Context(), usecases.CreateChargeCommand{InvoiceID: uint(invoiceID)})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.PaymentURL)
	return nil
}
