// Command moneybot serves the MoneyBot API and answers ledger questions from
// the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moneybot/internal/cli"
	"moneybot/internal/config"
	"moneybot/internal/log"
)

var version = "0.1.0"

// app carries state initialised once by the root command.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:   "moneybot",
		Short: "MoneyBot - personal ledger analytics",
		Long: `MoneyBot keeps a ledger of credits and debits and answers
plain-language questions about it: balance, monthly totals, recent
transactions and spending by category.

Run 'moneybot serve' for the HTTP API or 'moneybot ask' to query a CSV
ledger offline.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
			a.cfg = config.Load()
			if logLevel != "" {
				a.cfg.LogLevel = logLevel
			}
			a.logger = cli.SetupLogger(a.cfg)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newWorkerCmd(a))
	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newAskCmd(a))
	root.AddCommand(newSummaryCmd(a))
	root.AddCommand(newReportCmd(a))
	return root
}

// validated checks the loaded configuration for commands that talk to
// backends.
func (a *app) validated() error {
	if err := a.cfg.Validate(); err != nil {
		a.logger.Error("Configuration validation failed", log.FieldError, err)
		return err
	}
	return nil
}
