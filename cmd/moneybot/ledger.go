package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moneybot/internal/analytics"
	"moneybot/internal/cli"
	"moneybot/internal/config"
	"moneybot/internal/core"
	"moneybot/internal/report"
)

// ledgerFlags are shared by the offline commands.
type ledgerFlags struct {
	file string
	date string
}

func (f *ledgerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "CSV ledger to read (default: demo ledger)")
	cmd.Flags().StringVar(&f.date, "date", "", "reference date YYYY-MM-DD (default: today)")
}

func (f *ledgerFlags) load() ([]core.Transaction, core.Date, error) {
	ref := core.Today()
	if f.date != "" {
		d, err := core.ParseDate(f.date)
		if err != nil {
			return nil, core.Date{}, err
		}
		ref = d
	}
	txs, err := cli.LoadLedger(f.file, config.MockUserID)
	if err != nil {
		return nil, core.Date{}, err
	}
	return txs, ref, nil
}

func newAskCmd(a *app) *cobra.Command {
	var lf ledgerFlags
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about a ledger",
		Example: `  moneybot ask "What is my balance?"
  moneybot ask --file ledger.csv --date 2023-12-10 "spent this month"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, ref, err := lf.load()
			if err != nil {
				return err
			}
			answer, err := analytics.AnswerQuery(strings.Join(args, " "), txs, ref)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	lf.register(cmd)
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var lf ledgerFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the ledger summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, ref, err := lf.load()
			if err != nil {
				return err
			}
			s, err := analytics.Summarize(txs, ref)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reference date:      %s\n", s.ReferenceDate)
			fmt.Fprintf(out, "Transactions:        %d\n", s.TransactionCount)
			fmt.Fprintf(out, "Balance:             %s\n", s.Balance)
			fmt.Fprintf(out, "Total credited:      %s\n", s.TotalCredited)
			fmt.Fprintf(out, "Total debited:       %s\n", s.TotalDebited)
			fmt.Fprintf(out, "Credited this month: %s\n", s.CreditedThisMonth)
			fmt.Fprintf(out, "Debited this month:  %s\n", s.DebitedThisMonth)
			if len(s.Categories) > 0 {
				fmt.Fprintln(out, "Spending by category:")
				for _, c := range s.Categories {
					fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Amount)
				}
			}
			return nil
		},
	}
	lf.register(cmd)
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		lf  ledgerFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the ledger report as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, ref, err := lf.load()
			if err != nil {
				return err
			}
			s, err := analytics.Summarize(txs, ref)
			if err != nil {
				return err
			}
			rep := analytics.Rows(s, txs)

			if out == "" {
				return report.WriteCSV(cmd.OutOrStdout(), rep)
			}
			if out == "." {
				out = report.Filename(time.Now(), report.FormatCSV)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteCSV(f, rep); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout (\".\" picks a timestamped name)")
	return cmd
}
