package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"summerschool.lol/lolcoin/internal/application/usecase"
	"summerschool.lol/lolcoin/internal/infrastructure/export"
)

var ledgerCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "ledger",
	Short: "Fetch the ledger once and print it.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		snapshot, err := a.poller.Fetch(ctx)
		if err != nil {
			a.logger.LogError(ctx, "Failed to fetch ledger", err)
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		grade, _ := cmd.Flags().GetString("grade")
		rows := usecase.ProjectRows(snapshot, a.formatter, usecase.RowFilter{
			FullName:    name,
			SchoolGrade: grade,
		})

		if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
			return export.CSV(cmd.OutOrStdout(), rows)
		}
		return export.Table(cmd.OutOrStdout(), rows)
	},
}

func init() { //nolint:gochecknoinits
	ledgerCmd.Flags().Bool("csv", false, "print CSV instead of a table")
	ledgerCmd.Flags().String("name", "", "only rows whose name contains this text")
	ledgerCmd.Flags().String("grade", "", "only rows whose school grade contains this text")
	rootCmd.AddCommand(ledgerCmd)
}
