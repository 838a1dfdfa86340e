package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

const defaultSeedPhraseEnv = "LOLCOIN_SEED_PHRASE"

var errTransferNotCompleted = errors.New("transfer not completed")

var transferCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "transfer",
	Short: "Send LOLcoins to one account.",
	Long: "Send LOLcoins to one account through the same validation and notifications as the dashboard.\n" +
		"The sender seed phrase is read from an environment variable, never from a flag.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")
		seedEnv, _ := cmd.Flags().GetString("seed-phrase-env")
		wait, _ := cmd.Flags().GetDuration("wait")

		a, err := buildApp(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			_ = a.controller.Run(ctx)
		}()

		readyCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		if err := a.controller.WaitReady(readyCtx); err != nil {
			return fmt.Errorf("ledger did not load: %w", err)
		}

		if err := a.controller.OpenTransfer(ctx, to); err != nil {
			return err
		}
		if err := a.controller.UpdateTransfer(ctx, entity.FieldTransferAmount, amount); err != nil &&
			!errors.Is(err, entity.ErrInvalidAmount) {
			return err
		}
		if err := a.controller.UpdateTransfer(ctx, entity.FieldSenderSeedPhrase, os.Getenv(seedEnv)); err != nil {
			return err
		}

		settled, err := a.controller.SubmitTransfer(ctx)
		var verrs entity.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", v.Field, v.Message)
			}
			return err
		}
		if err != nil {
			return err
		}

		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}

		recent := a.feed.Recent(ctx, 1)
		if len(recent) == 0 {
			return errTransferNotCompleted
		}
		outcome := recent[0]
		fmt.Fprintf(out, "%s\n%s\n", outcome.Summary, strings.TrimSpace(outcome.Detail))
		if outcome.Link != nil {
			fmt.Fprintf(out, "%s: %s\n", outcome.Link.Label, outcome.Link.URL)
		}
		if outcome.Severity == entity.SeverityError {
			return errTransferNotCompleted
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits
	transferCmd.Flags().String("to", "", "receiver row key: ledger id, or account id when the row has none")
	transferCmd.Flags().String("amount", "", "amount in LOL, e.g. 5 or 2.50")
	transferCmd.Flags().String("seed-phrase-env", defaultSeedPhraseEnv, "environment variable holding the sender seed phrase")
	transferCmd.Flags().Duration("wait", 30*time.Second, "how long to wait for the first ledger poll")
	_ = transferCmd.MarkFlagRequired("to")
	_ = transferCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(transferCmd)
}
