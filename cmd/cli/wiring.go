package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"summerschool.lol/lolcoin/internal/application/usecase"
	"summerschool.lol/lolcoin/internal/infrastructure/client"
	"summerschool.lol/lolcoin/internal/infrastructure/config"
	"summerschool.lol/lolcoin/internal/infrastructure/logger"
	"summerschool.lol/lolcoin/internal/infrastructure/metrics"
	"summerschool.lol/lolcoin/internal/infrastructure/repository"
)

const serverDir = "server"

// app is the wired object graph shared by the commands
type app struct {
	cfg        *config.Config
	logger     logger.Logger
	recorder   *metrics.Recorder
	feed       *repository.InMemoryNotificationFeed
	poller     *usecase.LedgerPoller
	workflow   *usecase.TransferWorkflow
	formatter  usecase.BalanceFormatter
	controller *usecase.DashboardController
}

func resolveConfigDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("config-dir"); dir != "" {
		return dir
	}

	// Get config directory (relative to where the binary is run from)
	configDir := filepath.Join("cmd", "config", serverDir)
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		configDir = filepath.Join(".", "config", serverDir)
	}
	return configDir
}

// buildApp loads config and wires every component. Logs go to logOut, or
// stdout when logOut is nil.
func buildApp(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(resolveConfigDir(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.NewLogger(cfg.Log.Level)
	if logOut != nil {
		appLogger = logger.NewLoggerTo(logOut, cfg.Log.Level)
	}
	appLogger.LogInfo(context.TODO(), "Configuration loaded",
		"port", cfg.Server.Port,
		"ledger_url", cfg.Ledger.URL,
		"transfer_url", cfg.Transfer.URL,
		"poll_interval", cfg.Ledger.PollInterval.String())

	formatter, err := usecase.NewBalanceFormatter(cfg.Display.Locale, cfg.Display.Currency)
	if err != nil {
		return nil, err
	}

	// Initialize infrastructure adapters
	recorder := metrics.NewRecorder()
	feed := repository.NewInMemoryNotificationFeed(repository.DefaultNotificationCapacity, appLogger)
	ledgerSource := client.NewLedgerSource(
		cfg.Ledger.URL,
		cfg.Ledger.Timeout,
		client.NewBreaker("ledger", cfg.Breaker.ConsecutiveFailures, cfg.Breaker.OpenTimeout, appLogger),
	)
	transferGateway := client.NewTransferGateway(
		cfg.Transfer.URL,
		cfg.Transfer.Timeout,
		client.NewBreaker("transfer", cfg.Breaker.ConsecutiveFailures, cfg.Breaker.OpenTimeout, appLogger),
		appLogger,
	)

	// Initialize use cases
	poller := usecase.NewLedgerPoller(ledgerSource, cfg.Ledger.PollInterval, appLogger, recorder)
	workflow := usecase.NewTransferWorkflow(transferGateway, feed, appLogger, recorder, cfg.Transfer.ExplorerURL)

	return &app{
		cfg:        cfg,
		logger:     appLogger,
		recorder:   recorder,
		feed:       feed,
		poller:     poller,
		workflow:   workflow,
		formatter:  formatter,
		controller: usecase.NewDashboardController(poller, workflow, formatter),
	}, nil
}
