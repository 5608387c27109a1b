// mintleaf is a terminal client for a personal finance tracker service. It
// manages two parallel transaction ledgers (income and expense) and their
// user-defined categories, always treating the remote store as the source
// of truth.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mintleaf-fin/mintleaf/internal/cli"
	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "mintleaf",
		Short: "🌿 Terminal client for your personal finance tracker",
		Long: `mintleaf keeps your income and expense ledgers in sync with the remote
finance tracker: list, add, and delete transactions, manage categories, and
export spreadsheets, with the server as the single source of truth.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/mintleaf/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(ledgerCmd(model.LedgerIncome))
	rootCmd.AddCommand(ledgerCmd(model.LedgerExpense))
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		if !surfaced(err) {
			fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("✗ "+err.Error()))
		}
		os.Exit(1)
	}
}

// surfaced reports whether the stores already showed err to the user via
// the notifier, so main does not print it a second time.
func surfaced(err error) bool {
	var userErr *common.UserError
	var validationErr *common.ValidationError
	var remoteErr *common.RemoteError
	return errors.As(err, &userErr) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &remoteErr) ||
		errors.Is(err, common.ErrUnreachable)
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/mintleaf", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MINTLEAF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	common.SetupLogger(common.ParseLevel(viper.GetString("logging.level")), viper.GetString("logging.format"))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mintleaf version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("mintleaf %s\n", version)
		},
	}
}
