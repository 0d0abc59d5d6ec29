package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/config"
	"github.com/ramanasai/shoppingify/internal/logging"
	"github.com/ramanasai/shoppingify/internal/version"
)

var (
	cfgFile     string
	accountMode string
	format      string
	noColor     bool
	showIDs     bool
	verbose     bool
)

// set up by PersistentPreRunE for every command
var (
	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "shoppingify",
	Short:         "Shopping lists, catalog and history from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the CLI; SIGINT and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// main sets the build metadata after package vars are initialised
	rootCmd.Version = version.Short()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		errColor.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func setup() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if accountMode != "" {
		mode := strings.ToLower(strings.TrimSpace(accountMode))
		switch mode {
		case config.AccountLocal, config.AccountOnline, config.AccountOffline:
			cfg.Account.Mode = mode
		default:
			return fmt.Errorf("unknown --account %q (want local|online|offline)", accountMode)
		}
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if noColor {
		color.NoColor = true
	}
	logger, err = logging.New(cfg.Log)
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ~/.config/shoppingify/config.yaml)")
	pf.StringVar(&accountMode, "account", "", "Account mode: local, online or offline (overrides account.mode)")
	pf.StringVarP(&format, "format", "f", "default", "Output format: default, table, json, csv, compact, quiet")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&showIDs, "ids", false, "Show ids next to names")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(
		serveCmd, tuiCmd,
		signupCmd, loginCmd, logoutCmd, whoamiCmd,
		seedCmd, itemCmd, categoryCmd, listCmd,
		historyCmd, statsCmd, versionCmd,
	)
}
