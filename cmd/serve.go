package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/api"
	"github.com/ramanasai/shoppingify/internal/auth"
	"github.com/ramanasai/shoppingify/internal/config"
	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/service"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves the JSON API used by the online account mode.

Set session.secret (or SHOPPINGIFY_SESSION_SECRET) so tokens survive restarts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfg.DatabasePath()
		if err != nil {
			return err
		}
		dbh, err := db.Open(path)
		if err != nil {
			return err
		}
		defer dbh.Close()

		dir, err := config.DataDir()
		if err != nil {
			return err
		}
		salt, err := auth.LoadOrCreateSalt(filepath.Join(dir, "session.salt"))
		if err != nil {
			return err
		}
		secret := strings.TrimSpace(cfg.Session.Secret)
		if secret == "" {
			if secret, err = auth.RandomSecret(); err != nil {
				return err
			}
			logger.Warn("session.secret is not set; tokens will not survive a restart")
		}
		sealer, err := auth.NewSealer(secret, salt)
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		logger.Info("starting server", zap.String("database", path), zap.Duration("session_ttl", cfg.Session.TTL))
		srv := api.NewServer(service.New(dbh, logger), auth.NewProvider(dbh, sealer, cfg.Session.TTL, logger), logger)
		return srv.Run(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
}
