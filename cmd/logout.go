package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/auth"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the server session and forget the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, creds, err := onlineClient()
		if errors.Is(err, errNotLoggedIn) {
			warn("not logged in")
			return nil
		}
		if err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil {
			// the local token is dropped either way
			logger.Warn("server logout failed", zap.Error(err))
		}
		if creds.Source == "env" {
			warn("%s is set in the environment; unset it to stay logged out", auth.TokenEnv)
			return nil
		}
		path, err := credentialsPath()
		if err != nil {
			return err
		}
		if err := auth.DeleteCredentials(path); err != nil {
			return err
		}
		success("Logged out")
		return nil
	},
}
