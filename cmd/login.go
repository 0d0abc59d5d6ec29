package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to a shoppingify server",
	Long: `Saves a session token for the online account mode.

Use it with --account online or account.mode: online in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := apiBase()
		res, err := api.NewClient(base, "", nil).Login(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := saveLogin(base, res); err != nil {
			return err
		}
		success("Logged in as %s at %s", res.User.Email, base)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&serverURL, "server", "", "Server URL (default api.base_url)")
}
