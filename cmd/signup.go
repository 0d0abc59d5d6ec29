package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/api"
	"github.com/ramanasai/shoppingify/internal/auth"
)

var (
	serverURL  string
	signupName string
)

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account on a shoppingify server and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := apiBase()
		res, err := api.NewClient(base, "", nil).Signup(cmd.Context(), signupName, args[0])
		if err != nil {
			return err
		}
		if err := saveLogin(base, res); err != nil {
			return err
		}
		success("Signed up as %s; the default catalog is ready", res.User.Email)
		return nil
	},
}

func apiBase() string {
	if s := strings.TrimSpace(serverURL); s != "" {
		return s
	}
	return cfg.API.BaseURL
}

func saveLogin(base string, res api.AuthResponse) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	return auth.SaveCredentials(path, auth.Credentials{Token: res.Token, Email: res.User.Email, BaseURL: base})
}

func init() {
	signupCmd.Flags().StringVar(&serverURL, "server", "", "Server URL (default api.base_url)")
	signupCmd.Flags().StringVar(&signupName, "name", "", "Display name")
}
