package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/config"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the commands act as",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold.Sprint("mode"), cfg.Account.Mode)

		switch cfg.Account.Mode {
		case config.AccountOnline:
			client, creds, err := onlineClient()
			if err != nil {
				return err
			}
			sess, err := client.Session(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				return errNotLoggedIn
			}
			tbl.AddRow(bold.Sprint("user"), sess.UserID)
			tbl.AddRow(bold.Sprint("email"), creds.Email)
			tbl.AddRow(bold.Sprint("token from"), creds.Source)
		default:
			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()
			tbl.AddRow(bold.Sprint("user"), b.label)
		}
		fmt.Fprintln(color.Output, tbl)
		return nil
	},
}
