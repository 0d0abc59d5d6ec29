package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/config"
	"github.com/ramanasai/shoppingify/internal/db"
)

// seeder is implemented by the backends that can add the default catalog themselves.
type seeder interface {
	Seed(ctx context.Context) (db.SeedResult, error)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the default categories and items to your catalog",
	Long: `Adds the starter catalog (fruit and vegetables, meat and fish, beverages).
Items that already exist by name are skipped, so it is safe to run twice.
Online accounts are seeded by the server at signup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Account.Mode == config.AccountOnline {
			return errors.New("online catalogs are seeded by the server when you sign up")
		}
		b, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		sd, ok := b.Backend.(seeder)
		if !ok {
			return errors.New("this account mode cannot be seeded")
		}
		res, err := sd.Seed(cmd.Context())
		if err != nil {
			return err
		}
		if res.Categories == 0 && res.Items == 0 {
			warn("catalog already has the default items")
			return nil
		}
		success("Added %d categories and %d items for %s", res.Categories, res.Items, b.label)
		return nil
	},
}
