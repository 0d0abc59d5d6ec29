package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/db"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "cat"},
	Short:   "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return errors.New("category name is required")
		}
		c, err := s.CreateCategory(ctx, name)
		if errors.Is(err, db.ErrDuplicateCategory) {
			return fmt.Errorf("category %q already exists", name)
		}
		if err != nil {
			return err
		}
		success("Created category %s", c.Name)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories and how many items each has",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, b, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		snap := s.Snapshot()
		if len(snap.Categories) == 0 {
			warn("no categories yet, try `shoppingify seed`")
			return nil
		}
		counts := make(map[string]int, len(snap.Categories))
		for _, it := range snap.Items {
			counts[it.CategoryID]++
		}
		table := uitable.New()
		table.MaxColWidth = 40
		if showIDs {
			table.AddRow("ID", "CATEGORY", "ITEMS")
		} else {
			table.AddRow("CATEGORY", "ITEMS")
		}
		for _, c := range snap.Categories {
			if showIDs {
				table.AddRow(c.ID, c.Name, counts[c.ID])
			} else {
				table.AddRow(c.Name, counts[c.ID])
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd)
}
