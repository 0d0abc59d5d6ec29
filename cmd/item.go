package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/forms"
	"github.com/ramanasai/shoppingify/internal/model"
)

var (
	itemCategory string
	itemNote     string
	itemImage    string
)

var itemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"items"},
	Short:   "Manage catalog items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item to the catalog",
	Long: `Adds an item to the catalog. --category picks an existing category by
prefix; a name that matches nothing creates the category.`,
	Example: `  shoppingify item add "Oat milk" --category bev
  shoppingify item add Kiwi -c Fruit --note "ripe ones" --image https://example.com/kiwi.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		f := forms.ItemForm{
			Name:          strings.Join(args, " "),
			Note:          itemNote,
			ImageURL:      itemImage,
			CategoryQuery: itemCategory,
		}
		if strings.TrimSpace(itemCategory) != "" {
			cats := s.Categories()
			switch {
			case f.CanCreateCategory(cats):
				c, err := f.CreateCategory(ctx, s)
				if err != nil {
					return fmt.Errorf("creating category: %w", err)
				}
				success("Created category %s", c.Name)
			default:
				f.SelectCategory(pickCategory(f.FilterCategories(cats), itemCategory))
			}
		}

		it, err := f.Submit(ctx, s)
		if errors.Is(err, forms.ErrInvalid) {
			for _, field := range []string{forms.FieldName, forms.FieldImageURL, forms.FieldCategory} {
				if msg, ok := f.Errors[field]; ok {
					errColor.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
				}
			}
			return err
		}
		if err != nil {
			return err
		}
		success("Added %s to %s", it.Name, it.CategoryName)
		return nil
	},
}

// pickCategory prefers an exact name over the first prefix match.
func pickCategory(matches []model.Category, query string) model.Category {
	for _, c := range matches {
		if strings.EqualFold(c.Name, strings.TrimSpace(query)) {
			return c
		}
	}
	return matches[0]
}

var itemListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the catalog grouped by category",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, b, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()
		r, err := renderer()
		if err != nil {
			return err
		}
		snap := s.Snapshot()
		return printRendered(r.RenderCatalog(model.Catalog{Categories: snap.Categories, Items: snap.Items}))
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Show one item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()
		ref, err := findItem(s.Snapshot().Items, strings.Join(args, " "))
		if err != nil {
			return err
		}
		it, err := s.Item(ctx, ref.ID)
		if err != nil {
			return err
		}
		r, err := renderer()
		if err != nil {
			return err
		}
		return printRendered(r.RenderItem(it))
	},
}

var itemRmCmd = &cobra.Command{
	Use:     "rm <name|id>",
	Aliases: []string{"delete"},
	Short:   "Delete an item from the catalog",
	Long:    "Deletes a catalog item. Lists that already contain it keep their entry.",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()
		it, err := findItem(s.Snapshot().Items, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := s.DeleteItem(ctx, it.ID); err != nil {
			return err
		}
		success("Deleted %s", it.Name)
		return nil
	},
}

func init() {
	itemAddCmd.Flags().StringVarP(&itemCategory, "category", "c", "", "Category name or prefix (required)")
	itemAddCmd.Flags().StringVarP(&itemNote, "note", "n", "", "Optional note")
	itemAddCmd.Flags().StringVar(&itemImage, "image", "", "Optional image url (http or https)")

	itemCmd.AddCommand(itemAddCmd, itemListCmd, itemShowCmd, itemRmCmd)
}
