package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ramanasai/shoppingify/internal/model"
)

// SeedCategory is a default category and the item names filed under it.
type SeedCategory struct {
	Name  string
	Items []string
}

// DefaultCatalog is the starter catalog given to new accounts.
var DefaultCatalog = []SeedCategory{
	{Name: "Food and Vegetables", Items: []string{"Avocado", "Banana", "Bunch of Carrots", "Watermelon", "Pepper"}},
	{Name: "Meat and Fish", Items: []string{"Chicken 1kg", "Salmon", "Beef 1kg"}},
	{Name: "Beverages", Items: []string{"Lucozade boost can pack", "Cocacola drink pack"}},
}

// SeedResult counts what SeedDefaults inserted.
type SeedResult struct {
	Categories int
	Items      int
}

// SeedDefaults adds DefaultCatalog for owner inside one transaction.
// Existing categories and items (matched by name) are left alone, so it is safe to re-run.
func SeedDefaults(ctx context.Context, dbh *sql.DB, owner string) (SeedResult, error) {
	var res SeedResult
	err := WithTx(ctx, dbh, func(tx *sql.Tx) error {
		for _, sc := range DefaultCatalog {
			cat, err := CategoryByName(ctx, tx, owner, sc.Name)
			if errors.Is(err, ErrNotFound) {
				cat, err = CreateCategory(ctx, tx, owner, sc.Name)
				res.Categories++
			}
			if err != nil {
				return err
			}
			for _, name := range sc.Items {
				var n int
				if err := tx.QueryRowContext(ctx,
					`SELECT COUNT(*) FROM items WHERE owner_id = ? AND category_id = ? AND name = ? COLLATE NOCASE`,
					owner, cat.ID, name).Scan(&n); err != nil {
					return err
				}
				if n > 0 {
					continue
				}
				if _, err := CreateItem(ctx, tx, owner, model.ItemInput{Name: name, CategoryID: cat.ID}); err != nil {
					return err
				}
				res.Items++
			}
		}
		return nil
	})
	return res, err
}
