package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramanasai/shoppingify/internal/model"
)

// CreateCategory adds a category for owner; names are unique per owner ignoring case.
func CreateCategory(ctx context.Context, q Querier, owner, name string) (model.Category, error) {
	now := time.Now().UTC()
	c := model.Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories(id, name, owner_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.OwnerID, formatTS(c.CreatedAt), formatTS(c.UpdatedAt))
	if isUniqueViolation(err) {
		return model.Category{}, ErrDuplicateCategory
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// ListCategories returns the owner's categories in creation order.
func ListCategories(ctx context.Context, q Querier, owner string) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM categories
		WHERE owner_id = ?
		ORDER BY created_at ASC, name ASC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []model.Category{}
	for rows.Next() {
		var c model.Category
		var created, updated string
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &created, &updated); err != nil {
			return nil, err
		}
		c.CreatedAt, c.UpdatedAt = parseTS(created), parseTS(updated)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func GetCategory(ctx context.Context, q Querier, owner, id string) (model.Category, error) {
	var c model.Category
	var created, updated string
	err := q.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM categories WHERE owner_id = ? AND id = ?
	`, owner, id).Scan(&c.ID, &c.Name, &c.OwnerID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	c.CreatedAt, c.UpdatedAt = parseTS(created), parseTS(updated)
	return c, nil
}

func CategoryByName(ctx context.Context, q Querier, owner, name string) (model.Category, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM categories WHERE owner_id = ? AND name = ? COLLATE NOCASE`,
		owner, strings.TrimSpace(name)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return GetCategory(ctx, q, owner, id)
}

// CreateItem inserts an item under one of the owner's categories.
func CreateItem(ctx context.Context, q Querier, owner string, in model.ItemInput) (model.Item, error) {
	cat, err := GetCategory(ctx, q, owner, in.CategoryID)
	if err != nil {
		return model.Item{}, fmt.Errorf("category %s: %w", in.CategoryID, err)
	}

	now := time.Now().UTC()
	it := model.Item{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Note),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		OwnerID:      owner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO items(id, name, description, image_url, category_id, owner_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.Name, nullIfEmpty(it.Description), nullIfEmpty(it.ImageURL), it.CategoryID, owner,
		formatTS(now), formatTS(now))
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

const itemColumns = `
	i.id, i.name, COALESCE(i.description, ''), COALESCE(i.image_url, ''),
	i.category_id, c.name, i.owner_id, i.created_at, i.updated_at`

// ListItems returns the owner's items ordered by category then creation,
// which is the order the catalog is shown in.
func ListItems(ctx context.Context, q Querier, owner string) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT`+itemColumns+`
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.owner_id = ?
		ORDER BY c.created_at ASC, c.name ASC, i.created_at ASC, i.name ASC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func GetItem(ctx context.Context, q Querier, owner, id string) (model.Item, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT`+itemColumns+`
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.owner_id = ? AND i.id = ?
	`, owner, id)
	if err != nil {
		return model.Item{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Item{}, err
		}
		return model.Item{}, ErrNotFound
	}
	return scanItem(rows)
}

func DeleteItem(ctx context.Context, q Querier, owner, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM items WHERE owner_id = ? AND id = ?`, owner, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(rows *sql.Rows) (model.Item, error) {
	var it model.Item
	var created, updated string
	if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL,
		&it.CategoryID, &it.CategoryName, &it.OwnerID, &created, &updated); err != nil {
		return model.Item{}, err
	}
	it.CreatedAt, it.UpdatedAt = parseTS(created), parseTS(updated)
	return it, nil
}

// LoadCatalog returns categories and items in display order.
func LoadCatalog(ctx context.Context, q Querier, owner string) (model.Catalog, error) {
	cats, err := ListCategories(ctx, q, owner)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("categories: %w", err)
	}
	items, err := ListItems(ctx, q, owner)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("items: %w", err)
	}
	return model.Catalog{Categories: cats, Items: items}, nil
}
