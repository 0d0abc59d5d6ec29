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

const listColumns = `id, name, owner_id, state, created_at, updated_at`

// ActiveList returns the owner's OPEN list, or nil when there is none.
func ActiveList(ctx context.Context, q Querier, owner string) (*model.ShoppingList, error) {
	l, err := scanList(q.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM shopping_lists WHERE owner_id = ? AND state = 'OPEN'`, owner))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if l.Items, err = loadEntries(ctx, q, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// GetList loads a list with its entries.
func GetList(ctx context.Context, q Querier, owner, id string) (*model.ShoppingList, error) {
	l, err := scanList(q.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM shopping_lists WHERE owner_id = ? AND id = ?`, owner, id))
	if err != nil {
		return nil, err
	}
	if l.Items, err = loadEntries(ctx, q, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// InsertList persists l as a new list. An empty ID gets a fresh one.
func InsertList(ctx context.Context, q Querier, l *model.ShoppingList) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if strings.TrimSpace(l.Name) == "" {
		l.Name = model.DefaultListName
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO shopping_lists(id, name, owner_id, state, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, l.ID, l.Name, l.OwnerID, string(l.State), formatTS(l.CreatedAt), formatTS(l.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return writeEntries(ctx, q, l.ID, l.Items)
}

// UpdateList overwrites name, state and timestamps and replaces the entries.
func UpdateList(ctx context.Context, q Querier, l *model.ShoppingList) error {
	res, err := q.ExecContext(ctx, `
		UPDATE shopping_lists SET name = ?, state = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, l.Name, string(l.State), formatTS(l.UpdatedAt), l.ID, l.OwnerID)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM list_entries WHERE list_id = ?`, l.ID); err != nil {
		return err
	}
	return writeEntries(ctx, q, l.ID, l.Items)
}

// ListHistory returns a page of the owner's lists, newest first, and the total count.
// A zero since disables the date filter.
func ListHistory(ctx context.Context, q Querier, owner string, limit, offset int, since time.Time) ([]model.ShoppingList, int, error) {
	where := `owner_id = ?`
	args := []any{owner}
	if !since.IsZero() {
		where += ` AND updated_at >= ?`
		args = append(args, formatTS(since))
	}

	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM shopping_lists WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+listColumns+` FROM shopping_lists
		WHERE `+where+`
		ORDER BY updated_at DESC, id ASC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	lists := []model.ShoppingList{}
	for rows.Next() {
		l, err := scanListRow(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		lists = append(lists, *l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// entries are loaded after the cursor closes; the pool has a single connection
	for i := range lists {
		if lists[i].Items, err = loadEntries(ctx, q, lists[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return lists, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row *sql.Row) (*model.ShoppingList, error) {
	l, err := scanListRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

func scanListRow(r rowScanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var state, created, updated string
	if err := r.Scan(&l.ID, &l.Name, &l.OwnerID, &state, &created, &updated); err != nil {
		return nil, err
	}
	l.State = model.ListState(state)
	l.CreatedAt, l.UpdatedAt = parseTS(created), parseTS(updated)
	l.Items = []model.ListEntry{}
	return &l, nil
}

func loadEntries(ctx context.Context, q Querier, listID string) ([]model.ListEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT item_id, name, category_id, category_name, quantity, checked
		FROM list_entries WHERE list_id = ?
		ORDER BY position ASC
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ListEntry{}
	for rows.Next() {
		var e model.ListEntry
		var checked int
		if err := rows.Scan(&e.ItemID, &e.Name, &e.CategoryID, &e.CategoryName, &e.Quantity, &checked); err != nil {
			return nil, err
		}
		e.Checked = checked != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func writeEntries(ctx context.Context, q Querier, listID string, entries []model.ListEntry) error {
	for pos, e := range entries {
		checked := 0
		if e.Checked {
			checked = 1
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO list_entries(list_id, position, item_id, name, category_id, category_name, quantity, checked)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		`, listID, pos, e.ItemID, e.Name, e.CategoryID, e.CategoryName, e.Quantity, checked)
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ItemID, err)
		}
	}
	return nil
}
