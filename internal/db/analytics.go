package db

import (
	"context"
	"fmt"
	"math"

	"github.com/ramanasai/shoppingify/internal/model"
)

// DefaultTopN is how many top items and categories LoadStats returns.
const DefaultTopN = 3

// LoadStats summarizes the owner's COMPLETED lists: the most bought items and
// categories (by total quantity) and the items bought per month.
func LoadStats(ctx context.Context, q Querier, owner string, topN int) (model.Stats, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	items, err := loadTop(ctx, q, owner, "e.name", topN)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to query top items: %w", err)
	}
	cats, err := loadTop(ctx, q, owner, "e.category_name", topN)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to query top categories: %w", err)
	}
	monthly, err := loadMonthly(ctx, q, owner)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	return model.Stats{TopItems: items, TopCategories: cats, Monthly: monthly}, nil
}

// column is a fixed expression chosen by LoadStats, never user input.
func loadTop(ctx context.Context, q Querier, owner, column string, limit int) ([]model.NamedCount, error) {
	var total int
	if err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(e.quantity), 0)
		FROM list_entries e
		JOIN shopping_lists l ON l.id = e.list_id
		WHERE l.owner_id = ? AND l.state = 'COMPLETED'
	`, owner).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+column+` AS label, SUM(e.quantity) AS qty
		FROM list_entries e
		JOIN shopping_lists l ON l.id = e.list_id
		WHERE l.owner_id = ? AND l.state = 'COMPLETED'
		GROUP BY label
		ORDER BY qty DESC, label ASC
		LIMIT ?
	`, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.NamedCount{}
	for rows.Next() {
		var nc model.NamedCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		if total > 0 {
			nc.Percent = math.Round(float64(nc.Count)*1000/float64(total)) / 10
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

func loadMonthly(ctx context.Context, q Querier, owner string) ([]model.MonthTotal, error) {
	// timestamps are RFC3339 text, so the first seven characters are the month
	rows, err := q.QueryContext(ctx, `
		SELECT SUBSTR(l.updated_at, 1, 7) AS month, SUM(e.quantity)
		FROM list_entries e
		JOIN shopping_lists l ON l.id = e.list_id
		WHERE l.owner_id = ? AND l.state = 'COMPLETED'
		GROUP BY month
		ORDER BY month ASC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MonthTotal{}
	for rows.Next() {
		var mt model.MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Items); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}
