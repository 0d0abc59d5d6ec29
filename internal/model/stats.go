package model

import (
	"math"
	"sort"
)

// NamedCount is a name with how often it appeared and its share of the total.
type NamedCount struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MonthTotal is the number of items bought in one calendar month ("2006-01").
type MonthTotal struct {
	Month string `json:"month"`
	Items int    `json:"items"`
}

// Stats summarizes completed shopping.
type Stats struct {
	TopItems      []NamedCount `json:"topItems"`
	TopCategories []NamedCount `json:"topCategories"`
	Monthly       []MonthTotal `json:"monthly"`
}

// Summarize computes Stats from lists in memory. Only COMPLETED lists count;
// a list's month is the month it was last updated (UTC).
func Summarize(lists []ShoppingList, topN int) Stats {
	items := map[string]int{}
	cats := map[string]int{}
	months := map[string]int{}
	total := 0
	for _, l := range lists {
		if l.State != ListCompleted {
			continue
		}
		month := l.UpdatedAt.UTC().Format("2006-01")
		for _, e := range l.Items {
			items[e.Name] += e.Quantity
			cats[e.CategoryName] += e.Quantity
			months[month] += e.Quantity
			total += e.Quantity
		}
	}

	st := Stats{
		TopItems:      topCounts(items, total, topN),
		TopCategories: topCounts(cats, total, topN),
		Monthly:       []MonthTotal{},
	}
	for m, n := range months {
		st.Monthly = append(st.Monthly, MonthTotal{Month: m, Items: n})
	}
	sort.Slice(st.Monthly, func(i, j int) bool { return st.Monthly[i].Month < st.Monthly[j].Month })
	return st
}

func topCounts(counts map[string]int, total, n int) []NamedCount {
	out := make([]NamedCount, 0, len(counts))
	for name, c := range counts {
		nc := NamedCount{Name: name, Count: c}
		if total > 0 {
			nc.Percent = math.Round(float64(c)*1000/float64(total)) / 10
		}
		out = append(out, nc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
