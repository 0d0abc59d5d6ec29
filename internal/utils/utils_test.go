package utils

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/shoppingify/internal/model"
)

func TestNewPaginationClamps(t *testing.T) {
	tests := []struct {
		name                  string
		total, per, cur       int
		wantCur, wantPages    int
		wantOffset            int
	}{
		{"empty", 0, 10, 3, 1, 1, 0},
		{"first", 23, 10, 1, 1, 3, 0},
		{"past end", 23, 10, 9, 3, 3, 20},
		{"negative page", 23, 10, -2, 1, 3, 0},
		{"zero per page", 5, 0, 2, 2, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.per, tt.cur)
			assert.Equal(t, tt.wantCur, p.Current)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestPaginationText(t *testing.T) {
	assert.Equal(t, "No lists yet", NewPagination(0, 10, 1).FormatSummary())
	assert.Equal(t, "Showing 1-1 of 1 list", NewPagination(1, 10, 1).FormatSummary())

	p := NewPagination(23, 10, 3)
	assert.Equal(t, "Showing 21-23 of 23 lists (page 3 of 3)", p.FormatSummary())
	assert.Equal(t, "use --page 2 for previous", p.FormatNavigation())

	p = NewPagination(23, 10, 2)
	assert.Equal(t, "use --page 1 for previous, use --page 3 for next", p.FormatNavigation())
	assert.Empty(t, NewPagination(3, 10, 1).FormatNavigation())
}

func TestParsePage(t *testing.T) {
	n, err := ParsePage("first", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ParsePage("last", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = ParsePage("last", 0)
	assert.Error(t, err)

	n, err = ParsePage(" 7 ", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = ParsePage("0", 0)
	assert.Error(t, err)
	_, err = ParsePage("two", 0)
	assert.Error(t, err)
}

func TestParseSince(t *testing.T) {
	loc := time.UTC
	// a Wednesday
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, loc)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, loc) }

	tests := []struct {
		in   string
		want time.Time
	}{
		{"today", day(2024, 3, 13)},
		{"Yesterday", day(2024, 3, 12)},
		{"this week", day(2024, 3, 11)},
		{"this month", day(2024, 3, 1)},
		{"this year", day(2024, 1, 1)},
		{"last week", day(2024, 3, 6)},
		{"last month", day(2024, 2, 13)},
		{"3 days ago", day(2024, 3, 10)},
		{"2w", day(2024, 2, 28)},
		{"1 month", day(2024, 2, 13)},
		{"2024-01-05", day(2024, 1, 5)},
		{"2024/01/05", day(2024, 1, 5)},
		{"Jan 5, 2024", day(2024, 1, 5)},
		{"2024-02", day(2024, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSince(tt.in, now, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseSince("", now, loc)
	assert.Error(t, err)
	_, err = ParseSince("someday", now, loc)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDefault, f)

	f, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func plainRenderer(f OutputFormat) *Renderer {
	return NewRenderer(&RenderConfig{Format: f, Width: 60, Location: time.UTC})
}

func sampleList() *model.ShoppingList {
	ts := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	return &model.ShoppingList{
		ID:    "l1",
		Name:  "Weekly",
		State: model.ListOpen,
		Items: []model.ListEntry{
			{ItemID: "a", Name: "Avocado", CategoryID: "fv", CategoryName: "Fruit and vegetables", Quantity: 3},
			{ItemID: "b", Name: "Salmon", CategoryID: "mf", CategoryName: "Meat and Fish", Quantity: 1, Checked: true},
			{ItemID: "c", Name: "Banana", CategoryID: "fv", CategoryName: "Fruit and vegetables", Quantity: 2},
		},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestRenderListGroupsByCategory(t *testing.T) {
	out, err := plainRenderer(FormatDefault).RenderList(sampleList())
	require.NoError(t, err)

	assert.Contains(t, out, "Weekly")
	fruit := strings.Index(out, "Fruit and vegetables")
	avocado := strings.Index(out, "Avocado")
	banana := strings.Index(out, "Banana")
	meat := strings.Index(out, "Meat and Fish")
	require.True(t, fruit >= 0 && meat >= 0)
	assert.Less(t, fruit, avocado)
	assert.Less(t, avocado, banana)
	assert.Less(t, banana, meat, "banana stays with its category")
	assert.Contains(t, out, "3 pcs")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "2 pending of 3 items")
}

func TestRenderListEmpty(t *testing.T) {
	r := plainRenderer(FormatDefault)
	out, err := r.RenderList(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "No items")

	out, err = r.RenderList(model.NewDraft(time.Now()))
	require.NoError(t, err)
	assert.Contains(t, out, "No items")
}

func TestRenderListFormats(t *testing.T) {
	l := sampleList()

	out, err := plainRenderer(FormatQuiet).RenderList(l)
	require.NoError(t, err)
	assert.Equal(t, "Avocado\nSalmon\nBanana\n", out)

	out, err = plainRenderer(FormatCSV).RenderList(l)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "item_id,name,category,quantity,checked", lines[0])
	assert.Equal(t, "b,Salmon,Meat and Fish,1,true", lines[2])

	out, err = plainRenderer(FormatJSON).RenderList(l)
	require.NoError(t, err)
	var back model.ShoppingList
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, "Weekly", back.Name)
}

func TestRenderHistory(t *testing.T) {
	l := sampleList()
	l.State = model.ListCompleted
	page := &model.ListPage{Lists: []model.ShoppingList{*l}, Total: 11, Page: 2, PerPage: 10, TotalPages: 2}

	out, err := plainRenderer(FormatDefault).RenderHistory(page)
	require.NoError(t, err)
	assert.Contains(t, out, "Weekly")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "Showing 11-11 of 11 lists (page 2 of 2)")
	assert.Contains(t, out, "--page 1")

	out, err = plainRenderer(FormatDefault).RenderHistory(&model.ListPage{PerPage: 10, Page: 1})
	require.NoError(t, err)
	assert.Contains(t, out, "No lists yet")
}

func TestRenderStats(t *testing.T) {
	st := model.Stats{
		TopItems: []model.NamedCount{{Name: "Banana", Count: 6, Percent: 85.7}},
		Monthly:  []model.MonthTotal{{Month: "2024-03", Items: 4}},
	}
	out, err := plainRenderer(FormatDefault).RenderStats(st)
	require.NoError(t, err)
	assert.Contains(t, out, "Banana")
	assert.Contains(t, out, "85.7%")
	assert.Contains(t, out, "nothing completed yet")
	assert.Contains(t, out, "2024-03")
}
