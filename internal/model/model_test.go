package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseListState(t *testing.T) {
	for in, want := range map[string]ListState{
		"open":      ListOpen,
		"Complete":  ListCompleted,
		"COMPLETED": ListCompleted,
		" cancel ":  ListCanceled,
		"cancelled": ListCanceled,
	} {
		got, ok := ParseListState(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseListState("done")
	assert.False(t, ok)

	assert.True(t, ListCanceled.Terminal())
	assert.False(t, ListOpen.Terminal())
	assert.False(t, ListState("x").Valid())
}

func TestShoppingListHelpers(t *testing.T) {
	var nilList *ShoppingList
	assert.True(t, nilList.IsEmpty())
	assert.Equal(t, -1, nilList.IndexOf("a"))
	assert.Nil(t, nilList.Clone())

	l := NewDraft(time.Now())
	assert.True(t, l.IsDraft())
	assert.True(t, l.IsEmpty())

	l.Items = []ListEntry{{ItemID: "a", Quantity: 2}, {ItemID: "b", Quantity: 1, Checked: true}}
	assert.Equal(t, 1, l.IndexOf("b"))
	assert.Equal(t, 3, l.TotalQuantity())
	assert.Equal(t, 1, l.Pending())

	cp := l.Clone()
	cp.Items[0].Quantity = 9
	assert.Equal(t, 2, l.Items[0].Quantity, "clone does not share entries")
}

func TestSummarize(t *testing.T) {
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	lists := []ShoppingList{
		{State: ListCompleted, UpdatedAt: jan, Items: []ListEntry{
			{Name: "Milk", CategoryName: "Dairy", Quantity: 2},
			{Name: "Bread", CategoryName: "Bakery", Quantity: 1},
		}},
		{State: ListCompleted, UpdatedAt: feb, Items: []ListEntry{{Name: "Milk", CategoryName: "Dairy", Quantity: 1}}},
		{State: ListCanceled, UpdatedAt: feb, Items: []ListEntry{{Name: "Cake", CategoryName: "Bakery", Quantity: 5}}},
		{State: ListOpen, UpdatedAt: feb, Items: []ListEntry{{Name: "Cake", CategoryName: "Bakery", Quantity: 5}}},
	}

	want := Stats{
		TopItems:      []NamedCount{{Name: "Milk", Count: 3, Percent: 75}, {Name: "Bread", Count: 1, Percent: 25}},
		TopCategories: []NamedCount{{Name: "Dairy", Count: 3, Percent: 75}, {Name: "Bakery", Count: 1, Percent: 25}},
		Monthly:       []MonthTotal{{Month: "2024-01", Items: 3}, {Month: "2024-02", Items: 1}},
	}
	if diff := cmp.Diff(want, Summarize(lists, 3)); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, Summarize(lists, 1).TopItems, 1)
	empty := Summarize(nil, 3)
	assert.Empty(t, empty.TopItems)
	assert.Empty(t, empty.Monthly)
}
