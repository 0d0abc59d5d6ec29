package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dbh, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return New(dbh, zaptest.NewLogger(t))
}

func seededItem(t *testing.T, s *Service, owner string) model.Item {
	t.Helper()
	ctx := context.Background()
	_, err := s.Seed(ctx, owner)
	require.NoError(t, err)
	cat, err := s.Catalog(ctx, owner)
	require.NoError(t, err)
	return cat.Items[0]
}

func draftWith(items ...model.Item) *model.ShoppingList {
	l := model.NewDraft(time.Now())
	for _, it := range items {
		l.Items = append(l.Items, model.EntryFor(it))
	}
	return l
}

func TestSaveDraftCreatesThenUpdatesActiveList(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	it := seededItem(t, s, "u1")

	saved, err := s.SaveList(ctx, "u1", draftWith(it))
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.OwnerID)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, model.ListOpen, saved.State)

	// a second draft from another device lands on the same open list
	again, err := s.SaveList(ctx, "u1", draftWith(it, it))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	require.Len(t, again.Items, 1)
	assert.Equal(t, 2, again.Items[0].Quantity)

	active, err := s.ActiveList(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, active.ID)
}

func TestSaveListRejectsClosedLists(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	it := seededItem(t, s, "u1")

	saved, err := s.SaveList(ctx, "u1", draftWith(it))
	require.NoError(t, err)
	_, err = s.SetListState(ctx, "u1", saved.ID, model.ListCompleted)
	require.NoError(t, err)

	saved.State = model.ListOpen
	_, err = s.SaveList(ctx, "u1", saved)
	assert.ErrorIs(t, err, ErrListClosed)

	saved.State = model.ListCompleted
	_, err = s.SaveList(ctx, "u1", saved)
	assert.ErrorIs(t, err, ErrListClosed)
}

func TestListStateTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	it := seededItem(t, s, "u1")

	empty, err := s.SaveList(ctx, "u1", draftWith())
	require.NoError(t, err)
	_, err = s.SetListState(ctx, "u1", empty.ID, model.ListCompleted)
	assert.ErrorIs(t, err, ErrEmptyList)

	full, err := s.SaveList(ctx, "u1", draftWith(it))
	require.NoError(t, err)
	require.Equal(t, empty.ID, full.ID)

	_, err = s.SetListState(ctx, "u1", full.ID, model.ListOpen)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	closed, err := s.SetListState(ctx, "u1", full.ID, model.ListCanceled)
	require.NoError(t, err)
	assert.Equal(t, model.ListCanceled, closed.State)

	_, err = s.SetListState(ctx, "u1", full.ID, model.ListCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition, "terminal states are final")

	active, err := s.ActiveList(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = s.SetListState(ctx, "u2", full.ID, model.ListCompleted)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUpdateListRename(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	it := seededItem(t, s, "u1")

	saved, err := s.SaveList(ctx, "u1", draftWith(it))
	require.NoError(t, err)

	name := "  Party  "
	got, err := s.UpdateList(ctx, "u1", saved.ID, ListPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Party", got.Name)

	blank := " "
	_, err = s.UpdateList(ctx, "u1", saved.ID, ListPatch{Name: &blank})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateItemValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	cat, err := s.CreateCategory(ctx, "u1", "Snacks")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   model.ItemInput
		ok   bool
	}{
		{"valid", model.ItemInput{Name: "Chips", CategoryID: cat.ID}, true},
		{"valid image", model.ItemInput{Name: "Nuts", CategoryID: cat.ID, ImageURL: "https://img.example.com/n.png"}, true},
		{"missing name", model.ItemInput{CategoryID: cat.ID}, false},
		{"missing category", model.ItemInput{Name: "Chips"}, false},
		{"bad image", model.ItemInput{Name: "Chips", CategoryID: cat.ID, ImageURL: "not a url"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateItem(ctx, "u1", tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}

	_, err = s.CreateCategory(ctx, "u1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.CreateCategory(ctx, "u1", "snacks")
	assert.ErrorIs(t, err, db.ErrDuplicateCategory)
}

func TestHistoryClampsPage(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	it := seededItem(t, s, "u1")

	for i := 0; i < 3; i++ {
		l, err := s.SaveList(ctx, "u1", draftWith(it))
		require.NoError(t, err)
		_, err = s.SetListState(ctx, "u1", l.ID, model.ListCompleted)
		require.NoError(t, err)
	}

	page, err := s.History(ctx, "u1", model.HistoryQuery{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Lists, 1)

	page, err = s.History(ctx, "u2", model.HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Lists)
	assert.Equal(t, DefaultPerPage, page.PerPage)
}

func TestHistoryLookupIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	it := seededItem(t, s, "u1")

	l, err := s.SaveList(ctx, "u1", draftWith(it))
	require.NoError(t, err)

	_, err = s.ForUser("u2").GetList(ctx, l.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	got, err := s.ForUser("u1").GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)
}
