package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/shoppingify/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return dbh
}

func newUser(t *testing.T, dbh *sql.DB, email string) model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), dbh, "Test", email)
	require.NoError(t, err)
	return u
}

func TestUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	u := newUser(t, dbh, " Ann@Example.com ")
	assert.Equal(t, "ann@example.com", u.Email)

	_, err := CreateUser(ctx, dbh, "Again", "ann@example.com")
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := UserByEmail(ctx, dbh, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = UserByID(ctx, dbh, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Now()
	sid, err := CreateSession(ctx, dbh, u.ID, now.Add(time.Hour))
	require.NoError(t, err)

	uid, err := SessionUser(ctx, dbh, sid, now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, err = SessionUser(ctx, dbh, sid, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound, "expired session")

	require.NoError(t, DeleteSession(ctx, dbh, sid))
	_, err = SessionUser(ctx, dbh, sid, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)
	u := newUser(t, dbh, "p@example.com")

	now := time.Now()
	_, err := CreateSession(ctx, dbh, u.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	live, err := CreateSession(ctx, dbh, u.ID, now.Add(time.Hour))
	require.NoError(t, err)

	n, err := PurgeExpiredSessions(ctx, dbh, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = SessionUser(ctx, dbh, live, now)
	assert.NoError(t, err)
}

func TestCategoriesAreUniquePerOwner(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	_, err := CreateCategory(ctx, dbh, "u1", "Fruit")
	require.NoError(t, err)
	_, err = CreateCategory(ctx, dbh, "u1", "fruit")
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = CreateCategory(ctx, dbh, "u2", "Fruit")
	assert.NoError(t, err, "another owner may reuse the name")

	c, err := CategoryByName(ctx, dbh, "u1", " FRUIT ")
	require.NoError(t, err)
	assert.Equal(t, "Fruit", c.Name)
}

func TestItemsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	cat, err := CreateCategory(ctx, dbh, "u1", "Fruit")
	require.NoError(t, err)

	_, err = CreateItem(ctx, dbh, "u2", model.ItemInput{Name: "Kiwi", CategoryID: cat.ID})
	assert.ErrorIs(t, err, ErrNotFound, "category belongs to someone else")

	it, err := CreateItem(ctx, dbh, "u1", model.ItemInput{Name: " Kiwi ", Note: "green", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, "Kiwi", it.Name)
	assert.Equal(t, "Fruit", it.CategoryName)

	got, err := GetItem(ctx, dbh, "u1", it.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(it, got, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
		t.Errorf("GetItem mismatch (-want +got):\n%s", diff)
	}

	_, err = GetItem(ctx, dbh, "u2", it.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, DeleteItem(ctx, dbh, "u2", it.ID), ErrNotFound)
	require.NoError(t, DeleteItem(ctx, dbh, "u1", it.ID))
	_, err = GetItem(ctx, dbh, "u1", it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	res, err := SeedDefaults(ctx, dbh, "u1")
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Categories: 3, Items: 10}, res)

	res, err = SeedDefaults(ctx, dbh, "u1")
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)

	cat, err := LoadCatalog(ctx, dbh, "u1")
	require.NoError(t, err)
	require.Len(t, cat.Categories, 3)
	require.Len(t, cat.Items, 10)
	assert.Equal(t, "Food and Vegetables", cat.Categories[0].Name)
	assert.Equal(t, "Avocado", cat.Items[0].Name)
	assert.Equal(t, "Cocacola drink pack", cat.Items[9].Name)
}

func TestOnlyOneOpenListPerOwner(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	first := &model.ShoppingList{OwnerID: "u1", State: model.ListOpen}
	require.NoError(t, InsertList(ctx, dbh, first))
	assert.Equal(t, model.DefaultListName, first.Name)

	second := &model.ShoppingList{OwnerID: "u1", State: model.ListOpen}
	assert.Error(t, InsertList(ctx, dbh, second))

	other := &model.ShoppingList{OwnerID: "u2", State: model.ListOpen}
	assert.NoError(t, InsertList(ctx, dbh, other))

	first.State = model.ListCompleted
	first.UpdatedAt = time.Now()
	require.NoError(t, UpdateList(ctx, dbh, first))

	third := &model.ShoppingList{OwnerID: "u1", State: model.ListOpen}
	assert.NoError(t, InsertList(ctx, dbh, third), "a new open list is allowed once the old one is closed")
}

func TestListRoundTripKeepsEntryOrder(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	active, err := ActiveList(ctx, dbh, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)

	l := &model.ShoppingList{
		Name:    "Weekend",
		OwnerID: "u1",
		State:   model.ListOpen,
		Items: []model.ListEntry{
			{ItemID: "b", Name: "Banana", CategoryID: "veg", CategoryName: "Veg", Quantity: 2},
			{ItemID: "a", Name: "Avocado", CategoryID: "veg", CategoryName: "Veg", Quantity: 1, Checked: true},
		},
	}
	require.NoError(t, InsertList(ctx, dbh, l))

	active, err = ActiveList(ctx, dbh, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, l.Items, active.Items)

	l.Items = l.Items[1:]
	l.Items[0].Quantity = 5
	l.UpdatedAt = time.Now()
	require.NoError(t, UpdateList(ctx, dbh, l))

	got, err := GetList(ctx, dbh, "u1", l.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.ListEntry{{ItemID: "a", Name: "Avocado", CategoryID: "veg", CategoryName: "Veg", Quantity: 5, Checked: true}}, got.Items)

	_, err = GetList(ctx, dbh, "u2", l.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, UpdateList(ctx, dbh, &model.ShoppingList{ID: "nope", OwnerID: "u1", State: model.ListOpen}), ErrNotFound)
}

func TestListHistoryPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.AddDate(0, 0, i)
		l := &model.ShoppingList{
			Name:      "List " + string(rune('A'+i)),
			OwnerID:   "u1",
			State:     model.ListCompleted,
			Items:     []model.ListEntry{{ItemID: "x", Name: "X", CategoryID: "c", CategoryName: "C", Quantity: 1}},
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		require.NoError(t, InsertList(ctx, dbh, l))
	}

	lists, total, err := ListHistory(ctx, dbh, "u1", 2, 0, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, lists, 2)
	assert.Equal(t, "List E", lists[0].Name)
	assert.Equal(t, "List D", lists[1].Name)
	assert.Len(t, lists[0].Items, 1)

	lists, total, err = ListHistory(ctx, dbh, "u1", 10, 0, base.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, lists, 2)

	lists, total, err = ListHistory(ctx, dbh, "u2", 10, 0, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, lists)
}

func TestLoadStatsCountsCompletedListsOnly(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	insert := func(state model.ListState, at time.Time, entries ...model.ListEntry) {
		l := &model.ShoppingList{OwnerID: "u1", State: state, Items: entries, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, InsertList(ctx, dbh, l))
	}
	banana := model.ListEntry{ItemID: "b", Name: "Banana", CategoryID: "veg", CategoryName: "Veg", Quantity: 3}
	salmon := model.ListEntry{ItemID: "s", Name: "Salmon", CategoryID: "fish", CategoryName: "Fish", Quantity: 1}

	insert(model.ListCompleted, march, banana, salmon)
	insert(model.ListCompleted, april, banana)
	insert(model.ListCanceled, april, salmon)

	stats, err := LoadStats(ctx, dbh, "u1", 0)
	require.NoError(t, err)

	want := model.Stats{
		TopItems:      []model.NamedCount{{Name: "Banana", Count: 6, Percent: 85.7}, {Name: "Salmon", Count: 1, Percent: 14.3}},
		TopCategories: []model.NamedCount{{Name: "Veg", Count: 6, Percent: 85.7}, {Name: "Fish", Count: 1, Percent: 14.3}},
		Monthly:       []model.MonthTotal{{Month: "2024-03", Items: 4}, {Month: "2024-04", Items: 3}},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("LoadStats mismatch (-want +got):\n%s", diff)
	}
}
