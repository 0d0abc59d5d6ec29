package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/service"
	"github.com/ramanasai/shoppingify/internal/store"
)

func newServiceBackend(t *testing.T) store.Backend {
	t.Helper()
	dbh, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	svc := service.New(dbh, zaptest.NewLogger(t))
	_, err = svc.Seed(context.Background(), "u1")
	require.NoError(t, err)
	return svc.ForUser("u1")
}

func TestClosingListLoadedAtStartupKeepsHistoryInStep(t *testing.T) {
	ctx := context.Background()
	b := newServiceBackend(t)

	first := store.New(b, zaptest.NewLogger(t))
	require.NoError(t, first.Hydrate(ctx))
	first.AddItemToList(ctx, first.Snapshot().Items[0])
	require.False(t, first.ActiveList().IsDraft())

	// a later session starts with the open list already on the history page
	s := store.New(b, zaptest.NewLogger(t))
	require.NoError(t, s.Hydrate(ctx))
	open := s.ActiveList()
	require.NotNil(t, open)

	closed, err := s.SetListState(ctx, model.ListCompleted)
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, open.ID, closed.ID)

	hist := s.Snapshot().History
	require.Len(t, hist.Lists, 1)
	assert.Equal(t, model.ListCompleted, hist.Lists[0].State)

	fromBackend, err := b.History(ctx, model.HistoryQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, fromBackend.Total, hist.Total)
}

func TestFetchAfterCloseLeavesNoActiveList(t *testing.T) {
	ctx := context.Background()
	b := newServiceBackend(t)

	s := store.New(b, zaptest.NewLogger(t))
	require.NoError(t, s.Hydrate(ctx))
	s.AddItemToList(ctx, s.Snapshot().Items[0])

	_, err := s.SetListState(ctx, model.ListCanceled)
	require.NoError(t, err)
	require.NoError(t, s.FetchNewActiveList(ctx))
	assert.Nil(t, s.ActiveList())
}
