package service

import (
	"context"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
)

// UserBackend binds a Service to one account. It is what the local account
// mode hands to the client store.
type UserBackend struct {
	svc   *Service
	owner string
}

// ForUser returns a backend scoped to userID.
func (s *Service) ForUser(userID string) *UserBackend {
	return &UserBackend{svc: s, owner: userID}
}

func (b *UserBackend) UserID() string { return b.owner }

func (b *UserBackend) Catalog(ctx context.Context) (model.Catalog, error) {
	return b.svc.Catalog(ctx, b.owner)
}

func (b *UserBackend) CreateItem(ctx context.Context, in model.ItemInput) (model.Item, error) {
	return b.svc.CreateItem(ctx, b.owner, in)
}

func (b *UserBackend) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	return b.svc.CreateCategory(ctx, b.owner, name)
}

func (b *UserBackend) GetItem(ctx context.Context, id string) (model.Item, error) {
	return b.svc.GetItem(ctx, b.owner, id)
}

func (b *UserBackend) DeleteItem(ctx context.Context, id string) error {
	return b.svc.DeleteItem(ctx, b.owner, id)
}

func (b *UserBackend) ActiveList(ctx context.Context) (*model.ShoppingList, error) {
	return b.svc.ActiveList(ctx, b.owner)
}

func (b *UserBackend) SaveList(ctx context.Context, l *model.ShoppingList) (*model.ShoppingList, error) {
	return b.svc.SaveList(ctx, b.owner, l)
}

func (b *UserBackend) SetListState(ctx context.Context, id string, state model.ListState) (*model.ShoppingList, error) {
	return b.svc.SetListState(ctx, b.owner, id, state)
}

func (b *UserBackend) GetList(ctx context.Context, id string) (*model.ShoppingList, error) {
	return b.svc.GetList(ctx, b.owner, id)
}

func (b *UserBackend) History(ctx context.Context, q model.HistoryQuery) (model.ListPage, error) {
	return b.svc.History(ctx, b.owner, q)
}

func (b *UserBackend) Stats(ctx context.Context) (model.Stats, error) {
	return b.svc.Stats(ctx, b.owner)
}

// Seed adds the default catalog for the bound account.
func (b *UserBackend) Seed(ctx context.Context) (db.SeedResult, error) {
	return b.svc.Seed(ctx, b.owner)
}
