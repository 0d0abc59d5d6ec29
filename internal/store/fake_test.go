package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ramanasai/shoppingify/internal/model"
)

var errFake = errors.New("backend down")

// fakeBackend keeps one account's data in memory.
type fakeBackend struct {
	mu        sync.Mutex
	owner     string
	catalog   model.Catalog
	active    *model.ShoppingList
	closed    []model.ShoppingList
	saveErr   error
	saves     int
	catalogs  int
	fetchList *model.ShoppingList
}

func newFakeBackend() *fakeBackend {
	veg := model.Category{ID: "veg", Name: "Vegetables"}
	meat := model.Category{ID: "meat", Name: "Meat"}
	return &fakeBackend{
		owner: "u1",
		catalog: model.Catalog{
			Categories: []model.Category{veg, meat},
			Items: []model.Item{
				{ID: "carrot", Name: "Carrot", CategoryID: "veg", CategoryName: "Vegetables"},
				{ID: "beef", Name: "Beef", CategoryID: "meat", CategoryName: "Meat"},
				{ID: "pepper", Name: "Pepper", CategoryID: "veg", CategoryName: "Vegetables"},
			},
		},
	}
}

func (f *fakeBackend) item(id string) model.Item {
	for _, it := range f.catalog.Items {
		if it.ID == id {
			return it
		}
	}
	panic("no item " + id)
}

func (f *fakeBackend) Catalog(context.Context) (model.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogs++
	return f.catalog, nil
}

func (f *fakeBackend) CreateItem(_ context.Context, in model.ItemInput) (model.Item, error) {
	if in.Name == "" {
		return model.Item{}, errFake
	}
	it := model.Item{ID: uuid.NewString(), Name: in.Name, CategoryID: in.CategoryID, Description: in.Note}
	f.catalog.Items = append(f.catalog.Items, it)
	return it, nil
}

func (f *fakeBackend) CreateCategory(_ context.Context, name string) (model.Category, error) {
	c := model.Category{ID: uuid.NewString(), Name: name, OwnerID: f.owner}
	f.catalog.Categories = append(f.catalog.Categories, c)
	return c, nil
}

func (f *fakeBackend) GetItem(_ context.Context, id string) (model.Item, error) {
	return f.item(id), nil
}

func (f *fakeBackend) DeleteItem(context.Context, string) error { return nil }

func (f *fakeBackend) ActiveList(context.Context) (*model.ShoppingList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchList != nil {
		return f.fetchList.Clone(), nil
	}
	return f.active.Clone(), nil
}

func (f *fakeBackend) SaveList(_ context.Context, l *model.ShoppingList) (*model.ShoppingList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	out := l.Clone()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.OwnerID = f.owner
	out.UpdatedAt = time.Now().UTC()
	f.active = out.Clone()
	return out, nil
}

func (f *fakeBackend) SetListState(_ context.Context, id string, state model.ListState) (*model.ShoppingList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil || f.active.ID != id {
		return nil, errFake
	}
	out := f.active.Clone()
	out.State = state
	f.closed = append(f.closed, *out)
	f.active = nil
	return out, nil
}

func (f *fakeBackend) GetList(_ context.Context, id string) (*model.ShoppingList, error) {
	for _, l := range f.closed {
		if l.ID == id {
			return l.Clone(), nil
		}
	}
	return nil, errFake
}

func (f *fakeBackend) History(context.Context, model.HistoryQuery) (model.ListPage, error) {
	return model.ListPage{Lists: append([]model.ShoppingList(nil), f.closed...), Total: len(f.closed), Page: 1, PerPage: 10, TotalPages: 1}, nil
}

func (f *fakeBackend) Stats(context.Context) (model.Stats, error) { return model.Stats{}, nil }
