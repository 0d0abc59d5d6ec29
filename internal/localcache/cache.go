// Package localcache is the offline account backend: catalog and lists are
// kept as JSON files on disk through diskv, without a database or server.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/service"
	"github.com/ramanasai/shoppingify/internal/utils"
)

// Owner is the owner id stamped on everything stored offline.
const Owner = "offline"

const (
	kindCategory = "category"
	kindItem     = "item"
	kindList     = "list"
)

type Cache struct {
	mu  sync.Mutex
	d   *diskv.Diskv
	now func() time.Time
}

// Open uses basePath as the diskv root, creating it if needed.
func Open(basePath string) (*Cache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("offline store: %w", err)
	}
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// keys look like "<kind>_<id>" and live at <kind>/<id>
func keyToPathTransform(s string) *diskv.PathKey {
	kind, id, _ := strings.Cut(s, "_")
	return &diskv.PathKey{Path: []string{kind}, FileName: id}
}

func pathToKeyTransform(pk *diskv.PathKey) string {
	return strings.Join(pk.Path, "/") + "_" + pk.FileName
}

func key(kind, id string) string { return kind + "_" + id }

func (c *Cache) put(kind, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.d.Write(key(kind, id), b)
}

func (c *Cache) get(kind, id string, v any) error {
	k := key(kind, id)
	if id == "" || !c.d.Has(k) {
		return db.ErrNotFound
	}
	b, err := c.d.Read(k)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func readAll[T any](ctx context.Context, c *Cache, kind string) ([]T, error) {
	// closing done stops the key walk if we return early
	done := make(chan struct{})
	defer close(done)

	var out []T
	for k := range c.d.KeysPrefix(kind+"_", done) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := c.d.Read(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Cache) categories(ctx context.Context) ([]model.Category, error) {
	cats, err := readAll[model.Category](ctx, c, kindCategory)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool {
		if !cats[i].CreatedAt.Equal(cats[j].CreatedAt) {
			return cats[i].CreatedAt.Before(cats[j].CreatedAt)
		}
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

func (c *Cache) Catalog(ctx context.Context) (model.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cats, err := c.categories(ctx)
	if err != nil {
		return model.Catalog{}, err
	}
	items, err := readAll[model.Item](ctx, c, kindItem)
	if err != nil {
		return model.Catalog{}, err
	}

	rank := make(map[string]int, len(cats))
	names := make(map[string]string, len(cats))
	for i, cat := range cats {
		rank[cat.ID] = i
		names[cat.ID] = cat.Name
	}
	for i := range items {
		items[i].CategoryName = names[items[i].CategoryID]
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rank[items[i].CategoryID], rank[items[j].CategoryID]
		if ri != rj {
			return ri < rj
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Name < items[j].Name
	})
	if cats == nil {
		cats = []model.Category{}
	}
	if items == nil {
		items = []model.Item{}
	}
	return model.Catalog{Categories: cats, Items: items}, nil
}

func (c *Cache) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createCategory(ctx, name)
}

func (c *Cache) createCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name is required", service.ErrValidation)
	}
	cats, err := c.categories(ctx)
	if err != nil {
		return model.Category{}, err
	}
	for _, cat := range cats {
		if strings.EqualFold(cat.Name, name) {
			return model.Category{}, db.ErrDuplicateCategory
		}
	}
	now := c.now()
	cat := model.Category{ID: uuid.NewString(), Name: name, OwnerID: Owner, CreatedAt: now, UpdatedAt: now}
	return cat, c.put(kindCategory, cat.ID, cat)
}

func (c *Cache) CreateItem(ctx context.Context, in model.ItemInput) (model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createItem(in)
}

func (c *Cache) createItem(in model.ItemInput) (model.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Item{}, fmt.Errorf("%w: item name is required", service.ErrValidation)
	}
	var cat model.Category
	if err := c.get(kindCategory, in.CategoryID, &cat); err != nil {
		return model.Item{}, fmt.Errorf("category %s: %w", in.CategoryID, err)
	}
	now := c.now()
	it := model.Item{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Note),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		OwnerID:      Owner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return it, c.put(kindItem, it.ID, it)
}

func (c *Cache) GetItem(ctx context.Context, id string) (model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var it model.Item
	if err := c.get(kindItem, id, &it); err != nil {
		return model.Item{}, err
	}
	var cat model.Category
	if err := c.get(kindCategory, it.CategoryID, &cat); err == nil {
		it.CategoryName = cat.Name
	}
	return it, nil
}

func (c *Cache) DeleteItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(kindItem, id)
	if id == "" || !c.d.Has(k) {
		return db.ErrNotFound
	}
	return c.d.Erase(k)
}

// Seed adds the default catalog, skipping categories that already exist.
func (c *Cache) Seed(ctx context.Context) (db.SeedResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res db.SeedResult
	for _, sc := range db.DefaultCatalog {
		cat, err := c.createCategory(ctx, sc.Name)
		if errors.Is(err, db.ErrDuplicateCategory) {
			continue
		}
		if err != nil {
			return res, err
		}
		res.Categories++
		for _, name := range sc.Items {
			if _, err := c.createItem(model.ItemInput{Name: name, CategoryID: cat.ID}); err != nil {
				return res, err
			}
			res.Items++
		}
	}
	return res, nil
}

func (c *Cache) lists(ctx context.Context) ([]model.ShoppingList, error) {
	return readAll[model.ShoppingList](ctx, c, kindList)
}

func (c *Cache) active(ctx context.Context) (*model.ShoppingList, error) {
	all, err := c.lists(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].State == model.ListOpen {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (c *Cache) ActiveList(ctx context.Context) (*model.ShoppingList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active(ctx)
}

// SaveList follows the same rules as the server: drafts land on the open
// list if there is one and closed lists are rejected.
func (c *Cache) SaveList(ctx context.Context, in *model.ShoppingList) (*model.ShoppingList, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: list is required", service.ErrValidation)
	}
	if in.State != "" && in.State != model.ListOpen {
		return nil, service.ErrListClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var target *model.ShoppingList
	if in.ID != "" && !in.IsDraft() {
		var existing model.ShoppingList
		err := c.get(kindList, in.ID, &existing)
		switch {
		case err == nil:
			if existing.State != model.ListOpen {
				return nil, service.ErrListClosed
			}
			target = &existing
		case !errors.Is(err, db.ErrNotFound):
			return nil, err
		}
	}
	if target == nil {
		var err error
		if target, err = c.active(ctx); err != nil {
			return nil, err
		}
	}

	now := c.now()
	if target == nil {
		target = &model.ShoppingList{ID: uuid.NewString(), Name: model.DefaultListName, OwnerID: Owner, State: model.ListOpen, CreatedAt: now}
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		target.Name = name
	}
	target.Items = mergeEntries(in.Items)
	target.UpdatedAt = now
	return target.Clone(), c.put(kindList, target.ID, target)
}

func mergeEntries(in []model.ListEntry) []model.ListEntry {
	out := make([]model.ListEntry, 0, len(in))
	seen := make(map[string]int, len(in))
	for _, e := range in {
		if e.Quantity <= 0 {
			e.Quantity = 1
		}
		if i, ok := seen[e.ItemID]; ok {
			out[i].Quantity += e.Quantity
			continue
		}
		seen[e.ItemID] = len(out)
		out = append(out, e)
	}
	return out
}

func (c *Cache) SetListState(ctx context.Context, id string, state model.ListState) (*model.ShoppingList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var l model.ShoppingList
	if err := c.get(kindList, id, &l); err != nil {
		return nil, err
	}
	if l.State != model.ListOpen || !state.Terminal() {
		return nil, fmt.Errorf("%w: %s to %s", service.ErrInvalidTransition, l.State, state)
	}
	if l.IsEmpty() {
		return nil, service.ErrEmptyList
	}
	l.State = state
	l.UpdatedAt = c.now()
	return l.Clone(), c.put(kindList, l.ID, l)
}

func (c *Cache) GetList(ctx context.Context, id string) (*model.ShoppingList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var l model.ShoppingList
	if err := c.get(kindList, id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Cache) History(ctx context.Context, q model.HistoryQuery) (model.ListPage, error) {
	c.mu.Lock()
	all, err := c.lists(ctx)
	c.mu.Unlock()
	if err != nil {
		return model.ListPage{}, err
	}

	lists := all[:0]
	for _, l := range all {
		if q.Since.IsZero() || !l.UpdatedAt.Before(q.Since) {
			lists = append(lists, l)
		}
	}
	sort.SliceStable(lists, func(i, j int) bool {
		if !lists[i].UpdatedAt.Equal(lists[j].UpdatedAt) {
			return lists[i].UpdatedAt.After(lists[j].UpdatedAt)
		}
		return lists[i].ID < lists[j].ID
	})

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = service.DefaultPerPage
	}
	p := utils.NewPagination(len(lists), perPage, q.Page)
	start, end := p.Range()
	page := []model.ShoppingList{}
	if len(lists) > 0 {
		page = append(page, lists[start-1:end]...)
	}
	return model.ListPage{Lists: page, Total: p.Total, Page: p.Current, PerPage: perPage, TotalPages: p.TotalPages}, nil
}

func (c *Cache) Stats(ctx context.Context) (model.Stats, error) {
	c.mu.Lock()
	all, err := c.lists(ctx)
	c.mu.Unlock()
	if err != nil {
		return model.Stats{}, err
	}
	return model.Summarize(all, db.DefaultTopN), nil
}
