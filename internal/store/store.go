// Package store is the client-side state container: catalog, active list,
// history and UI navigation, plus the actions that change them. Every
// account mode plugs into it through Backend.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/model"
)

// Backend persists the store's data for one account.
type Backend interface {
	Catalog(ctx context.Context) (model.Catalog, error)
	CreateItem(ctx context.Context, in model.ItemInput) (model.Item, error)
	CreateCategory(ctx context.Context, name string) (model.Category, error)
	GetItem(ctx context.Context, id string) (model.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ActiveList(ctx context.Context) (*model.ShoppingList, error)
	SaveList(ctx context.Context, l *model.ShoppingList) (*model.ShoppingList, error)
	SetListState(ctx context.Context, id string, state model.ListState) (*model.ShoppingList, error)
	GetList(ctx context.Context, id string) (*model.ShoppingList, error)
	History(ctx context.Context, q model.HistoryQuery) (model.ListPage, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// State is a point-in-time copy of the store for rendering.
type State struct {
	Items        []model.Item
	Categories   []model.Category
	ActiveList   *model.ShoppingList
	History      model.ListPage
	Mode         model.UIMode
	Panel        model.SidePanel
	PanelHistory []model.SidePanel
	CurrentItem  *model.Item
	Hydrated     bool
}

// Store is the client copy of the catalog, the active list, history and UI
// state. It is safe for concurrent use.
type Store struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	mu           sync.Mutex
	items        []model.Item
	categories   []model.Category
	active       *model.ShoppingList
	listVersion  uint64
	history      model.ListPage
	mode         model.UIMode
	panel        model.SidePanel
	panelHistory []model.SidePanel
	currentItem  *model.Item
	hydrated     bool
}

// New returns an empty store over backend; call Hydrate before use.
func New(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend: backend,
		log:     log.Named("store"),
		now:     func() time.Time { return time.Now().UTC() },
		mode:    model.ModeEditing,
		panel:   model.PanelShoppingList,
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Items:        append([]model.Item(nil), s.items...),
		Categories:   append([]model.Category(nil), s.categories...),
		ActiveList:   s.active.Clone(),
		History:      s.history,
		Mode:         s.mode,
		Panel:        s.panel,
		PanelHistory: append([]model.SidePanel(nil), s.panelHistory...),
		Hydrated:     s.hydrated,
	}
	st.History.Lists = make([]model.ShoppingList, len(s.history.Lists))
	for i := range s.history.Lists {
		st.History.Lists[i] = *s.history.Lists[i].Clone()
	}
	if s.currentItem != nil {
		it := *s.currentItem
		st.CurrentItem = &it
	}
	return st
}

// ActiveList returns a copy of the active list or nil.
func (s *Store) ActiveList() *model.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.Clone()
}

// Categories returns a copy of the known categories.
func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.categories...)
}

// Hydrate loads the catalog, the active list and the first history page.
// It only runs once per store; later calls return nil without touching the backend.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	done := s.hydrated
	s.mu.Unlock()
	if done {
		return nil
	}

	cat, err := s.backend.Catalog(ctx)
	if err != nil {
		s.log.Error("loading catalog", zap.Error(err))
		return fmt.Errorf("load catalog: %w", err)
	}
	fetched, err := s.backend.ActiveList(ctx)
	if err != nil {
		s.log.Warn("loading active list", zap.Error(err))
	}
	hist, err := s.backend.History(ctx, model.HistoryQuery{Page: 1})
	if err != nil {
		s.log.Warn("loading history", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return nil
	}
	s.items = cat.Items
	s.categories = cat.Categories
	if next := Reconcile(s.active, fetched); next != s.active {
		s.active = next.Clone()
		s.listVersion++
	}
	s.history = hist
	s.hydrated = true
	return nil
}

// FetchNewActiveList pulls the backend's active list and keeps whichever copy wins Reconcile.
func (s *Store) FetchNewActiveList(ctx context.Context) error {
	fetched, err := s.backend.ActiveList(ctx)
	if err != nil {
		s.log.Warn("fetching active list", zap.Error(err))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if next := Reconcile(s.active, fetched); next != s.active {
		s.active = next.Clone()
		s.listVersion++
	}
	return nil
}

// AddItemToList puts item on the active list, starting a draft if there is
// none. Adding an item that is already listed bumps its quantity.
func (s *Store) AddItemToList(ctx context.Context, item model.Item) {
	s.mutateList(ctx, true, func(l *model.ShoppingList) bool {
		if i := l.IndexOf(item.ID); i >= 0 {
			l.Items[i].Quantity++
			return true
		}
		l.Items = append(l.Items, model.EntryFor(item))
		return true
	})
}

// RemoveItemFromList takes itemID off the active list.
func (s *Store) RemoveItemFromList(ctx context.Context, itemID string) {
	s.mutateList(ctx, false, func(l *model.ShoppingList) bool {
		i := l.IndexOf(itemID)
		if i < 0 {
			return false
		}
		l.Items = append(l.Items[:i], l.Items[i+1:]...)
		return true
	})
}

// SetEntryQuantity sets an entry's quantity; n <= 0 removes the entry.
func (s *Store) SetEntryQuantity(ctx context.Context, itemID string, n int) {
	if n <= 0 {
		s.RemoveItemFromList(ctx, itemID)
		return
	}
	s.mutateList(ctx, false, func(l *model.ShoppingList) bool {
		i := l.IndexOf(itemID)
		if i < 0 || l.Items[i].Quantity == n {
			return false
		}
		l.Items[i].Quantity = n
		return true
	})
}

// ToggleEntryChecked flips the checked flag of itemID on the active list.
func (s *Store) ToggleEntryChecked(ctx context.Context, itemID string) {
	s.mutateList(ctx, false, func(l *model.ShoppingList) bool {
		i := l.IndexOf(itemID)
		if i < 0 {
			return false
		}
		l.Items[i].Checked = !l.Items[i].Checked
		return true
	})
}

// SetListName renames the active list. Blank names are ignored.
func (s *Store) SetListName(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.mutateList(ctx, false, func(l *model.ShoppingList) bool {
		if l.Name == name {
			return false
		}
		l.Name = name
		return true
	})
}

// mutateList applies fn to the active list and, when fn reports a change,
// syncs a copy to the backend outside the lock. Sync failures are logged and
// the local change stays.
func (s *Store) mutateList(ctx context.Context, create bool, fn func(l *model.ShoppingList) bool) {
	s.mu.Lock()
	if s.active == nil {
		if !create {
			s.mu.Unlock()
			return
		}
		s.active = model.NewDraft(s.now())
	}
	if !fn(s.active) {
		s.mu.Unlock()
		return
	}
	s.active.UpdatedAt = s.now()
	s.listVersion++
	sent, version := s.active.Clone(), s.listVersion
	s.mu.Unlock()

	saved, err := s.backend.SaveList(ctx, sent)
	if err != nil {
		s.log.Warn("syncing shopping list", zap.String("list_id", sent.ID), zap.Error(err))
		return
	}
	s.adoptSaved(saved, version)
}

func (s *Store) adoptSaved(saved *model.ShoppingList, version uint64) {
	if saved == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	if s.listVersion == version {
		s.active = saved.Clone()
		return
	}
	// newer local edits are in flight; only take the identity the backend assigned
	if s.active.IsDraft() {
		s.active.ID = saved.ID
		s.active.OwnerID = saved.OwnerID
		s.active.CreatedAt = saved.CreatedAt
	}
}

// SetListState completes or cancels the active list and returns the closed
// copy. Missing or empty lists are left alone and yield nil. On success the
// list moves to history, replacing any older copy of it there, and the store
// goes back to editing with no active list.
func (s *Store) SetListState(ctx context.Context, state model.ListState) (*model.ShoppingList, error) {
	if !state.Terminal() {
		return nil, fmt.Errorf("cannot move the active list to %s", state)
	}

	s.mu.Lock()
	if s.active.IsEmpty() {
		s.mu.Unlock()
		return nil, nil
	}
	l := s.active.Clone()
	s.mu.Unlock()

	if l.IsDraft() {
		saved, err := s.backend.SaveList(ctx, l)
		if err != nil {
			s.log.Warn("saving draft before closing", zap.Error(err))
			return nil, err
		}
		l = saved
	}
	closed, err := s.backend.SetListState(ctx, l.ID, state)
	if err != nil {
		s.log.Warn("closing shopping list", zap.String("list_id", l.ID), zap.String("state", string(state)), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	s.listVersion++
	// the loaded page may still hold the list as OPEN
	lists := []model.ShoppingList{*closed.Clone()}
	replaced := false
	for _, h := range s.history.Lists {
		if h.ID == closed.ID {
			replaced = true
			continue
		}
		lists = append(lists, h)
	}
	s.history.Lists = lists
	if !replaced {
		s.history.Total++
	}
	s.mode = model.ModeEditing
	return closed.Clone(), nil
}

// CreateItem adds a catalog item through the backend.
func (s *Store) CreateItem(ctx context.Context, in model.ItemInput) (model.Item, error) {
	it, err := s.backend.CreateItem(ctx, in)
	if err != nil {
		s.log.Warn("creating item", zap.String("name", in.Name), zap.Error(err))
		return model.Item{}, err
	}
	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
	return it, nil
}

// CreateCategory adds a category through the backend.
func (s *Store) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	c, err := s.backend.CreateCategory(ctx, name)
	if err != nil {
		s.log.Warn("creating category", zap.String("name", name), zap.Error(err))
		return model.Category{}, err
	}
	s.mu.Lock()
	s.categories = append(s.categories, c)
	s.mu.Unlock()
	return c, nil
}

// DeleteItem removes a catalog item. Lists keep their copy of its name.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := s.backend.DeleteItem(ctx, id); err != nil {
		s.log.Warn("deleting item", zap.String("item_id", id), zap.Error(err))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if s.currentItem != nil && s.currentItem.ID == id {
		s.currentItem = nil
	}
	return nil
}

// LoadHistory fetches a page of past lists and keeps it for rendering.
func (s *Store) LoadHistory(ctx context.Context, q model.HistoryQuery) (model.ListPage, error) {
	page, err := s.backend.History(ctx, q)
	if err != nil {
		return model.ListPage{}, err
	}
	s.mu.Lock()
	s.history = page
	s.mu.Unlock()
	return page, nil
}

// HistoryList loads one past list for the detail view.
func (s *Store) HistoryList(ctx context.Context, id string) (*model.ShoppingList, error) {
	return s.backend.GetList(ctx, id)
}

// Item loads one catalog item from the backend.
func (s *Store) Item(ctx context.Context, id string) (model.Item, error) {
	return s.backend.GetItem(ctx, id)
}

// Stats loads statistics over completed lists.
func (s *Store) Stats(ctx context.Context) (model.Stats, error) {
	return s.backend.Stats(ctx)
}

// SetActiveSidePanel shows p, remembering the current panel for PopSidePanel.
func (s *Store) SetActiveSidePanel(p model.SidePanel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelHistory = append(s.panelHistory, s.panel)
	s.panel = p
}

// PopSidePanel returns to the previous panel, or the shopping list when there is none.
func (s *Store) PopSidePanel() model.SidePanel {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.panelHistory)
	if n == 0 {
		s.panel = model.PanelShoppingList
		return s.panel
	}
	s.panel = s.panelHistory[n-1]
	s.panelHistory = s.panelHistory[:n-1]
	return s.panel
}

// SetUIMode switches between editing and completing.
func (s *Store) SetUIMode(m model.UIMode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

// ToggleUIMode flips the UI mode and returns the new one.
func (s *Store) ToggleUIMode() model.UIMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == model.ModeEditing {
		s.mode = model.ModeCompleting
	} else {
		s.mode = model.ModeEditing
	}
	return s.mode
}

// SetCurrentItem picks the item shown in the item-info panel.
func (s *Store) SetCurrentItem(item model.Item) {
	s.mu.Lock()
	s.currentItem = &item
	s.mu.Unlock()
}
