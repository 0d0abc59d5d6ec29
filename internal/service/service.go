// Package service holds the owner-scoped shopping operations shared by the
// local account mode and the HTTP API. It enforces the list lifecycle on top
// of internal/db.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/utils"
)

var (
	// ErrListClosed is returned when saving a list that is no longer OPEN.
	ErrListClosed = errors.New("list is closed")
	// ErrEmptyList is returned when completing or canceling a list without entries.
	ErrEmptyList = errors.New("list is empty")
	// ErrInvalidTransition is returned for any state change other than OPEN to a terminal state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrValidation wraps input problems (missing name, bad quantity, ...).
	ErrValidation = errors.New("invalid input")
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type Service struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

func New(dbh *sql.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: dbh, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Catalog(ctx context.Context, owner string) (model.Catalog, error) {
	return db.LoadCatalog(ctx, s.db, owner)
}

func (s *Service) CreateCategory(ctx context.Context, owner, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c, err := db.CreateCategory(ctx, s.db, owner, name)
	if err != nil {
		return model.Category{}, err
	}
	s.log.Info("category created", zap.String("owner", owner), zap.String("category", c.Name))
	return c, nil
}

func (s *Service) CreateItem(ctx context.Context, owner string, in model.ItemInput) (model.Item, error) {
	if err := validateItem(in); err != nil {
		return model.Item{}, err
	}
	it, err := db.CreateItem(ctx, s.db, owner, in)
	if err != nil {
		return model.Item{}, err
	}
	s.log.Info("item created", zap.String("owner", owner), zap.String("item", it.Name), zap.String("category", it.CategoryName))
	return it, nil
}

func validateItem(in model.ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if raw := strings.TrimSpace(in.ImageURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: invalid image url %q", ErrValidation, raw)
		}
	}
	return nil
}

func (s *Service) GetItem(ctx context.Context, owner, id string) (model.Item, error) {
	return db.GetItem(ctx, s.db, owner, id)
}

func (s *Service) DeleteItem(ctx context.Context, owner, id string) error {
	if err := db.DeleteItem(ctx, s.db, owner, id); err != nil {
		return err
	}
	s.log.Info("item deleted", zap.String("owner", owner), zap.String("item_id", id))
	return nil
}

// ActiveList returns the owner's OPEN list or nil.
func (s *Service) ActiveList(ctx context.Context, owner string) (*model.ShoppingList, error) {
	return db.ActiveList(ctx, s.db, owner)
}

// SaveList upserts the owner's active list. A draft (or a list without id)
// is written onto the existing OPEN list when there is one, otherwise a new
// list is created. Lists that are COMPLETED or CANCELED cannot be saved.
func (s *Service) SaveList(ctx context.Context, owner string, in *model.ShoppingList) (*model.ShoppingList, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: list is required", ErrValidation)
	}
	if in.State != "" && in.State != model.ListOpen {
		return nil, ErrListClosed
	}
	entries, err := normalizeEntries(in.Items)
	if err != nil {
		return nil, err
	}

	var out *model.ShoppingList
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		target, err := s.resolveTarget(ctx, tx, owner, in)
		if err != nil {
			return err
		}

		now := s.now()
		if target == nil {
			l := &model.ShoppingList{
				Name:      listName(in.Name, model.DefaultListName),
				OwnerID:   owner,
				State:     model.ListOpen,
				Items:     entries,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := db.InsertList(ctx, tx, l); err != nil {
				return err
			}
			out = l
			return nil
		}

		target.Name = listName(in.Name, target.Name)
		target.Items = entries
		target.UpdatedAt = now
		if err := db.UpdateList(ctx, tx, target); err != nil {
			return err
		}
		out = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("list saved", zap.String("owner", owner), zap.String("list_id", out.ID), zap.Int("entries", len(out.Items)))
	return out, nil
}

func (s *Service) resolveTarget(ctx context.Context, q db.Querier, owner string, in *model.ShoppingList) (*model.ShoppingList, error) {
	if in.ID == "" || in.IsDraft() {
		return db.ActiveList(ctx, q, owner)
	}
	existing, err := db.GetList(ctx, q, owner, in.ID)
	if errors.Is(err, db.ErrNotFound) {
		// an id we never issued: treat as a fresh draft
		return db.ActiveList(ctx, q, owner)
	}
	if err != nil {
		return nil, err
	}
	if existing.State != model.ListOpen {
		return nil, ErrListClosed
	}
	return existing, nil
}

func normalizeEntries(in []model.ListEntry) ([]model.ListEntry, error) {
	out := make([]model.ListEntry, 0, len(in))
	seen := make(map[string]int, len(in))
	for _, e := range in {
		if strings.TrimSpace(e.ItemID) == "" {
			return nil, fmt.Errorf("%w: entry without item id", ErrValidation)
		}
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
	return out, nil
}

func listName(name, fallback string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if fallback == "" {
		return model.DefaultListName
	}
	return fallback
}

// ListPatch changes a list's name and/or state.
type ListPatch struct {
	Name  *string          `json:"name,omitempty"`
	State *model.ListState `json:"state,omitempty"`
}

// UpdateList applies p to the owner's list id.
func (s *Service) UpdateList(ctx context.Context, owner, id string, p ListPatch) (*model.ShoppingList, error) {
	var out *model.ShoppingList
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := db.GetList(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			if l.State != model.ListOpen {
				return ErrListClosed
			}
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return fmt.Errorf("%w: list name is required", ErrValidation)
			}
			l.Name = name
		}
		if p.State != nil {
			if err := checkTransition(l, *p.State); err != nil {
				return err
			}
			l.State = *p.State
		}
		l.UpdatedAt = s.now()
		if err := db.UpdateList(ctx, tx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.State != nil {
		s.log.Info("list closed", zap.String("owner", owner), zap.String("list_id", id), zap.String("state", string(*p.State)))
	}
	return out, nil
}

// SetListState moves an OPEN list with entries to COMPLETED or CANCELED.
func (s *Service) SetListState(ctx context.Context, owner, id string, state model.ListState) (*model.ShoppingList, error) {
	return s.UpdateList(ctx, owner, id, ListPatch{State: &state})
}

func checkTransition(l *model.ShoppingList, to model.ListState) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrValidation, to)
	}
	if l.State != model.ListOpen || !to.Terminal() {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, l.State, to)
	}
	if l.IsEmpty() {
		return ErrEmptyList
	}
	return nil
}

func (s *Service) GetList(ctx context.Context, owner, id string) (*model.ShoppingList, error) {
	return db.GetList(ctx, s.db, owner, id)
}

// History returns one page of the owner's lists, newest first.
// Pages past the end are clamped to the last page.
func (s *Service) History(ctx context.Context, owner string, hq model.HistoryQuery) (model.ListPage, error) {
	perPage := hq.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	page := hq.Page
	if page < 1 {
		page = 1
	}

	lists, total, err := db.ListHistory(ctx, s.db, owner, perPage, (page-1)*perPage, hq.Since)
	if err != nil {
		return model.ListPage{}, err
	}
	p := utils.NewPagination(total, perPage, page)
	if p.Current != page {
		limit, offset := p.LimitOffset()
		if lists, total, err = db.ListHistory(ctx, s.db, owner, limit, offset, hq.Since); err != nil {
			return model.ListPage{}, err
		}
	}
	return model.ListPage{
		Lists:      lists,
		Total:      total,
		Page:       p.Current,
		PerPage:    perPage,
		TotalPages: p.TotalPages,
	}, nil
}

func (s *Service) Stats(ctx context.Context, owner string) (model.Stats, error) {
	return db.LoadStats(ctx, s.db, owner, db.DefaultTopN)
}

// Seed gives owner the default catalog; already present entries are kept.
func (s *Service) Seed(ctx context.Context, owner string) (db.SeedResult, error) {
	res, err := db.SeedDefaults(ctx, s.db, owner)
	if err != nil {
		return res, err
	}
	s.log.Info("catalog seeded", zap.String("owner", owner), zap.Int("categories", res.Categories), zap.Int("items", res.Items))
	return res, nil
}
