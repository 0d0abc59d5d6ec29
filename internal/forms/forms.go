// Package forms validates the item and list-name inputs and turns them into
// store actions. The UI renders FieldErrors next to each field.
package forms

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/store"
)

const (
	FieldName     = "name"
	FieldNote     = "note"
	FieldImageURL = "imageUrl"
	FieldCategory = "category"
)

const (
	MsgNameRequired   = "Name is required"
	MsgInvalidURL     = "Invalid url"
	MsgSelectCategory = "Select a category"
)

// ErrInvalid is returned by Submit when validation fails.
var ErrInvalid = errors.New("form has errors")

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

// Empty reports whether there are no errors.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// ItemForm is the "add a new item" panel.
type ItemForm struct {
	Name          string
	Note          string
	ImageURL      string
	CategoryQuery string
	Category      *model.Category

	Errors FieldErrors
}

// Validate checks the name, the optional image url and the category.
func (f *ItemForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}
	if raw := strings.TrimSpace(f.ImageURL); raw != "" && !validURL(raw) {
		errs[FieldImageURL] = MsgInvalidURL
	}
	if f.Category == nil {
		errs[FieldCategory] = MsgSelectCategory
	}
	return errs
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FilterCategories returns the categories whose name starts with the query,
// ignoring case. An empty query matches everything.
func (f *ItemForm) FilterCategories(all []model.Category) []model.Category {
	q := strings.ToLower(strings.TrimSpace(f.CategoryQuery))
	out := make([]model.Category, 0, len(all))
	for _, c := range all {
		if strings.HasPrefix(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// CanCreateCategory reports whether the query names a category that does not exist yet.
func (f *ItemForm) CanCreateCategory(all []model.Category) bool {
	if strings.TrimSpace(f.CategoryQuery) == "" {
		return false
	}
	return len(f.FilterCategories(all)) == 0
}

// SelectCategory picks c and mirrors its name into the query field.
func (f *ItemForm) SelectCategory(c model.Category) {
	f.Category = &c
	f.CategoryQuery = c.Name
	delete(f.Errors, FieldCategory)
}

// CreateCategory creates a category named after the query and selects it.
func (f *ItemForm) CreateCategory(ctx context.Context, s *store.Store) (model.Category, error) {
	name := strings.TrimSpace(f.CategoryQuery)
	if name == "" {
		return model.Category{}, ErrInvalid
	}
	c, err := s.CreateCategory(ctx, name)
	if err != nil {
		return model.Category{}, err
	}
	f.SelectCategory(c)
	return c, nil
}

// Submit validates the form, creates the item and shows it in the item-info panel.
func (f *ItemForm) Submit(ctx context.Context, s *store.Store) (model.Item, error) {
	f.Errors = f.Validate()
	if !f.Errors.Empty() {
		return model.Item{}, ErrInvalid
	}
	it, err := s.CreateItem(ctx, model.ItemInput{
		Name:       strings.TrimSpace(f.Name),
		Note:       strings.TrimSpace(f.Note),
		ImageURL:   strings.TrimSpace(f.ImageURL),
		CategoryID: f.Category.ID,
	})
	if err != nil {
		return model.Item{}, err
	}
	s.SetCurrentItem(it)
	s.PopSidePanel()
	s.SetActiveSidePanel(model.PanelItemInfo)
	f.Reset()
	return it, nil
}

// Reset clears every field and error.
func (f *ItemForm) Reset() {
	*f = ItemForm{}
}

// ListNameForm renames the active list.
type ListNameForm struct {
	Name   string
	Errors FieldErrors
}

// Disabled reports whether there is nothing to name yet.
func (f *ListNameForm) Disabled(l *model.ShoppingList) bool {
	return l.IsEmpty()
}

// Submit renames the active list l. Blank names set a field error.
func (f *ListNameForm) Submit(ctx context.Context, s *store.Store, l *model.ShoppingList) error {
	if f.Disabled(l) {
		return ErrInvalid
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		f.Errors = FieldErrors{FieldName: MsgNameRequired}
		return ErrInvalid
	}
	f.Errors = nil
	s.SetListName(ctx, name)
	f.Name = ""
	return nil
}
