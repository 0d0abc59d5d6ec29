// Package model holds the shopping entities shared by persistence, transport and the client store.
package model

import (
	"strings"
	"time"
)

// ListState is the lifecycle state of a shopping list.
type ListState string

const (
	ListOpen      ListState = "OPEN"
	ListCompleted ListState = "COMPLETED"
	ListCanceled  ListState = "CANCELED"
)

// Valid reports whether s is one of the known states.
func (s ListState) Valid() bool {
	switch s {
	case ListOpen, ListCompleted, ListCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s ListState) Terminal() bool {
	return s == ListCompleted || s == ListCanceled
}

// ParseListState accepts the state name in any case ("complete" and "cancel" included).
func ParseListState(s string) (ListState, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN":
		return ListOpen, true
	case "COMPLETED", "COMPLETE":
		return ListCompleted, true
	case "CANCELED", "CANCELLED", "CANCEL":
		return ListCanceled, true
	}
	return "", false
}

// DefaultListName is used for lists created implicitly by the first add.
const DefaultListName = "Shopping list"

// DraftOwner marks a list that only exists on the client.
const DraftOwner = ""

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	OwnerID      string    `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (i Item) GroupKey() string   { return i.CategoryID }
func (i Item) GroupLabel() string { return i.CategoryName }

// ItemInput is the payload used to create a catalog item.
type ItemInput struct {
	Name       string `json:"name"`
	Note       string `json:"note,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	CategoryID string `json:"categoryId"`
}

// ListEntry is one item on a shopping list.
type ListEntry struct {
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Quantity     int    `json:"quantity"`
	Checked      bool   `json:"checked"`
}

func (e ListEntry) GroupKey() string   { return e.CategoryID }
func (e ListEntry) GroupLabel() string { return e.CategoryName }

// EntryFor builds a fresh entry (quantity 1) for item.
func EntryFor(item Item) ListEntry {
	return ListEntry{
		ItemID:       item.ID,
		Name:         item.Name,
		CategoryID:   item.CategoryID,
		CategoryName: item.CategoryName,
		Quantity:     1,
	}
}

type ShoppingList struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	OwnerID   string      `json:"ownerId"`
	State     ListState   `json:"state"`
	Items     []ListEntry `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewDraft returns an unsaved open list.
func NewDraft(now time.Time) *ShoppingList {
	return &ShoppingList{
		Name:      DefaultListName,
		OwnerID:   DraftOwner,
		State:     ListOpen,
		Items:     []ListEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsDraft reports whether the list was created locally and never persisted.
func (l *ShoppingList) IsDraft() bool {
	return l != nil && l.OwnerID == DraftOwner
}

// IsEmpty reports whether the list has no entries (a nil list is empty).
func (l *ShoppingList) IsEmpty() bool {
	return l == nil || len(l.Items) == 0
}

// IndexOf returns the position of itemID in the list or -1.
func (l *ShoppingList) IndexOf(itemID string) int {
	if l == nil {
		return -1
	}
	for i, e := range l.Items {
		if e.ItemID == itemID {
			return i
		}
	}
	return -1
}

// TotalQuantity sums entry quantities.
func (l *ShoppingList) TotalQuantity() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.Items {
		n += e.Quantity
	}
	return n
}

// Pending counts entries not yet checked off.
func (l *ShoppingList) Pending() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.Items {
		if !e.Checked {
			n++
		}
	}
	return n
}

// Clone returns a deep copy; nil stays nil.
func (l *ShoppingList) Clone() *ShoppingList {
	if l == nil {
		return nil
	}
	cp := *l
	cp.Items = append([]ListEntry(nil), l.Items...)
	if cp.Items == nil {
		cp.Items = []ListEntry{}
	}
	return &cp
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Catalog is the full set of categories and items visible to an owner.
type Catalog struct {
	Categories []Category `json:"categories"`
	Items      []Item     `json:"items"`
}

// ListPage is one page of list history.
type ListPage struct {
	Lists      []ShoppingList `json:"lists"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
}

// HistoryQuery selects a page of past lists. A zero Since means no date filter.
type HistoryQuery struct {
	Page    int
	PerPage int
	Since   time.Time
}

// UIMode selects how the shopping-list panel behaves.
type UIMode int

const (
	ModeEditing UIMode = iota
	ModeCompleting
)

func (m UIMode) String() string {
	if m == ModeCompleting {
		return "COMPLETING"
	}
	return "EDITING"
}

// SidePanel identifies the view shown in the side panel.
type SidePanel int

const (
	PanelShoppingList SidePanel = iota
	PanelItemInfo
	PanelItemForm
)

func (p SidePanel) String() string {
	switch p {
	case PanelItemInfo:
		return "ITEM_INFO"
	case PanelItemForm:
		return "ITEM_FORM"
	default:
		return "SHOPPING_LIST"
	}
}
