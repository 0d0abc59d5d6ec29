package store

import "github.com/ramanasai/shoppingify/internal/model"

// Reconcile picks which active list to keep when a fetched copy arrives.
// The newer list wins, except that a draft never replaces what we hold.
// Nothing is merged; the result is one of the two inputs.
func Reconcile(local, fetched *model.ShoppingList) *model.ShoppingList {
	switch {
	case local == nil:
		return fetched
	case fetched == nil:
		return local
	case fetched.IsDraft():
		return local
	case fetched.UpdatedAt.After(local.UpdatedAt):
		return fetched
	default:
		return local
	}
}
