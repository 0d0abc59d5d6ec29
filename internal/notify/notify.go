// Package notify sends desktop notifications for list events and reminders.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ramanasai/shoppingify/internal/model"
)

const AppName = "Shoppingify"

// Sender delivers one notification. Desktop is the beeep-backed default.
type Sender func(title, message string) error

func Desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

// FormatReminder builds the reminder shown for the active list.
func FormatReminder(listName string, pending int) (string, string) {
	title := "Shopping reminder"
	switch {
	case pending == 0:
		return title, "Nothing left to buy. Start a new list?"
	case listName == "":
		return title, fmt.Sprintf("%d item%s still on your shopping list.", pending, plural(pending))
	default:
		return title, fmt.Sprintf("%d item%s still on %q.", pending, plural(pending), listName)
	}
}

// FormatClosed describes a list that was just completed or cancelled.
func FormatClosed(l *model.ShoppingList) string {
	if l == nil {
		return ""
	}
	if l.State == model.ListCanceled {
		return fmt.Sprintf("%q was cancelled.", l.Name)
	}
	n := l.TotalQuantity()
	return fmt.Sprintf("%q completed with %d item%s.", l.Name, n, plural(n))
}

// Closed announces l through send; nil lists are ignored.
func Closed(send Sender, l *model.ShoppingList) error {
	if l == nil || send == nil {
		return nil
	}
	return send(AppName, FormatClosed(l))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
