package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/shoppingify/internal/model"
)

func TestFormatReminder(t *testing.T) {
	_, msg := FormatReminder("Weekly", 3)
	assert.Equal(t, `3 items still on "Weekly".`, msg)

	_, msg = FormatReminder("", 1)
	assert.Equal(t, "1 item still on your shopping list.", msg)

	_, msg = FormatReminder("Weekly", 0)
	assert.Contains(t, msg, "Nothing left")
}

func TestClosed(t *testing.T) {
	var titles, msgs []string
	send := func(title, msg string) error {
		titles = append(titles, title)
		msgs = append(msgs, msg)
		return nil
	}

	l := &model.ShoppingList{Name: "Weekly", State: model.ListCompleted, Items: []model.ListEntry{{Quantity: 2}, {Quantity: 1}}}
	require.NoError(t, Closed(send, l))
	l = &model.ShoppingList{Name: "Party", State: model.ListCanceled}
	require.NoError(t, Closed(send, l))
	require.NoError(t, Closed(send, nil))

	assert.Equal(t, []string{AppName, AppName}, titles)
	assert.Equal(t, []string{`"Weekly" completed with 3 items.`, `"Party" was cancelled.`}, msgs)

	boom := errors.New("no dbus")
	err := Closed(func(string, string) error { return boom }, l)
	assert.ErrorIs(t, err, boom)
}
