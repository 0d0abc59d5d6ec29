package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/shoppingify/internal/model"
)

// run executes the CLI against a throwaway config and returns what it printed.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := color.Output
	color.Output = &out
	t.Cleanup(func() { color.Output = prev })

	// flag vars outlive a single Execute
	format, showIDs, cancelYes = "default", false, false
	historyPage, historySince, historyPerPage = "1", "", 10
	itemCategory, itemNote, itemImage = "", "", ""

	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.yaml")
	yaml := "account:\n  mode: local\n  email: test@example.com\ndatabase:\n  path: " +
		filepath.Join(dir, "shoppingify.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestListWorkflow(t *testing.T) {
	cfgPath := testConfig(t)

	out, err := run(t, cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items")

	out, err = run(t, cfgPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already has the default items", "the local user is seeded on first use")

	_, err = run(t, cfgPath, "list", "add", "banana", "Salmon", "Banana")
	require.NoError(t, err)

	out, err = run(t, cfgPath, "list", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Banana,Food and Vegetables,2,false")
	assert.Contains(t, out, "Salmon,Meat and Fish,1,false")

	_, err = run(t, cfgPath, "list", "qty", "Banana", "+3")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "list", "qty", "--", "Banana", "-1")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "list", "check", "Salmon")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "list", "name", "Weekend")
	require.NoError(t, err)

	out, err = run(t, cfgPath, "list", "-f", "json")
	require.NoError(t, err)
	var l model.ShoppingList
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Equal(t, "Weekend", l.Name)
	require.Len(t, l.Items, 2)
	for _, e := range l.Items {
		switch e.Name {
		case "Banana":
			assert.Equal(t, 4, e.Quantity)
		case "Salmon":
			assert.True(t, e.Checked)
		}
	}

	_, err = run(t, cfgPath, "list", "rm", "nope")
	assert.ErrorContains(t, err, "not on the list")

	out, err = run(t, cfgPath, "list", "complete")
	require.NoError(t, err)
	assert.Contains(t, out, `"Weekend" completed with 2 items`)

	out, err = run(t, cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items")

	out, err = run(t, cfgPath, "history", "-f", "json")
	require.NoError(t, err)
	var page model.ListPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Lists, 1)
	assert.Equal(t, model.ListCompleted, page.Lists[0].State)

	out, err = run(t, cfgPath, "history", "show", page.Lists[0].ID, "-f", "quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Banana")

	_, err = run(t, cfgPath, "history", "show", "missing")
	assert.ErrorContains(t, err, "not found")

	out, err = run(t, cfgPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Banana")
}

func TestCompleteEmptyListIsNoop(t *testing.T) {
	cfgPath := testConfig(t)
	out, err := run(t, cfgPath, "list", "complete")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to close")
}

func TestCancelNeedsConfirmation(t *testing.T) {
	cfgPath := testConfig(t)
	_, err := run(t, cfgPath, "list", "add", "Avocado")
	require.NoError(t, err)

	// no answer on stdin means no
	out, err := run(t, cfgPath, "list", "cancel")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure that you want to cancel this list?")

	out, err = run(t, cfgPath, "list", "-f", "quiet")
	require.NoError(t, err)
	assert.Equal(t, "Avocado\n", out)

	_, err = run(t, cfgPath, "list", "cancel", "--yes")
	require.NoError(t, err)
	out, err = run(t, cfgPath, "history", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"state":"CANCELED"`)
}

func TestItemAndCategoryCommands(t *testing.T) {
	cfgPath := testConfig(t)

	out, err := run(t, cfgPath, "item", "add", "Kiwi", "--category", "Fruit", "--image", "not a url")
	assert.ErrorContains(t, err, "form has errors")
	assert.Contains(t, out, "Created category Fruit")

	_, err = run(t, cfgPath, "item", "add", "Kiwi", "-c", "fru")
	require.NoError(t, err)

	out, err = run(t, cfgPath, "item", "show", "kiwi")
	require.NoError(t, err)
	assert.Contains(t, out, "Fruit")

	_, err = run(t, cfgPath, "category", "add", "fruit")
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, cfgPath, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Beverages")
	assert.Contains(t, out, "Fruit")

	_, err = run(t, cfgPath, "list", "add", "Kiwi")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "item", "rm", "Kiwi")
	require.NoError(t, err)

	_, err = run(t, cfgPath, "item", "show", "Kiwi")
	assert.ErrorContains(t, err, "no item named")
	out, err = run(t, cfgPath, "list", "-f", "quiet")
	require.NoError(t, err)
	assert.Equal(t, "Kiwi\n", out, "listed entries survive catalog deletes")
}

func TestParseQuantity(t *testing.T) {
	for _, tc := range []struct {
		arg  string
		want int
	}{
		{"3", 3}, {"+2", 5}, {"-1", 2}, {"0", 0}, {"-5", -2},
	} {
		got, err := parseQuantity(tc.arg, 3)
		require.NoError(t, err, tc.arg)
		assert.Equal(t, tc.want, got, tc.arg)
	}
	_, err := parseQuantity("lots", 1)
	assert.Error(t, err)
}

func TestFindItemAmbiguous(t *testing.T) {
	items := []model.Item{{ID: "a", Name: "Milk"}, {ID: "b", Name: "milk"}}
	_, err := findItem(items, "MILK")
	assert.ErrorContains(t, err, "2 items are named")
	it, err := findItem(items, "b")
	require.NoError(t, err)
	assert.Equal(t, "milk", it.Name)
}
