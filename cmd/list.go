package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/forms"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/store"
)

var cancelYes bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Work with the active shopping list",
	Long: `Shows the active shopping list. Subcommands add and remove items,
change quantities, check items off and close the list.`,
	Args: cobra.NoArgs,
	RunE: showActive,
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active list grouped by category",
	Args:  cobra.NoArgs,
	RunE:  showActive,
}

func showActive(cmd *cobra.Command, args []string) error {
	s, b, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()
	r, err := renderer()
	if err != nil {
		return err
	}
	return printRendered(r.RenderList(s.ActiveList()))
}

var listAddCmd = &cobra.Command{
	Use:   "add <item>...",
	Short: "Put catalog items on the list",
	Long: `Puts one or more catalog items (by name or id) on the active list,
starting a new list when there is none. Adding an item twice raises its quantity.`,
	Example: `  shoppingify list add Banana Salmon
  shoppingify list add "Chicken 1kg"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		items := s.Snapshot().Items
		found := make([]model.Item, 0, len(args))
		for _, ref := range args {
			it, err := findItem(items, ref)
			if err != nil {
				return err
			}
			found = append(found, it)
		}
		for _, it := range found {
			s.AddItemToList(ctx, it)
			l := s.ActiveList()
			success("%s × %d", it.Name, l.Items[l.IndexOf(it.ID)].Quantity)
		}
		checkSynced(s)
		return nil
	},
}

var listRmCmd = &cobra.Command{
	Use:     "rm <item>",
	Aliases: []string{"remove"},
	Short:   "Take an item off the list",
	Args:    cobra.MinimumNArgs(1),
	RunE: withEntry(0, func(cmd *cobra.Command, s *store.Store, e model.ListEntry, _ []string) error {
		s.RemoveItemFromList(cmd.Context(), e.ItemID)
		success("Removed %s", e.Name)
		return nil
	}),
}

var listQtyCmd = &cobra.Command{
	Use:   "qty <item> <n|+n|-n>",
	Short: "Set or change an item's quantity",
	Long: `Sets the quantity of a listed item. +n and -n change it relative to now;
0 or less removes it. Put -- before a negative change so it is not read as a flag.`,
	Example: `  shoppingify list qty Banana 3
  shoppingify list qty -- Banana -1`,
	Args: cobra.MinimumNArgs(2),
	RunE: withEntry(1, func(cmd *cobra.Command, s *store.Store, e model.ListEntry, rest []string) error {
		n, err := parseQuantity(rest[0], e.Quantity)
		if err != nil {
			return err
		}
		s.SetEntryQuantity(cmd.Context(), e.ItemID, n)
		if n <= 0 {
			success("Removed %s", e.Name)
		} else {
			success("%s × %d", e.Name, n)
		}
		return nil
	}),
}

var listCheckCmd = &cobra.Command{
	Use:     "check <item>",
	Aliases: []string{"toggle"},
	Short:   "Check an item off, or uncheck it",
	Args:    cobra.MinimumNArgs(1),
	RunE: withEntry(0, func(cmd *cobra.Command, s *store.Store, e model.ListEntry, _ []string) error {
		s.ToggleEntryChecked(cmd.Context(), e.ItemID)
		if e.Checked {
			success("Unchecked %s", e.Name)
		} else {
			success("Checked %s", e.Name)
		}
		return nil
	}),
}

var listNameCmd = &cobra.Command{
	Use:     "name <name>",
	Aliases: []string{"rename"},
	Short:   "Rename the active list",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		l := s.ActiveList()
		f := forms.ListNameForm{Name: strings.Join(args, " ")}
		if f.Disabled(l) {
			return errors.New("add items before naming the list")
		}
		if err := f.Submit(ctx, s, l); err != nil {
			if msg, ok := f.Errors[forms.FieldName]; ok {
				return errors.New(msg)
			}
			return err
		}
		checkSynced(s)
		success("List renamed to %s", s.ActiveList().Name)
		return nil
	},
}

var listCompleteCmd = &cobra.Command{
	Use:     "complete",
	Aliases: []string{"done"},
	Short:   "Mark the active list completed and move it to history",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return closeActive(cmd, model.ListCompleted)
	},
}

var listCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the active list and move it to history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return closeActive(cmd, model.ListCanceled)
	},
}

func closeActive(cmd *cobra.Command, state model.ListState) error {
	ctx := cmd.Context()
	s, b, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	l := s.ActiveList()
	if l.IsEmpty() {
		warn("the list is empty, nothing to close")
		return nil
	}
	if state == model.ListCanceled && !cancelYes {
		ok, err := confirm(cmd, "Are you sure that you want to cancel this list?")
		if err != nil || !ok {
			return err
		}
	}
	closed, err := s.SetListState(ctx, state)
	if err != nil {
		return err
	}
	if closed == nil {
		warn("the list is empty, nothing to close")
		return nil
	}
	if closed.State == model.ListCompleted {
		success("%q completed with %d items", closed.Name, len(closed.Items))
	} else {
		success("%q cancelled", closed.Name)
	}
	return nil
}

// confirm reads a y/n answer from the command's input.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", bold.Sprint(question))
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// withEntry opens the store, finds the entry named by all but the last
// trailing args and hands those to fn.
func withEntry(trailing int, fn func(cmd *cobra.Command, s *store.Store, e model.ListEntry, rest []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, b, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		cut := len(args) - trailing
		e, err := findEntry(s.ActiveList(), strings.Join(args[:cut], " "))
		if err != nil {
			return err
		}
		if err := fn(cmd, s, e, args[cut:]); err != nil {
			return err
		}
		checkSynced(s)
		return nil
	}
}

// parseQuantity reads "3", "+1" or "-2" against the current quantity.
func parseQuantity(arg string, current int) (int, error) {
	arg = strings.TrimSpace(arg)
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", arg)
	}
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		return current + n, nil
	}
	return n, nil
}

func init() {
	listCancelCmd.Flags().BoolVarP(&cancelYes, "yes", "y", false, "Do not ask for confirmation")

	listCmd.AddCommand(listShowCmd, listAddCmd, listRmCmd, listQtyCmd, listCheckCmd,
		listNameCmd, listCompleteCmd, listCancelCmd)
}
