package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/utils"
)

var (
	historyPage    string
	historyPerPage int
	historySince   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse completed and cancelled lists",
	Long: `Lists past shopping lists, newest first.

--since accepts dates like 2024-03-01, "last month", "this week", 2w or "3 days ago".
--page accepts a number, first or last.`,
	Example: `  shoppingify history
  shoppingify history --since "last month" --page last
  shoppingify history show <id>`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		q := model.HistoryQuery{PerPage: historyPerPage}
		if historySince != "" {
			q.Since, err = utils.ParseSince(historySince, time.Now(), cfg.Location())
			if err != nil {
				return err
			}
		}

		// "last" needs the page count, which only the first page tells us
		q.Page, err = utils.ParsePage(historyPage, 0)
		if err != nil {
			first, ferr := s.LoadHistory(ctx, model.HistoryQuery{Page: 1, PerPage: q.PerPage, Since: q.Since})
			if ferr != nil {
				return ferr
			}
			if q.Page, err = utils.ParsePage(historyPage, max(first.TotalPages, 1)); err != nil {
				return err
			}
		}

		page, err := s.LoadHistory(ctx, q)
		if err != nil {
			return err
		}
		r, err := renderer()
		if err != nil {
			return err
		}
		return printRendered(r.RenderHistory(&page))
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one past list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		id := strings.TrimSpace(args[0])
		l, err := s.HistoryList(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("list %s not found", id)
		}
		if err != nil {
			return err
		}
		r, err := renderer()
		if err != nil {
			return err
		}
		return printRendered(r.RenderList(l))
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyPage, "page", "p", "1", "Page number, first or last")
	historyCmd.Flags().IntVar(&historyPerPage, "per-page", 10, "Lists per page")
	historyCmd.Flags().StringVarP(&historySince, "since", "s", "", "Only lists created on or after this date")

	historyCmd.AddCommand(historyShowCmd)
}
