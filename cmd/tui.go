package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/notify"
	"github.com/ramanasai/shoppingify/internal/schedule"
	"github.com/ramanasai/shoppingify/internal/ui"
)

var noNotify bool

// tuiCmd launches the Bubble Tea TUI.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive shopping list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		s, b, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer b.close()

		send := notify.Sender(notify.Desktop)
		if noNotify {
			send = nil
		}

		if cfg.Reminder.Enabled && send != nil && os.Getenv("SHOPPINGIFY_NO_REMINDER") != "1" {
			r := &schedule.Reminder{
				Config:   cfg.Reminder,
				Location: cfg.Location(),
				Active: func(ctx context.Context) (*model.ShoppingList, error) {
					return s.ActiveList(), nil
				},
				Send: send,
				Log:  logger,
			}
			go r.Run(ctx)
		}

		return ui.Run(ctx, s, ui.Options{
			Theme:    cfg.Theme,
			Location: cfg.Location(),
			Log:      logger,
			OnClosed: func(l *model.ShoppingList) {
				if err := notify.Closed(send, l); err != nil {
					logger.Debug("desktop notification", zap.Error(err))
				}
			},
		})
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&noNotify, "no-notify", false, "Disable desktop notifications and reminders")
}
