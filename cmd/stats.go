package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Top items, top categories and items bought per month",
	Long: `Shows statistics over completed lists: the most bought items and
categories as a share of all quantities, and totals per month.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, b, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		st, err := s.Stats(cmd.Context())
		if err != nil {
			return err
		}
		r, err := renderer()
		if err != nil {
			return err
		}
		return printRendered(r.RenderStats(st))
	},
}
