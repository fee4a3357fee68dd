package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/store"
	"github.com/01Taka/rooted/internal/ui/view"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List stored stage transitions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		after, _ := cmd.Flags().GetInt64("after")

		var id string
		if len(args) == 1 {
			id = args[0]
		}

		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.TargetRepo().StageEvents(context.Background(), id, store.QueryOpts{Limit: limit, After: after})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stage events found.")
			return nil
		}

		for _, ev := range events {
			line := fmt.Sprintf("%5d  ", ev.Seq)
			if id == "" {
				line += ev.TargetID + "  "
			}
			a.render(cmd, line+view.Transition(ev.Transition))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "Max number of events (0 = all)")
	historyCmd.Flags().Int64("after", 0, "Only events with a sequence number above this")
}
