package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/ui/view"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a target's stage, streak and schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.TargetRepo().Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		a.render(cmd, view.Card(&rec.Target, time.Now()))
		return nil
	},
}
