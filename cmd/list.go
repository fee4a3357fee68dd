package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/store"
	"github.com/01Taka/rooted/internal/target"
	"github.com/01Taka/rooted/internal/ui/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets, soonest review first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		stageName, _ := cmd.Flags().GetString("stage")
		due, _ := cmd.Flags().GetBool("due")
		limit, _ := cmd.Flags().GetInt("limit")

		opts := store.ListOpts{Stage: stage.Stage(stageName), Limit: limit}
		if stageName != "" && !opts.Stage.Valid() {
			return fmt.Errorf("unknown stage %q", stageName)
		}
		now := time.Now()
		if due {
			opts.DueBefore = now
		}

		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.TargetRepo().List(context.Background(), opts)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No targets found.")
			return nil
		}

		targets := make([]target.LearningTarget, 0, len(recs))
		for _, r := range recs {
			targets = append(targets, r.Target)
		}
		a.render(cmd, view.Table(targets, now))
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d targets\n", len(targets))
		return nil
	},
}

func init() {
	listCmd.Flags().String("stage", "", "Only targets in this stage (e.g. BLOOMING)")
	listCmd.Flags().Bool("due", false, "Only targets due for review now")
	listCmd.Flags().Int("limit", 0, "Max number of targets (0 = all)")
}
