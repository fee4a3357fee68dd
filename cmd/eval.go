package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/target"
)

var evalCmd = &cobra.Command{
	Use:   "eval <id> <evaluation>...",
	Short: "Record one review of a target",
	Long: "Record one batch of evaluations made at the same moment.\n\n" +
		"Evaluations are tap, pass, fail, star:N (0-5) or score:P (0-100). A bare\n" +
		"number is read in the configured numeric mode. SPLIT targets take one\n" +
		"evaluation per reviewed unit as unitID=evaluation.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		at, err := timeFlag(cmd, "at")
		if err != nil {
			return err
		}

		evals := make(map[string]evaluation.Evaluation, len(args)-1)
		for _, arg := range args[1:] {
			unit, ev, err := a.parseEvaluation(arg)
			if err != nil {
				return err
			}
			if _, dup := evals[unit]; dup {
				return fmt.Errorf("unit %q evaluated twice", unit)
			}
			evals[unit] = ev
		}

		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var before target.LearningTarget
		rec, err := s.TargetRepo().Update(context.Background(), args[0], func(t target.LearningTarget) (target.LearningTarget, error) {
			before = t
			return a.engine.Update(t, evals, at)
		})
		if err != nil {
			return err
		}

		t := rec.Target
		if len(t.StageHistory) > len(before.StageHistory) {
			a.printer.Success("%s promoted: %s -> %s", t.ID, before.Stage(), t.Stage())
		} else {
			a.printer.Info("%s stays in %s", t.ID, t.Stage())
		}
		if t.IsInGreenhouse {
			a.printer.Info("%s is in the greenhouse; the review was recorded as a greenhouse activity", t.ID)
		}
		if next, ok := t.NextReviewDate(); ok {
			a.printer.Info("next review %s", next.In(a.loc).Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().String("at", "", "Review time in RFC3339 (default now)")
}
