package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/engine"
	"github.com/01Taka/rooted/internal/logging"
	"github.com/01Taka/rooted/internal/target"
	"github.com/01Taka/rooted/internal/ui/view"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a run of identical reviews on a throwaway target",
	Long: "Create a target in memory and apply the same evaluation at a fixed\n" +
		"interval, printing the stage and schedule after every review. Nothing is\n" +
		"written to the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		rawEval, _ := cmd.Flags().GetString("eval")
		every, _ := cmd.Flags().GetDuration("every")
		count, _ := cmd.Flags().GetInt("count")
		unitList, _ := cmd.Flags().GetString("units")
		start, err := timeFlag(cmd, "start")
		if err != nil {
			return err
		}
		if count <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		if every <= 0 {
			return fmt.Errorf("--every must be positive")
		}

		_, ev, err := a.parseEvaluation(rawEval)
		if err != nil {
			return err
		}

		var unitIDs []string
		t := target.New(uuid.NewString(), "simulation", start)
		if unitList != "" {
			unitIDs = strings.Split(unitList, ",")
			units, err := parseUnits(unitIDs)
			if err != nil {
				return err
			}
			if t, err = target.NewSplit(t.ID, t.Title, units, start); err != nil {
				return err
			}
			for i, u := range units {
				unitIDs[i] = u.ID
			}
		}

		out := cmd.OutOrStdout()
		for i, b := range engine.Steps(start.Add(every), every, count, ev, unitIDs...) {
			next, err := a.engine.Update(t, b.Evaluations, b.At)
			if err != nil {
				return fmt.Errorf("review %d: %w", i+1, err)
			}
			line := fmt.Sprintf("#%-3d %s  %-12s", i+1, b.At.In(a.loc).Format("2006-01-02 15:04"), next.Stage())
			if len(next.StageHistory) > len(t.StageHistory) {
				line += "  promoted"
			}
			if d, ok := target.SM2(next.State); ok {
				line += fmt.Sprintf("  I=%-4d EF=%.2f  next %s", d.State.Interval, d.State.EaseFactor,
					logging.FormatDays(int(d.NextReviewDate.Sub(b.At).Hours()/24)))
			}
			fmt.Fprintln(out, line)
			t = next
		}

		fmt.Fprintln(out)
		a.render(cmd, view.Card(&t, start.Add(time.Duration(count)*every)))
		return nil
	},
}

func init() {
	simulateCmd.Flags().String("eval", "star:4", "Evaluation applied at every review")
	simulateCmd.Flags().Duration("every", 24*time.Hour, "Time between reviews")
	simulateCmd.Flags().Int("count", 10, "Number of reviews")
	simulateCmd.Flags().String("units", "", "Comma separated unit ids; simulates a SPLIT target")
	simulateCmd.Flags().String("start", "", "Creation time in RFC3339 (default now)")
}
