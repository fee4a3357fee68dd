package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/engine"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/store"
	"github.com/01Taka/rooted/internal/target"
)

var greenhouseCmd = &cobra.Command{
	Use:   "greenhouse",
	Short: "Park targets or bring them back",
	Long: "Targets in the greenhouse keep their stage and schedule. Reviews made\n" +
		"while parked are recorded but change nothing.",
}

var greenhouseInCmd = &cobra.Command{
	Use:   "in <id>",
	Short: "Move a target into the greenhouse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateGreenhouse(cmd, args[0], func(a *app, t target.LearningTarget, at time.Time) (target.LearningTarget, error) {
			return a.engine.MoveToGreenhouse(t, target.GreenhouseManual, at)
		}, "%s moved into the greenhouse")
	},
}

var greenhouseOutCmd = &cobra.Command{
	Use:   "out <id>",
	Short: "Return a target from the greenhouse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateGreenhouse(cmd, args[0], func(a *app, t target.LearningTarget, at time.Time) (target.LearningTarget, error) {
			return a.engine.ReturnFromGreenhouse(t, at)
		}, "%s is back from the greenhouse")
	},
}

var greenhouseSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Move expired HALL_OF_FAME targets into the greenhouse",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		at, err := timeFlag(cmd, "at")
		if err != nil {
			return err
		}
		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		moved, total, err := sweepHallOfFame(context.Background(), a, s.TargetRepo(), at)
		if err != nil {
			return err
		}
		a.printer.Success("%d of %d hall of fame targets moved into the greenhouse", moved, total)
		return nil
	},
}

// sweepHallOfFame parks every stored HALL_OF_FAME target whose slot has
// expired at at. It returns how many were moved out of how many looked at.
func sweepHallOfFame(ctx context.Context, a *app, repo store.TargetRepo, at time.Time) (int, int, error) {
	recs, err := repo.List(ctx, store.ListOpts{Stage: stage.HallOfFame})
	if err != nil {
		return 0, 0, err
	}

	moved := 0
	for _, r := range recs {
		_, expired, err := a.engine.ExpireHallOfFame(r.Target, at)
		if err != nil {
			return moved, len(recs), fmt.Errorf("sweep %s: %w", r.Target.ID, err)
		}
		if !expired {
			continue
		}
		_, err = repo.Update(ctx, r.Target.ID, func(t target.LearningTarget) (target.LearningTarget, error) {
			out, _, err := a.engine.ExpireHallOfFame(t, at)
			return out, err
		})
		if err != nil {
			return moved, len(recs), fmt.Errorf("sweep %s: %w", r.Target.ID, err)
		}
		moved++
		a.printer.Info("%s: hall of fame slot expired", r.Target.ID)
	}
	return moved, len(recs), nil
}

func updateGreenhouse(cmd *cobra.Command, id string, fn func(*app, target.LearningTarget, time.Time) (target.LearningTarget, error), done string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	at, err := timeFlag(cmd, "at")
	if err != nil {
		return err
	}
	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.TargetRepo().Update(context.Background(), id, func(t target.LearningTarget) (target.LearningTarget, error) {
		return fn(a, t, at)
	})
	if errors.Is(err, engine.ErrAlreadyInGreenhouse) || errors.Is(err, engine.ErrNotInGreenhouse) {
		a.printer.Warn("%v", err)
		return nil
	}
	if err != nil {
		return err
	}
	a.printer.Success(done, id)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{greenhouseInCmd, greenhouseOutCmd, greenhouseSweepCmd} {
		c.Flags().String("at", "", "Time of the move in RFC3339 (default now)")
		greenhouseCmd.AddCommand(c)
	}
}
