package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/target"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a learning target",
	Long: "Create a learning target in SPROUTING.\n\n" +
		"Without --unit the target is reviewed as a whole (TARGET mode). Each --unit\n" +
		"adds a separately scheduled unit (SPLIT mode), written as id=path or just\n" +
		"path, in which case the path doubles as the id.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		at, err := timeFlag(cmd, "at")
		if err != nil {
			return err
		}
		desc, _ := cmd.Flags().GetString("description")
		unitArgs, _ := cmd.Flags().GetStringArray("unit")

		id := uuid.NewString()
		t := target.New(id, args[0], at)
		if len(unitArgs) > 0 {
			units, err := parseUnits(unitArgs)
			if err != nil {
				return err
			}
			if t, err = target.NewSplit(id, args[0], units, at); err != nil {
				return err
			}
		}
		t.Description = desc

		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.TargetRepo().Create(context.Background(), t); err != nil {
			return fmt.Errorf("create target: %w", err)
		}
		a.printer.Success("created %s (%s mode)", id, t.Mode())
		return nil
	},
}

func parseUnits(args []string) ([]target.Unit, error) {
	units := make([]target.Unit, 0, len(args))
	for _, arg := range args {
		id, path, found := strings.Cut(arg, "=")
		if !found {
			path = id
		}
		id, path = strings.TrimSpace(id), strings.TrimSpace(path)
		if id == "" || path == "" {
			return nil, fmt.Errorf("unit %q: want id=path or path", arg)
		}
		units = append(units, target.Unit{ID: id, UnitPath: path})
	}
	return units, nil
}

func init() {
	newCmd.Flags().String("description", "", "Longer description of the target")
	newCmd.Flags().StringArray("unit", nil, "Add a unit (id=path); repeat for SPLIT mode")
	newCmd.Flags().String("at", "", "Creation time in RFC3339 (default now)")
}
