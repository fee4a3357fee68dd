package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a target and its stage events",
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

		if err := s.TargetRepo().Delete(context.Background(), args[0]); err != nil {
			return err
		}
		a.printer.Success("deleted %s", args[0])
		return nil
	},
}
