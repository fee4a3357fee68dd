package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a target as JSON",
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

		data, err := store.Export(context.Background(), s.TargetRepo(), args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" || out == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		a.printer.Success("exported %s to %s", args[0], out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
