package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a target from JSON",
	Long:  "Load a target written by export. Use - to read from stdin. The document is\nchecked against the target schema and the stage invariants before it is stored.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		var raw []byte
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		s, err := a.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := store.Import(context.Background(), s.TargetRepo(), raw)
		if err != nil {
			return err
		}
		a.printer.Success("imported %s (%s, %s)", rec.Target.ID, rec.Target.Title, rec.Target.Stage())
		return nil
	},
}
