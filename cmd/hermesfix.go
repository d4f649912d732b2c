package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeanPesce/JSRETK/internal/domain"
	"github.com/SeanPesce/JSRETK/internal/model"
)

var (
	hermesIterationsFlag int
	hermesOutFlag        string
)

// hermesFixCmd represents the hermesfix command.
var hermesFixCmd = newHermesFixCmd()

func newHermesFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hermesfix <file>",
		Short: "Repair common syntax defects in decompiled Hermes bytecode output",
		Long: `Hermesfix applies textual repairs to JavaScript emitted by Hermes
bytecode decompilers, which produce identifiers and regex literals that
are not valid ES syntax. Each fix rewrites one defect per line per
pass, so the full set of passes runs every time; raise --iterations
for files with many defects on a single line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := model.FixOptions{Iterations: hermesIterationsFlag}

			workflow, ui := newWorkflow(cmd, args)
			defer ui.Close()

			outPath, err := workflow.FixHermesFile(args[0], hermesOutFlag, opts)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)

			return nil
		},
	}

	cmd.Flags().IntVarP(&hermesIterationsFlag, "iterations", "n", model.DefaultFixIterations, "number of fix passes to run")
	cmd.Flags().StringVarP(&hermesOutFlag, "output", "o", "", "output path (default: input plus \""+domain.DefaultFixedExt+"\")")

	return cmd
}

func init() {
	rootCmd.AddCommand(hermesFixCmd)
}
