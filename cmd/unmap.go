package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unmapOutDirFlag string

// unmapCmd represents the unmap command.
var unmapCmd = newUnmapCmd()

func newUnmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmap <js-or-map>",
		Short: "Recover original sources from a source map",
		Long: `Unmap reads a compiled JS file or a .map file and writes every original
source the map embeds into the output directory. Recovered paths are
sanitized: bundler scheme prefixes (webpack://, ng://, ...) are stripped
and ".." segments collapsed so a hostile map cannot escape the output
directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, ui := newWorkflow(cmd, args)
			defer ui.Close()

			written, skipped, err := workflow.RecoverSources(args[0], unmapOutDirFlag)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recovered %d sources to %s (%d without content)\n",
				written, unmapOutDirFlag, skipped)

			return nil
		},
	}

	cmd.Flags().StringVarP(&unmapOutDirFlag, "out-dir", "o", "jsretk_unmapped", "output directory")

	return cmd
}

func init() {
	rootCmd.AddCommand(unmapCmd)
}
