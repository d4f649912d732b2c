package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeanPesce/JSRETK/internal/domain"
	m "github.com/SeanPesce/JSRETK/internal/model"
)

var uniqueThresholdFlag int
var uniqueCharOrderFlag bool
var uniquePerLineFlag bool
var uniqueSmartRenameFlag bool
var uniquePrefixFlag string
var uniqueSuffixFlag string
var uniqueRenamePrefixFlag string
var uniqueRenameSuffixFlag string
var uniqueOutDirFlag string
var uniqueOutSuffixFlag string

// uniqueCmd represents the unique command.
var uniqueCmd = newUniqueCmd()

func newUniqueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unique [inputs...]",
		Short: "Rename short identifiers to unique synthetic names",
		Long: `Unique walks the source one identifier at a time. Every binding whose
declared name is at most the threshold length is renamed, all of its
occurrences at once, to a synthetic name like i_0_; the buffer is
re-tokenized after every rename so scope resolution always sees current
offsets. With --smart-rename, assignment patterns such as cfg['url'] = i_0_
are then used to recover readable names (srn_url_0_) where exactly one
candidate exists.

Expect long runs on large inputs: every rename re-parses the whole file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uniq := m.UniquifyOptions{
				Threshold:  uniqueThresholdFlag,
				Mode:       m.TokenOrder,
				PerLine:    uniquePerLineFlag,
				NamePrefix: uniquePrefixFlag,
				NameSuffix: uniqueSuffixFlag,
			}
			if uniqueCharOrderFlag {
				uniq.Mode = m.CharOrder
			}

			smart := m.DefaultSmartRenameOptions(uniq)
			smart.RenamePrefix = uniqueRenamePrefixFlag
			smart.RenameSuffix = uniqueRenameSuffixFlag

			workflow, ui := newWorkflow(cmd, args)
			defer ui.Close()

			results, err := workflow.ProcessFiles(args, domain.ProcessArgs{
				Uniquify:    uniq,
				SmartRename: uniqueSmartRenameFlag,
				Smart:       smart,
				OutDir:      uniqueOutDirFlag,
				OutSuffix:   uniqueOutSuffixFlag,
			})
			if err != nil {
				return err
			}

			var failed error

			for _, res := range results {
				if res.Err != nil {
					failed = errors.Join(failed, fmt.Errorf("%s: %w", res.Source, res.Err))
				}
			}

			return failed
		},
	}

	cmd.Flags().IntVarP(&uniqueThresholdFlag, "threshold", "n", 2,
		"rename identifiers of at most this length (must be non-negative)")
	cmd.Flags().BoolVar(&uniqueCharOrderFlag, "char-order", false,
		"iterate by character offset instead of by token (much slower fallback)")
	cmd.Flags().BoolVar(&uniquePerLineFlag, "per-line", false,
		"uniquify each line independently (fast but unsound across lines)")
	cmd.Flags().BoolVarP(&uniqueSmartRenameFlag, "smart-rename", "s", false,
		"infer readable names from assignment patterns after uniquification")
	cmd.Flags().StringVar(&uniquePrefixFlag, "prefix", m.DefaultNamePrefix, "synthetic name prefix")
	cmd.Flags().StringVar(&uniqueSuffixFlag, "suffix", m.DefaultNameSuffix, "synthetic name suffix")
	cmd.Flags().StringVar(&uniqueRenamePrefixFlag, "rename-prefix", m.DefaultRenamePrefix,
		"smart-rename name prefix")
	cmd.Flags().StringVar(&uniqueRenameSuffixFlag, "rename-suffix", m.DefaultRenameSuffix,
		"smart-rename name suffix")
	cmd.Flags().StringVarP(&uniqueOutDirFlag, "out-dir", "o", ".", "output directory")
	cmd.Flags().StringVar(&uniqueOutSuffixFlag, "out-suffix", ".unique.js", "output filename suffix")

	return cmd
}

func init() {
	rootCmd.AddCommand(uniqueCmd)
}
