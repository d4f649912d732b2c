package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

var stringsNoStringsFlag bool
var stringsNoTemplatesFlag bool
var stringsCommentsFlag bool
var stringsRegexpFlag bool
var stringsMinLenFlag int
var stringsMaxLenFlag int
var stringsMatchFlag string
var stringsTemplatesOnlyFlag bool
var stringsCommentsOnlyFlag bool
var stringsRegexpOnlyFlag bool

// stringsCmd represents the strings command.
var stringsCmd = newStringsCmd()

func newStringsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strings [inputs...]",
		Short: "Extract string, template, comment and regex literals",
		Long: `Strings filters the token stream of each input and prints extracted
literal values one per line. A template literal with substitutions is
reassembled into a single value with its interior spacing intact.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := m.ExtractOptions{
				Strings:       !stringsNoStringsFlag,
				Templates:     !stringsNoTemplatesFlag,
				Comments:      stringsCommentsFlag,
				Regexps:       stringsRegexpFlag,
				MinLen:        stringsMinLenFlag,
				MaxLen:        stringsMaxLenFlag,
				TemplatesOnly: stringsTemplatesOnlyFlag,
				CommentsOnly:  stringsCommentsOnlyFlag,
				RegexpsOnly:   stringsRegexpOnlyFlag,
			}

			if stringsMatchFlag != "" {
				re, err := regexp.Compile(stringsMatchFlag)
				if err != nil {
					return fmt.Errorf("%w: bad --match pattern: %v", m.ErrInvalidArgument, err)
				}

				opts.Match = re
			}

			workflow, ui := newWorkflow(cmd, args)
			defer ui.Close()

			return workflow.ExtractLiterals(args, opts, func(value string) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
			})
		},
	}

	cmd.Flags().BoolVar(&stringsNoStringsFlag, "no-strings", false, "exclude string literals")
	cmd.Flags().BoolVar(&stringsNoTemplatesFlag, "no-templates", false, "exclude template literals")
	cmd.Flags().BoolVarP(&stringsCommentsFlag, "comments", "c", false, "include comments")
	cmd.Flags().BoolVarP(&stringsRegexpFlag, "regexp", "r", false, "include regular expression literals")
	cmd.Flags().IntVar(&stringsMinLenFlag, "min-len", 0, "minimum value length (inclusive)")
	cmd.Flags().IntVar(&stringsMaxLenFlag, "max-len", 0, "maximum value length (inclusive, 0 = unbounded)")
	cmd.Flags().StringVarP(&stringsMatchFlag, "match", "m", "", "only print values matching this regular expression")
	cmd.Flags().BoolVar(&stringsTemplatesOnlyFlag, "templates-only", false, "extract template literals only")
	cmd.Flags().BoolVar(&stringsCommentsOnlyFlag, "comments-only", false, "extract comments only")
	cmd.Flags().BoolVar(&stringsRegexpOnlyFlag, "regexp-only", false, "extract regular expression literals only")

	return cmd
}

func init() {
	rootCmd.AddCommand(stringsCmd)
}
