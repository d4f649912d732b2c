// Package cmd provides the root command and CLI setup for jsretk.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/SeanPesce/JSRETK/internal/adapter"
	"github.com/SeanPesce/JSRETK/internal/controller"
	"github.com/SeanPesce/JSRETK/internal/domain"
	"github.com/SeanPesce/JSRETK/internal/scope"
)

var encodingFlag string
var maxFetchBytesFlag int
var noTUIFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsretk",
		Short: "JavaScript reverse engineering toolkit",
		Long: `jsretk deobfuscates minified JavaScript by renaming identifiers and
reformatting source. It never changes program behavior: identifiers are
rewritten scope-aware to unique synthetic names, optionally improved by
heuristic pattern matching, and the result is pretty-printed.

Inputs may be local files, http(s) URLs (fetched via curl) or "-" for
standard input.`,
	}

	cmd.PersistentFlags().StringVar(&encodingFlag, "encoding", "", "IANA charset of the input (default UTF-8)")
	cmd.PersistentFlags().IntVar(&maxFetchBytesFlag, "max-fetch-bytes", adapter.DefaultMaxFetchBytes,
		"maximum accepted size for remote inputs")
	cmd.PersistentFlags().BoolVar(&noTUIFlag, "no-tui", false, "disable the interactive progress view")

	return cmd
}

// newWorkflow wires the adapters for one command invocation. Flag values
// are only known at run time, so wiring happens here rather than in init.
func newWorkflow(cmd *cobra.Command, inputs []string) (domain.Workflow, controller.UI) {
	useTTY := !noTUIFlag && controller.IsTTY(cmd.OutOrStdout())

	// The TUI owns the terminal; reading program input from stdin at the
	// same time would fight it.
	for _, input := range inputs {
		if input == adapter.StdinPath {
			useTTY = false
		}
	}

	ui := controller.NewUI(cmd, useTTY)
	fetcher := adapter.NewCurlFetcher(maxFetchBytesFlag)
	reader := adapter.NewLocalInputReader(fetcher, encodingFlag)
	writer := adapter.NewLocalWriter()
	lexer := adapter.NewJSLexer()
	parser := adapter.NewGoFastParser()
	uniq := domain.NewUniquifier(lexer, scope.NewASTResolver())
	smart := domain.NewSmartRenamer()

	return domain.NewWorkflow(reader, writer, lexer, parser, uniq, smart, ui), ui
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
