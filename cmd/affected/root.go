package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"affected/internal/errors"
	"affected/internal/version"
)

// rootOptions holds every flag of one invocation
type rootOptions struct {
	// Logging (persistent)
	verbosity int
	quiet     bool
	logFormat string

	// Analysis
	repositoryPath  string
	commitToCompare string
	filterPattern   string
	sourceDir       string
	exclude         []string
	staged          bool
	diffFile        string
	format          string
	relative        bool
	concurrency     int
	gitTimeout      time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "affected",
		Short: "Find the parts of a source tree affected by a change",
		Long: `affected reads a unified diff, extracts the identifiers it exports
(export const|interface|type|default <name>), and reports every file under the
source directory whose text mentions one of them.

An optional filter pattern reduces each affected path to its first capturing
group, so a change can be summarized as the set of pages or packages it touches.

Examples:
  affected --repositoryPath .                                   # Working tree against HEAD
  affected --repositoryPath . --commitToCompare main            # Against a branch
  affected --repositoryPath . --filterPattern 'modules/(.+?/pages/.+?)/'
  affected --repositoryPath . --format=list                     # One summary value per line (for CI)
  git diff main | affected --repositoryPath . --diff-file -     # Diff from stdin`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("affected version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress all logs")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format (human, json); defaults to config")
	pf.StringVar(&opts.repositoryPath, "repositoryPath", "", "Root of the repository to analyze (required)")

	f := cmd.Flags()
	f.StringVar(&opts.commitToCompare, "commitToCompare", "", "Revision to diff against (default HEAD)")
	f.StringVar(&opts.filterPattern, "filterPattern", "", "Regular expression (Go RE2 syntax, no lookarounds or backreferences) whose first capturing group summarizes each path")
	f.StringVar(&opts.sourceDir, "source-dir", "", "Directory to scan, relative to the repository (default from config, \"src\")")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "Glob of paths to skip (repeatable)")
	f.BoolVar(&opts.staged, "staged", false, "Diff the index instead of the working tree")
	f.StringVar(&opts.diffFile, "diff-file", "", "Read the diff from a file, or - for stdin, instead of running git")
	f.StringVar(&opts.format, "format", string(FormatHuman), "Output format (human, json, yaml, list)")
	f.BoolVar(&opts.relative, "relative", false, "Print paths relative to the repository")
	f.IntVar(&opts.concurrency, "concurrency", 0, "Max open directory and file handles during the scan")
	f.DurationVar(&opts.gitTimeout, "git-timeout", 0, "Timeout for git commands (default from config, 30s)")

	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// printError writes err and any suggested fixes to w
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	ae, ok := errors.As(err)
	if !ok || len(ae.SuggestedFixes) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuggested fixes:")
	for _, fix := range ae.SuggestedFixes {
		switch {
		case fix.Command != "":
			fmt.Fprintf(w, "  - %s: %s\n", fix.Description, fix.Command)
		case fix.URL != "":
			fmt.Fprintf(w, "  - %s: %s\n", fix.Description, fix.URL)
		default:
			fmt.Fprintf(w, "  - %s\n", fix.Description)
		}
	}
}
