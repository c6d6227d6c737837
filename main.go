package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		// cobra reports bad flags and arguments through Execute
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logPath    string
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:     "diffcheck",
		Short:   "Compare two spreadsheets or two PDFs",
		Long:    "diffcheck highlights the differences between two spreadsheets (XLSX, XLSM, CSV) or two PDF documents.\nRun without arguments for the interactive picker.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath, logPath, verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("diffcheck %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.Flags().BoolP("version", "v", false, "Print version information")
	root.Flags().StringVar(&logPath, "log", "diffcheck.log", "File the interactive UI writes its log to")
	root.PersistentFlags().StringVar(&configPath, "config", "", "JSON options file")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	root.AddCommand(newCompareCmd(&configPath, &verbose))
	return root
}
