package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nconklindev/diffcheck/internal/config"
	"github.com/nconklindev/diffcheck/internal/logging"
	"github.com/nconklindev/diffcheck/internal/runner"
	"github.com/nconklindev/diffcheck/internal/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// SummaryFile is written to the working directory by compare --meta.
const SummaryFile = "comparison_result.txt"

type compareFlags struct {
	fileType  string
	key       string
	mode      string
	output    string
	meta      bool
	ocr       bool
	numeric   bool
	dpi       float64
	threshold float64
	blockSize int
}

func newCompareCmd(configPath *string, verbose *bool) *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare FILE1 FILE2",
		Short: "Compare two files without the interactive UI",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return &exitError{code: 2, err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.Default()
			if *configPath != "" {
				loaded, err := config.LoadFile(*configPath)
				if err != nil {
					return &exitError{code: 2, err: err}
				}
				opts = loaded
			}
			applyFlags(cmd.Flags(), f, &opts)
			if err := opts.Validate(); err != nil {
				return &exitError{code: 2, err: err}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := logging.New(cmd.ErrOrStderr(), *verbose)
			return runCompare(ctx, cmd.OutOrStdout(), args, opts, f.meta, logger)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.fileType, "type", "t", "", "Force file type: excel or pdf (default: detect)")
	fl.StringVarP(&f.key, "key", "k", "", "Key header used to align rows")
	fl.StringVarP(&f.mode, "mode", "m", "", "Row alignment: by_key or by_row")
	fl.StringVarP(&f.output, "output", "o", "", "Output path (default: next to FILE1)")
	fl.BoolVar(&f.meta, "meta", false, "Write "+SummaryFile+" with the comparison metadata")
	fl.BoolVar(&f.ocr, "ocr", false, "OCR PDF pages that have no text layer")
	fl.BoolVar(&f.numeric, "numeric", false, "Treat numerically equal values as matching")
	fl.Float64Var(&f.dpi, "dpi", 0, "PDF render resolution")
	fl.Float64Var(&f.threshold, "threshold", 0, "Visual dissimilarity threshold in [0,1]")
	fl.IntVar(&f.blockSize, "block-size", 0, "Visual comparison block size in pixels")

	return cmd
}

// applyFlags overlays explicitly set flags onto opts.
func applyFlags(fs *pflag.FlagSet, f compareFlags, opts *config.Options) {
	if fs.Changed("type") {
		opts.FileType = f.fileType
	}
	if fs.Changed("key") {
		opts.KeyHeader = f.key
	}
	if fs.Changed("mode") {
		opts.AlignmentMode = types.AlignmentMode(f.mode)
	}
	if fs.Changed("output") {
		opts.OutputPath = f.output
	}
	if fs.Changed("ocr") {
		opts.OCR = f.ocr
	}
	if fs.Changed("numeric") {
		opts.NumericCoercion = f.numeric
	}
	if fs.Changed("dpi") {
		opts.DPI = f.dpi
	}
	if fs.Changed("threshold") {
		opts.VisualThreshold = f.threshold
	}
	if fs.Changed("block-size") {
		opts.BlockSize = f.blockSize
	}
	if fs.Changed("meta") {
		opts.ReturnMetadata = f.meta
	}
}

func runCompare(ctx context.Context, out io.Writer, files []string, opts config.Options, meta bool, logger *log.Logger) error {
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			return &exitError{code: 3, err: fmt.Errorf("file not found: %s", path)}
		}
	}

	fileType := opts.FileType
	if fileType == "" {
		fileType = "auto"
	}
	fmt.Fprintf(out, "Running comparison: %s vs %s (type=%s)\n", files[0], files[1], fileType)

	opts.ReturnMetadata = opts.ReturnMetadata || meta
	res, err := runner.Run(ctx, files, opts, logger)
	if err != nil {
		code := 1
		if errors.Is(err, types.ErrInvalidAlignmentMode) || errors.Is(err, types.ErrUnknownOption) {
			code = 2
		}
		return &exitError{code: code, err: err}
	}

	fmt.Fprintln(out, "Comparison finished.")
	fmt.Fprintf(out, "Output: %s\n", res.OutputFile)
	for _, step := range res.CosmeticFailures {
		fmt.Fprintf(out, "Warning: %s\n", step)
	}
	if !meta {
		return nil
	}

	path, err := writeSummary(".", res)
	if err != nil {
		return &exitError{code: 1, err: err}
	}
	fmt.Fprintf(out, "Wrote summary to %s\n", path)
	return nil
}

func writeSummary(dir string, res *types.ComparisonResult) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(dir, SummaryFile))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}
