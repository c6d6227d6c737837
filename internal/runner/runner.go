// Package runner detects what kind of files are being compared, wires the
// configured engine to its adapters and writes the output artifact.
package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tsawler/tabula/format"

	"github.com/nconklindev/diffcheck/internal/config"
	"github.com/nconklindev/diffcheck/internal/document"
	"github.com/nconklindev/diffcheck/internal/grid"
	"github.com/nconklindev/diffcheck/internal/pdf"
	"github.com/nconklindev/diffcheck/internal/progress"
	"github.com/nconklindev/diffcheck/internal/report"
	"github.com/nconklindev/diffcheck/internal/tabular"
	"github.com/nconklindev/diffcheck/internal/types"
	"github.com/nconklindev/diffcheck/internal/workspace"
)

// Detect returns the engine for files. A non-empty override wins; otherwise
// the first file's extension decides.
func Detect(files []string, override string) (types.Kind, error) {
	if override != "" {
		switch kind := types.Kind(strings.ToLower(override)); kind {
		case types.KindTabular, types.KindDocument:
			return kind, nil
		}
		return "", fmt.Errorf("%w: override %q", types.ErrUnsupportedFileType, override)
	}
	if len(files) == 0 {
		return "", types.ErrTooFewFiles
	}

	ext := strings.ToLower(filepath.Ext(files[0]))
	switch ext {
	case ".csv", ".xlsm":
		return types.KindTabular, nil
	}
	switch format.Detect(files[0]) {
	case format.XLSX:
		return types.KindTabular, nil
	case format.PDF:
		return types.KindDocument, nil
	}
	return "", types.UnsupportedFileType(ext)
}

// DefaultOutputPath names the artifact next to the first input.
func DefaultOutputPath(kind types.Kind, file1, file2 string) string {
	base1 := strings.TrimSuffix(filepath.Base(file1), filepath.Ext(file1))
	base2 := strings.TrimSuffix(filepath.Base(file2), filepath.Ext(file2))
	dir := filepath.Dir(file1)
	if kind == types.KindDocument {
		return filepath.Join(dir, fmt.Sprintf("pdf_comparison_%s_vs_%s.pdf", base1, base2))
	}
	return filepath.Join(dir, fmt.Sprintf("%s_vs_%s_comparison.xlsx", base1, base2))
}

// Run compares the first two files and writes the artifact. Metadata is
// attached to the result only when opts.ReturnMetadata is set.
func Run(ctx context.Context, files []string, opts config.Options, logger *log.Logger) (*types.ComparisonResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(files) < 2 {
		return nil, types.ErrTooFewFiles
	}
	if len(files) > 2 {
		logger.Warn("only the first two files are compared", "given", len(files))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	kind, err := Detect(files, opts.FileType)
	if err != nil {
		return nil, err
	}

	out := opts.OutputPath
	if out == "" {
		out = DefaultOutputPath(kind, files[0], files[1])
	}
	res := &types.ComparisonResult{
		Kind:       kind,
		InputFiles: [2]string{files[0], files[1]},
		OutputFile: out,
	}
	track := progress.New(ctx, opts.Progress)
	logger.Info("comparing", "kind", kind, "file1", files[0], "file2", files[1])

	switch kind {
	case types.KindTabular:
		meta, fin, err := runTabular(ctx, files[0], files[1], out, opts, track, logger)
		if err != nil {
			return nil, err
		}
		res.CosmeticFailures = fin.Steps()
		if opts.ReturnMetadata {
			res.Tabular = meta
		}
	case types.KindDocument:
		meta, err := runDocument(ctx, files[0], files[1], out, opts, track, logger)
		if err != nil {
			return nil, err
		}
		if opts.ReturnMetadata {
			res.Document = meta
		}
	}

	if err := track.Report(100); err != nil {
		return nil, err
	}
	logger.Info("comparison written", "output", out)
	return res, nil
}

func runTabular(ctx context.Context, file1, file2, out string, opts config.Options, track *progress.Tracker, logger *log.Logger) (*types.TabularMeta, report.Finishing, error) {
	var none report.Finishing
	if err := track.Report(1); err != nil {
		return nil, none, err
	}
	g1, err := grid.Open(file1)
	if err != nil {
		return nil, none, err
	}
	g2, err := grid.Open(file2)
	if err != nil {
		return nil, none, err
	}

	result, err := tabular.Compare(ctx, []grid.Grid{g1, g2}, TabularOptions(opts, track, logger))
	if err != nil {
		return nil, none, err
	}

	fin, err := report.Write(result, out)
	if err != nil {
		return nil, none, err
	}
	fin.Log(logger)
	return &result.Meta, fin, nil
}

func runDocument(ctx context.Context, file1, file2, out string, opts config.Options, track *progress.Tracker, logger *log.Logger) (*types.DocumentMeta, error) {
	if err := track.Report(1); err != nil {
		return nil, err
	}
	popts := pdf.ProviderOptions{DPI: opts.DPI, OCR: opts.OCR, Logger: logger}
	p1, err := pdf.Open(file1, popts)
	if err != nil {
		return nil, err
	}
	defer p1.Close()
	p2, err := pdf.Open(file2, popts)
	if err != nil {
		return nil, err
	}
	defer p2.Close()

	ws, err := workspace.New("diffcheck")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn("removing workspace", "dir", ws.Dir(), "err", err)
		}
	}()

	result, err := document.Compare(ctx, p1, p2, pdf.NewComposer(ws), out, DocumentOptions(opts, track, logger))
	if err != nil {
		return nil, err
	}
	result.Meta.SourceFiles = [2]string{file1, file2}
	return &result.Meta, nil
}

// TabularOptions maps configuration onto the tabular engine.
func TabularOptions(opts config.Options, track *progress.Tracker, logger *log.Logger) tabular.Options {
	return tabular.Options{
		KeyHeader: opts.KeyHeader,
		Mode:      opts.AlignmentMode,
		Match: tabular.MatchParams{
			WeightName: opts.WeightName,
			WeightData: opts.WeightData,
			MinScore:   opts.MinScore,
			SampleSize: opts.SampleSize,
		},
		TopRowsPreferred: opts.TopRowsPreferred,
		NumericCoercion:  opts.NumericCoercion,
		Palette: tabular.Palette{
			Match:   hex(opts.MatchColor),
			Added:   hex(opts.AddColor),
			Removed: hex(opts.RemoveColor),
		},
		Progress: track,
		Logger:   logger,
	}
}

// DocumentOptions maps configuration onto the document engine.
func DocumentOptions(opts config.Options, track *progress.Tracker, logger *log.Logger) document.Options {
	return document.Options{
		BlockSize:    opts.BlockSize,
		Threshold:    opts.VisualThreshold,
		VisualColor:  opts.VisualColor.NRGBA(),
		RemovedColor: opts.TextRemovedColor.NRGBA(),
		AddedColor:   opts.TextAddedColor.NRGBA(),
		Progress:     track,
		Logger:       logger,
	}
}

func hex(c string) string {
	return strings.ToUpper(strings.TrimPrefix(c, "#"))
}
