// Package config holds the fully enumerated comparison options, their
// defaults, and JSON loading that rejects unknown keys.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/nconklindev/diffcheck/internal/progress"
	"github.com/nconklindev/diffcheck/internal/types"
)

// RGBA is a color with alpha, written in JSON as [r, g, b, a].
type RGBA [4]uint8

// NRGBA converts c for image compositing.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Options configures one comparison. The zero value is not usable; start
// from Default.
type Options struct {
	// FileType overrides extension detection: "excel" or "pdf".
	FileType string `json:"file_type"`

	KeyHeader        string              `json:"key_header"`
	AlignmentMode    types.AlignmentMode `json:"compare_mode"`
	MatchColor       string              `json:"match_color"`
	AddColor         string              `json:"add_color"`
	RemoveColor      string              `json:"remove_color"`
	WeightName       float64             `json:"weight_name"`
	WeightData       float64             `json:"weight_data"`
	MinScore         float64             `json:"min_score"`
	SampleSize       int                 `json:"sample_size"`
	TopRowsPreferred int                 `json:"top_rows_preferred"`
	NumericCoercion  bool                `json:"numeric_coercion"`

	VisualThreshold  float64 `json:"visual_threshold"`
	BlockSize        int     `json:"block_size"`
	VisualColor      RGBA    `json:"visual_color"`
	TextRemovedColor RGBA    `json:"text_removed_color"`
	TextAddedColor   RGBA    `json:"text_added_color"`
	DPI              float64 `json:"dpi"`
	OCR              bool    `json:"ocr"`

	// OutputPath is where the artifact goes; empty means auto-named next to
	// the first input.
	OutputPath     string `json:"output_path"`
	ReturnMetadata bool   `json:"return_metadata"`

	Progress progress.Func `json:"-"`
}

// Default returns the stock options.
func Default() Options {
	return Options{
		KeyHeader:        "S.no",
		AlignmentMode:    types.AlignByKey,
		MatchColor:       "FFFF00",
		AddColor:         "C6EFCE",
		RemoveColor:      "FFC7CE",
		WeightName:       0.25,
		WeightData:       0.75,
		MinScore:         0.20,
		SampleSize:       40,
		TopRowsPreferred: 20,
		VisualThreshold:  0.6,
		BlockSize:        16,
		VisualColor:      RGBA{255, 255, 0, 20},
		TextRemovedColor: RGBA{255, 0, 0, 30},
		TextAddedColor:   RGBA{0, 255, 0, 30},
		DPI:              72,
	}
}

// Load reads JSON options over the defaults. Keys that are not options fail
// with types.ErrUnknownOption.
func Load(r io.Reader) (Options, error) {
	opts := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return Options{}, fmt.Errorf("%w: %s", types.ErrUnknownOption, field)
		}
		return Options{}, fmt.Errorf("parsing options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadFile reads options from a JSON file.
func LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()

	opts, err := Load(f)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if _, err := types.ParseAlignmentMode(string(o.AlignmentMode)); err != nil {
		return err
	}
	switch types.Kind(strings.ToLower(o.FileType)) {
	case "", types.KindTabular, types.KindDocument:
	default:
		return fmt.Errorf("file_type must be %q or %q, got %q", types.KindTabular, types.KindDocument, o.FileType)
	}
	if strings.TrimSpace(o.KeyHeader) == "" {
		return errors.New("key_header must not be empty")
	}
	for name, c := range map[string]string{
		"match_color":  o.MatchColor,
		"add_color":    o.AddColor,
		"remove_color": o.RemoveColor,
	} {
		if !isHexColor(c) {
			return fmt.Errorf("%s must be six hex digits, got %q", name, c)
		}
	}
	if o.WeightName < 0 || o.WeightData < 0 {
		return fmt.Errorf("weights must not be negative, got %v/%v", o.WeightName, o.WeightData)
	}
	// scores stay within [0,1]; the small slack absorbs float sums like 0.1+0.9
	if o.WeightName+o.WeightData > 1+1e-9 {
		return fmt.Errorf("weight_name + weight_data must not exceed 1, got %v", o.WeightName+o.WeightData)
	}
	if o.MinScore < 0 || o.MinScore > 1 {
		return fmt.Errorf("min_score must be within [0,1], got %v", o.MinScore)
	}
	if o.VisualThreshold < 0 || o.VisualThreshold > 1 {
		return fmt.Errorf("visual_threshold must be within [0,1], got %v", o.VisualThreshold)
	}
	if o.SampleSize < 1 {
		return fmt.Errorf("sample_size must be at least 1, got %d", o.SampleSize)
	}
	if o.TopRowsPreferred < 0 {
		return fmt.Errorf("top_rows_preferred must not be negative, got %d", o.TopRowsPreferred)
	}
	if o.BlockSize < 1 {
		return fmt.Errorf("block_size must be at least 1, got %d", o.BlockSize)
	}
	if o.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %v", o.DPI)
	}
	return nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
