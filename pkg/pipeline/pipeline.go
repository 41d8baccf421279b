// Package pipeline runs the scan → layout → compose → export pipeline that
// turns a directory of card images into a printable PDF.
//
// The CLI and the HTTP API share this package so both apply the same
// defaults, validation and error codes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Defaults()
//	opts.Input = "cards"
//	opts.Output = "deck.pdf"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pages, "pages")
//
// Compute only the grid, or the grid plus page count, without rendering:
//
//	geom, err := runner.Layout(ctx, opts)
//	plan, err := runner.Plan(ctx, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/mab8192/tcgprint/pkg/compose"
	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/layout"
	"github.com/mab8192/tcgprint/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	DefaultInput  = "cards"
	DefaultOutput = "output_deck.pdf"

	// US Letter.
	DefaultPageWidth  = 8.5
	DefaultPageHeight = 11.0

	// Standard trading card size.
	DefaultCardWidth  = 2.5
	DefaultCardHeight = 3.5

	DefaultMargin = 0.5

	// DefaultScale shrinks cards slightly so cut lines fall inside the art.
	DefaultScale = 0.98

	DefaultDPI     = 300
	DefaultWorkers = 1
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. The embedded layout settings are
// flattened in both the JSON and TOML encodings.
//
// Start from [Defaults]: a zero margin, rows or cols is meaningful, so
// zero values are not replaced by defaults.
type Options struct {
	layout.Settings

	Input   string `json:"input,omitempty" toml:"input"`
	Output  string `json:"output,omitempty" toml:"output"`
	Title   string `json:"title,omitempty" toml:"title"`
	Workers int    `json:"workers,omitempty" toml:"workers"`
	NoCache bool   `json:"-" toml:"no_cache"`

	// Runtime options (not serialized). Logger defaults to the runner's.
	Logger   *log.Logger          `json:"-" toml:"-"`
	Progress func(done, total int) `json:"-" toml:"-"`
}

// Defaults returns options with every default applied.
func Defaults() Options {
	return Options{
		Settings: DefaultSettings(),
		Input:    DefaultInput,
		Output:   DefaultOutput,
		Workers:  DefaultWorkers,
	}
}

// DefaultSettings returns the default layout settings.
func DefaultSettings() layout.Settings {
	return layout.Settings{
		PageWidth:  DefaultPageWidth,
		PageHeight: DefaultPageHeight,
		CardWidth:  DefaultCardWidth,
		CardHeight: DefaultCardHeight,
		Margin:     DefaultMargin,
		Scale:      DefaultScale,
		DPI:        DefaultDPI,
	}
}

// SetDefaults fills the fields whose zero value has no meaning.
func (o *Options) SetDefaults() {
	if o.Input == "" {
		o.Input = DefaultInput
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
}

// Validate checks the layout settings and the worker count.
func (o *Options) Validate() error {
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	return errors.ValidateWorkers(o.Workers)
}

// =============================================================================
// Results
// =============================================================================

// Plan is what a run would produce, computed without rendering.
type Plan struct {
	Geometry layout.Geometry
	Images   []source.Image
	Pages    int
}

// Result describes a finished run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	Geometry layout.Geometry

	// Output is the path written, empty when the document went to a writer.
	Output string

	Images int
	Pages  int

	// Failures lists every cell left blank, in page order.
	Failures []PageFailure

	Stats Stats
}

// PageFailure is a compose.Failure tagged with its page.
type PageFailure struct {
	Page int `json:"page"`
	compose.Failure
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ScanTime    time.Duration
	LayoutTime  time.Duration
	ComposeTime time.Duration
	ExportTime  time.Duration
}

// Total is the sum of all stage durations.
func (s Stats) Total() time.Duration {
	return s.ScanTime + s.LayoutTime + s.ComposeTime + s.ExportTime
}
