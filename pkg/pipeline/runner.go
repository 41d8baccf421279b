package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mab8192/tcgprint/pkg/batch"
	"github.com/mab8192/tcgprint/pkg/buildinfo"
	"github.com/mab8192/tcgprint/pkg/cache"
	"github.com/mab8192/tcgprint/pkg/compose"
	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/export"
	"github.com/mab8192/tcgprint/pkg/layout"
	"github.com/mab8192/tcgprint/pkg/observability"
	"github.com/mab8192/tcgprint/pkg/source"
)

// Runner encapsulates pipeline execution with tile caching.
// Both CLI and API use it so they share caching and error handling.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout validates opts and computes the page geometry.
func (r *Runner) Layout(ctx context.Context, opts Options) (layout.Geometry, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return layout.Geometry{}, err
	}
	geom, err := layout.Compute(opts.Settings)
	observability.Pipeline().OnLayoutComplete(ctx, geom.Columns, geom.Rows, err)
	return geom, err
}

// Plan scans the input and computes the geometry and page count without
// decoding or rendering any image.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	images, err := r.scan(ctx, opts.Input, r.loggerFor(opts))
	if err != nil {
		return nil, err
	}
	geom, err := r.Layout(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Geometry: geom,
		Images:   images,
		Pages:    batch.Count(len(images), geom.Capacity),
	}, nil
}

// Execute runs the complete pipeline and writes the PDF to opts.Output.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.loggerFor(opts).With("run", runID[:8])

	result, pages, err := r.compose(ctx, opts, runID, logger)
	if err != nil {
		return nil, err
	}

	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Output, len(pages))
	logger.Info("saving output PDF", "path", opts.Output)
	err = export.WriteFile(ctx, opts.Output, export.NewPDFExporter(opts.DPI), pages, r.metadata(opts))
	result.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnExportComplete(ctx, opts.Output, len(pages), result.Stats.ExportTime, err)
	if err != nil {
		return nil, err
	}
	result.Output = opts.Output

	logger.Info("done", "pages", result.Pages, "blank_cells", len(result.Failures), "duration", result.Stats.Total())
	return result, nil
}

// ExecuteTo runs the pipeline like Execute but streams the PDF to w instead
// of writing opts.Output. Nothing is written to w if a stage before export
// fails.
func (r *Runner) ExecuteTo(ctx context.Context, w io.Writer, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	result, pages, err := r.compose(ctx, opts, runID, r.loggerFor(opts).With("run", runID[:8]))
	if err != nil {
		return nil, err
	}

	exportStart := time.Now()
	err = export.NewPDFExporter(opts.DPI).Export(ctx, w, pages, r.metadata(opts))
	result.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnExportComplete(ctx, "", len(pages), result.Stats.ExportTime, err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeExport, err, "write pdf")
		}
		return nil, err
	}
	return result, nil
}

// compose runs scan, layout and page rendering, logging through the run's
// logger.
func (r *Runner) compose(ctx context.Context, opts Options, runID string, logger *log.Logger) (*Result, []*compose.Page, error) {
	result := &Result{RunID: runID}

	scanStart := time.Now()
	images, err := r.scan(ctx, opts.Input, logger)
	result.Stats.ScanTime = time.Since(scanStart)
	if err != nil {
		return nil, nil, err
	}
	result.Images = len(images)
	logger.Info("found images", "count", len(images), "dir", opts.Input)

	layoutStart := time.Now()
	geom, err := r.Layout(ctx, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		return nil, nil, err
	}
	result.Geometry = geom
	logger.Info("computed layout", "cols", geom.Columns, "rows", geom.Rows, "scale", opts.Scale, "gap_px", geom.Gap)

	batches, err := batch.Schedule(images, geom.Capacity)
	if err != nil {
		return nil, nil, err
	}
	result.Pages = len(batches)

	composeStart := time.Now()
	pages, err := r.renderPages(ctx, opts, geom, batches, logger)
	result.Stats.ComposeTime = time.Since(composeStart)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range pages {
		for _, f := range p.Failures {
			result.Failures = append(result.Failures, PageFailure{Page: p.Index, Failure: f})
		}
	}
	return result, pages, nil
}

// renderPages composes every batch with up to opts.Workers pages in flight.
// pages[i] always holds batch i regardless of completion order.
func (r *Runner) renderPages(ctx context.Context, opts Options, geom layout.Geometry, batches [][]source.Image, logger *log.Logger) ([]*compose.Page, error) {
	var loader compose.TileLoader = compose.DecodeLoader{}
	if !opts.NoCache {
		loader = compose.NewCachedLoader(compose.DecodeLoader{}, r.Cache, r.Keyer, logger)
	}
	compositor := compose.New(loader, logger)

	pages := make([]*compose.Page, len(batches))
	total := len(batches)

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, b := range batches {
		g.Go(func() error {
			logger.Info("generating page", "page", i+1, "of", total)
			page, err := compositor.RenderPage(gctx, i, b, geom)
			if err != nil {
				return err
			}
			pages[i] = page

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			if opts.Progress != nil {
				opts.Progress(n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil && !errors.Is(err, errors.ErrCodeCanceled) {
			return nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "render pages")
		}
		return nil, err
	}
	return pages, nil
}

func (r *Runner) scan(ctx context.Context, dir string, logger *log.Logger) ([]source.Image, error) {
	observability.Pipeline().OnScanStart(ctx, dir)
	start := time.Now()
	images, err := source.Scan(ctx, dir, logger)
	observability.Pipeline().OnScanComplete(ctx, dir, len(images), time.Since(start), err)
	return images, err
}

// loggerFor returns the per-run logger, falling back to the runner's.
func (r *Runner) loggerFor(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func (r *Runner) metadata(opts Options) export.Metadata {
	title := opts.Title
	if title == "" {
		base := filepath.Base(opts.Output)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return export.Metadata{
		Title:   title,
		Subject: "Trading card print sheet",
		Creator: buildinfo.Creator(),
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
