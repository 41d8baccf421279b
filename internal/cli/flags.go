package cli

import (
	"github.com/spf13/pflag"

	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// sheetFlags are the flags shared by the build, layout and serve commands.
type sheetFlags struct {
	opts       pipeline.Options
	configPath string
	cacheURL   string
	progress   bool
}

func newSheetFlags() *sheetFlags {
	return &sheetFlags{opts: pipeline.Defaults()}
}

// bind registers the flags on fs, with the pipeline defaults as flag defaults.
func (f *sheetFlags) bind(fs *pflag.FlagSet) {
	o := &f.opts
	fs.StringVarP(&o.Input, "input", "i", o.Input, "directory of card images")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "output PDF path")
	fs.Float64Var(&o.PageWidth, "page-width", o.PageWidth, "page width in inches")
	fs.Float64Var(&o.PageHeight, "page-height", o.PageHeight, "page height in inches")
	fs.Float64Var(&o.CardWidth, "card-width", o.CardWidth, "card width in inches")
	fs.Float64Var(&o.CardHeight, "card-height", o.CardHeight, "card height in inches")
	fs.Float64VarP(&o.Margin, "margin", "m", o.Margin, "left/right page margin in inches")
	fs.Float64VarP(&o.Scale, "scale", "s", o.Scale, "card scale factor")
	fs.IntVar(&o.Rows, "rows", o.Rows, "rows per page (0 = auto)")
	fs.IntVar(&o.Cols, "cols", o.Cols, "columns per page (0 = auto)")
	fs.IntVar(&o.DPI, "dpi", o.DPI, "output resolution")
	fs.StringVar(&o.Title, "title", o.Title, "PDF title (default: output file name)")
	fs.IntVar(&o.Workers, "workers", o.Workers, "pages rendered in parallel")
	fs.BoolVar(&o.NoCache, "no-cache", o.NoCache, "disable the tile cache")
	fs.StringVar(&f.cacheURL, "cache-url", "", "redis URL for a shared tile cache (env "+envCacheURL+")")
	fs.StringVar(&f.configPath, "config", "", "TOML config file; explicit flags override it")
	fs.BoolVar(&f.progress, "progress", false, "show an interactive progress bar")
}

// resolve returns the effective options: defaults, then the config file,
// then every flag set on the command line.
func (f *sheetFlags) resolve(fs *pflag.FlagSet) (pipeline.Options, error) {
	if f.configPath == "" {
		return f.opts, nil
	}

	type setFlag struct{ name, value string }
	var changed []setFlag
	fs.Visit(func(fl *pflag.Flag) {
		changed = append(changed, setFlag{fl.Name, fl.Value.String()})
	})

	opts, err := pipeline.LoadConfig(f.configPath, f.opts)
	if err != nil {
		return f.opts, err
	}
	f.opts = opts

	// Re-applying the explicit flags writes them back over the file values.
	for _, c := range changed {
		if err := fs.Set(c.name, c.value); err != nil {
			return f.opts, err
		}
	}
	return f.opts, nil
}
