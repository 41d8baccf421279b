package cli

import (
	"context"

	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// runBuild generates the PDF described by opts.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, flags *sheetFlags) error {
	runner, err := c.newRunner(ctx, opts.NoCache, flags.cacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = c.Logger

	var result *pipeline.Result
	if flags.progress {
		result, err = runWithProgress(ctx, runner, opts)
	} else {
		prog := newProgress(c.Logger)
		result, err = runner.Execute(ctx, opts)
		if err == nil {
			prog.done("Generated sheets")
		}
	}
	if err != nil {
		return err
	}

	printBuildResult(result)
	return nil
}

func printBuildResult(r *pipeline.Result) {
	printSuccess("Saved %d %s to %s", r.Pages, plural(r.Pages, "page", "pages"), r.Output)
	printDetail("%d images · %s", r.Images, r.Geometry)
	for _, f := range r.Failures {
		printWarning("Page %d cell %d left blank: %s", f.Page+1, f.Cell+1, f.Path)
	}
	printFile(r.Output)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
