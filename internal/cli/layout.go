package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mab8192/tcgprint/pkg/layout"
	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// layoutCommand creates the layout command that reports the grid without
// rendering anything.
func (c *CLI) layoutCommand() *cobra.Command {
	flags := newSheetFlags()
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the computed page grid without rendering",
		Long: `Show the grid tcgprint would use: columns, rows, card size in pixels,
gap and margins.

When an input directory is given (by --input or the config file), or the
default "cards" directory exists, it is scanned as well and the image and
page counts are reported. No image is decoded and no file is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, shouldScan(cmd.Flags(), opts), asJSON)
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the geometry as JSON")
	for _, name := range []string{"output", "title", "workers", "no-cache", "cache-url", "progress"} {
		_ = cmd.Flags().MarkHidden(name)
	}

	return cmd
}

// shouldScan reports whether layout should scan the input as well. Any
// input other than the default is scanned, so a missing directory is
// reported; the default is scanned only when it exists.
func shouldScan(fs *pflag.FlagSet, opts pipeline.Options) bool {
	if fs.Changed("input") || opts.Input != pipeline.DefaultInput {
		return true
	}
	info, err := os.Stat(opts.Input)
	return err == nil && info.IsDir()
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, scan, asJSON bool) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)

	var plan *pipeline.Plan
	if scan {
		p, err := runner.Plan(ctx, opts)
		if err != nil {
			return err
		}
		plan = p
	} else {
		geom, err := runner.Layout(ctx, opts)
		if err != nil {
			return err
		}
		plan = &pipeline.Plan{Geometry: geom}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan.Geometry)
	}

	g := plan.Geometry
	printInfo("Auto-Computed Layout: %d Cols x %d Rows", g.Columns, g.Rows)
	printInfo("Card Scale: %d%% | Gap: %d px", int(opts.Scale*100), g.Gap)
	fmt.Println(geometryTable(g).Render())

	if scan {
		printKeyValue("Images", strconv.Itoa(len(plan.Images)))
		printKeyValue("Pages", strconv.Itoa(plan.Pages))
	}
	return nil
}

// geometryTable renders the geometry as a two-column table.
func geometryTable(g layout.Geometry) *table.Table {
	px := func(v int) string { return strconv.Itoa(v) + " px" }
	rows := [][]string{
		{"Page", fmt.Sprintf("%d x %d px @ %d dpi", g.PageWidth, g.PageHeight, g.DPI)},
		{"Card", fmt.Sprintf("%d x %d px", g.CardWidth, g.CardHeight)},
		{"Grid", fmt.Sprintf("%d cols x %d rows (%d per page)", g.Columns, g.Rows, g.Capacity)},
		{"Gap", px(g.Gap)},
		{"Margin left/right", px(g.MarginX) + " / " + px(g.RightMargin())},
		{"Margin top/bottom", px(g.MarginY) + " / " + px(g.BottomMargin())},
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorGray)
			default:
				return base.Foreground(colorWhite)
			}
		})
}
