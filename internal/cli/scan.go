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

	"github.com/mab8192/tcgprint/pkg/pipeline"
	"github.com/mab8192/tcgprint/pkg/source"
)

// scanCommand lists the images a run would use, in print order.
func (c *CLI) scanCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the card images found in a directory",
		Long: `List the images tcgprint would place, in print order.

Files are read by content, not extension. Anything that does not decode as
an image is skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := pipeline.DefaultInput
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runScan(cmd.Context(), dir, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}

func (c *CLI) runScan(ctx context.Context, dir string, asJSON bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	images, err := source.Scan(ctx, dir, logger)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(images)
	}

	prog.done(fmt.Sprintf("Scanned %s", dir))
	fmt.Println(imageTable(images).Render())
	printDetail("%d %s", len(images), plural(len(images), "image", "images"))
	printNextStep("Generate sheets", "tcgprint -i "+dir)
	return nil
}

func imageTable(images []source.Image) *table.Table {
	rows := make([][]string, len(images))
	for i, img := range images {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			img.Name,
			img.Format,
			fmt.Sprintf("%dx%d", img.Width, img.Height),
			formatBytes(img.Size),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "File", "Format", "Pixels", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorDim)
			case col == 1:
				return base.Foreground(colorWhite)
			default:
				return base.Foreground(colorGray)
			}
		})
}

// formatBytes renders a file size with a binary unit, e.g. "1.5 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
