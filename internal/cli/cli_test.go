package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/pipeline"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func writeCards(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 5, 7))
		img.Set(2, 3, color.NRGBA{R: uint8(i), A: 255})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%02d.png", i)), buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRootCommandTree(t *testing.T) {
	root := testCLI().RootCommand()

	want := []string{"layout", "scan", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"input", "output", "page-width", "page-height", "card-width", "card-height",
		"margin", "scale", "rows", "cols", "dpi", "workers", "no-cache", "cache-url", "config", "progress"} {
		if root.Flags().Lookup(flag) == nil {
			t.Errorf("root flag --%s missing", flag)
		}
	}
}

func TestSheetFlagsDefaults(t *testing.T) {
	f := newSheetFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	opts, err := f.resolve(fs)
	if err != nil {
		t.Fatal(err)
	}

	want := pipeline.Defaults()
	if opts.Settings != want.Settings || opts.Input != want.Input || opts.Output != want.Output || opts.Workers != want.Workers {
		t.Errorf("resolve() = %+v, want defaults %+v", opts, want)
	}
}

func TestSheetFlagsConfigOverride(t *testing.T) {
	config := filepath.Join(t.TempDir(), "a4.toml")
	body := "page_width = 8.27\npage_height = 11.69\nrows = 2\nscale = 1.0\n"
	if err := os.WriteFile(config, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newSheetFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)

	if err := fs.Parse([]string{"--config", config, "--rows", "3", "-s", "0.9"}); err != nil {
		t.Fatal(err)
	}
	opts, err := f.resolve(fs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if opts.PageWidth != 8.27 || opts.PageHeight != 11.69 {
		t.Errorf("page = %gx%g, want values from the config", opts.PageWidth, opts.PageHeight)
	}
	if opts.Rows != 3 {
		t.Errorf("rows = %d, want 3 from the flag", opts.Rows)
	}
	if opts.Scale != 0.9 {
		t.Errorf("scale = %g, want 0.9 from the flag", opts.Scale)
	}
	if opts.CardWidth != pipeline.DefaultCardWidth {
		t.Errorf("card width = %g, want default", opts.CardWidth)
	}
}

func TestLayoutScansConfigInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-deck")
	config := filepath.Join(t.TempDir(), "deck.toml")
	if err := os.WriteFile(config, []byte(fmt.Sprintf("input = %q\n", missing)), 0o644); err != nil {
		t.Fatal(err)
	}

	root := testCLI().RootCommand()
	root.SetArgs([]string{"layout", "--config", config, "--json"})
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errors.ErrCodeInputNotFound) {
		t.Errorf("layout with a config input = %v, want INPUT_NOT_FOUND from the scan", err)
	}
}

func TestShouldScan(t *testing.T) {
	deck := writeCards(t, 1)
	t.Chdir(t.TempDir())

	tests := []struct {
		name  string
		args  []string
		input string
		want  bool
	}{
		{"default input absent", nil, pipeline.DefaultInput, false},
		{"input flag", []string{"-i", deck}, deck, true},
		{"input from config", nil, deck, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			newSheetFlags().bind(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			opts := pipeline.Defaults()
			opts.Input = tt.input
			if got := shouldScan(fs, opts); got != tt.want {
				t.Errorf("shouldScan() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("default input present", func(t *testing.T) {
		if err := os.Mkdir(pipeline.DefaultInput, 0o755); err != nil {
			t.Fatal(err)
		}
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		if !shouldScan(fs, pipeline.Defaults()) {
			t.Error("shouldScan() = false with ./cards present")
		}
	})
}

func TestSheetFlagsBadConfig(t *testing.T) {
	f := newSheetFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)

	if err := fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.resolve(fs); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestBuildCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	input := writeCards(t, 5)
	output := filepath.Join(t.TempDir(), "deck.pdf")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"-i", input, "-o", output, "--dpi", "20", "--workers", "2"})
	root.SetOut(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestBuildCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"-i", "/does/not/exist"}, errors.ErrCodeInputNotFound},
		{"too narrow", []string{"--page-width", "2"}, errors.ErrCodeTooNarrow},
		{"bad workers", []string{"--workers", "-1"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeCards(t, 1)
			args := append([]string{"-i", input, "-o", filepath.Join(t.TempDir(), "x.pdf"), "--no-cache"}, tt.args...)

			root := testCLI().RootCommand()
			root.SetArgs(args)
			err := root.ExecuteContext(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestServeCommandStopsCleanly(t *testing.T) {
	root := testCLI().RootCommand()
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--no-cache"})
	root.SetOut(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		t.Errorf("serve after shutdown = %v, want nil", err)
	}
}

func TestProgressModel(t *testing.T) {
	canceled := false
	m := NewProgressModel("deck.pdf", func() { canceled = true })

	if view := m.View(); !strings.Contains(view, "deck.pdf") {
		t.Errorf("initial view = %q, want output name", view)
	}

	next, _ := m.Update(pageDoneMsg{done: 2, total: 4})
	m = next.(ProgressModel)
	if m.Done != 2 || m.Total != 4 {
		t.Errorf("Done/Total = %d/%d, want 2/4", m.Done, m.Total)
	}
	if view := m.View(); !strings.Contains(view, "2/4") {
		t.Errorf("view = %q, want 2/4", view)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(ProgressModel)
	if !canceled {
		t.Error("q should cancel the run")
	}
	if cmd != nil {
		t.Error("the view should wait for the run to stop before quitting")
	}

	result := &pipeline.Result{Pages: 4}
	next, cmd = m.Update(runDoneMsg{result: result})
	m = next.(ProgressModel)
	if cmd == nil {
		t.Error("run completion should quit the program")
	}
	if m.Result != result || m.View() != "" {
		t.Errorf("finished model = %+v", m)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "page", "pages") != "page" || plural(2, "page", "pages") != "pages" || plural(0, "page", "pages") != "pages" {
		t.Error("plural picked the wrong form")
	}
}
