package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sbpconv/internal/config"
	"sbpconv/internal/convert"
	"sbpconv/internal/filter"
	"sbpconv/internal/model"
	"sbpconv/internal/plot"
	"sbpconv/internal/tui"
	"sbpconv/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "ETechChargers5298",
		Repository: "CNC-File-Translator",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/ETechChargers5298/CNC-File-Translator/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

// cliOptions holds the flags that shape a one-shot conversion.
type cliOptions struct {
	outputDir string
	pngPath   string
	svgPath   string
	report    bool
	verbose   bool
	json      bool
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sbpconv [options] <file.nc|file.txt>\n\n")
		fmt.Fprintf(os.Stderr, "sbpconv converts PenguinCAM G-code into a program a ShopBot will run.\n")
		fmt.Fprintf(os.Stderr, "Unsupported commands are commented out, parking moves are sent to the\n")
		fmt.Fprintf(os.Stderr, "origin, and the resulting toolpath can be previewed as an image.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sbpconv part1.nc                 # Write part1.SBP next to the input\n")
		fmt.Fprintf(os.Stderr, "  sbpconv -p part1.png part1.nc    # Also draw the toolpath\n")
		fmt.Fprintf(os.Stderr, "  sbpconv -r -v part1.nc           # Print which lines were rewritten\n")
		fmt.Fprintf(os.Stderr, "  sbpconv --tui part1.nc           # Browse the conversion interactively\n")
		fmt.Fprintf(os.Stderr, "  sbpconv --web --port 9000        # Start the upload page\n")
	}

	var opts cliOptions
	pflag.StringVarP(&opts.outputDir, "output", "o", "", "Directory for the .SBP file (default: next to the input)")
	pflag.StringVarP(&opts.pngPath, "preview", "p", "", "Write a PNG toolpath preview to this file")
	pflag.StringVar(&opts.svgPath, "svg", "", "Write an SVG toolpath preview to this file")
	pflag.BoolVarP(&opts.report, "report", "r", false, "Print a conversion report")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false, "List every rewritten line in the report")
	pflag.BoolVarP(&opts.json, "json", "j", false, "Print the conversion summary as JSON")
	tuiFlag := pflag.BoolP("tui", "t", false, "Browse the conversion in the terminal UI")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on http://localhost:<port>")
	pflag.Int("port", 8080, "Port for Web Mode")
	pflag.StringP("config", "c", "", "Config file (default: ./sbpconv.yaml or ~/.config/sbpconv/sbpconv.yaml)")
	pflag.String("log-level", "info", "Log level: debug, info, warn, error")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for the latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("sbpconv version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sbpconv",
	})

	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		logger.Fatal("could not load configuration", "err", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal("invalid log level", "level", cfg.LogLevel)
	}
	logger.SetLevel(level)
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}

	if *webFlag {
		if err := web.StartServer(cfg, logger); err != nil {
			logger.Fatal("web server stopped", "err", err)
		}
		return
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}
	input := pflag.Arg(0)

	if *tuiFlag {
		runTuiMode(input, opts.outputDir)
		return
	}

	if err := runConvertMode(input, opts, cfg, logger); err != nil {
		logger.Error("conversion failed", "file", input, "err", err)
		os.Exit(1)
	}
}

func runConvertMode(input string, opts cliOptions, cfg *config.Config, logger *log.Logger) error {
	conv, err := convert.ConvertFile(input)
	if err != nil {
		return err
	}

	dir := opts.outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	dest, err := convert.WriteOutput(conv, dir)
	if err != nil {
		return err
	}
	logger.Info("converted",
		"file", conv.InputName,
		"output", dest,
		"lines", conv.Summary.InputLines,
		"offending", conv.Summary.Offending,
		"redirected", conv.Summary.Redirected)

	preview := false
	if opts.pngPath != "" || opts.svgPath != "" {
		preview, err = writePreviews(conv, opts, cfg.Preview)
		switch {
		case errors.Is(err, plot.ErrOutOfRange):
			logger.Warn("coordinates too large; preview skipped", "file", conv.InputName)
		case err != nil:
			return err
		case !preview:
			logger.Warn("no coordinates found; preview skipped", "file", conv.InputName)
		}
	}

	if opts.report {
		fmt.Print(filter.GenerateReport(conv, opts.verbose))
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Input   string        `json:"input"`
			Output  string        `json:"output"`
			Summary model.Summary `json:"summary"`
			Preview bool          `json:"preview"`
			Path    model.Path    `json:"path"`
		}{conv.InputName, dest, conv.Summary, preview, conv.Path})
	}
	return nil
}

// writePreviews draws the requested preview files. It reports false without
// an error when the program has no coordinates.
func writePreviews(conv model.Conversion, opts cliOptions, popts plot.Options) (bool, error) {
	fig, err := convert.Preview(conv, popts)
	if errors.Is(err, plot.ErrNoData) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if opts.svgPath != "" {
		if err := os.WriteFile(opts.svgPath, fig.SVG(), 0644); err != nil {
			return false, fmt.Errorf("could not write %s: %w", opts.svgPath, err)
		}
	}
	if opts.pngPath != "" {
		f, err := os.Create(opts.pngPath)
		if err != nil {
			return false, fmt.Errorf("could not create %s: %w", opts.pngPath, err)
		}
		if err := fig.WritePNG(f); err != nil {
			f.Close()
			return false, fmt.Errorf("could not write %s: %w", opts.pngPath, err)
		}
		if err := f.Close(); err != nil {
			return false, fmt.Errorf("could not write %s: %w", opts.pngPath, err)
		}
	}
	return true, nil
}

func runTuiMode(input, outputDir string) {
	m := tui.InitialModel(input)
	m.OutputDir = outputDir
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
