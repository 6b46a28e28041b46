// Package main provides the CLI entry point for journalpage.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/journalpage/pkg/adapters/filesink"
	"github.com/user/journalpage/pkg/adapters/fpdfwriter"
	"github.com/user/journalpage/pkg/adapters/ggrenderer"
	"github.com/user/journalpage/pkg/adapters/logger"
	"github.com/user/journalpage/pkg/adapters/nullsink"
	"github.com/user/journalpage/pkg/adapters/osfilesystem"
	"github.com/user/journalpage/pkg/config"
	"github.com/user/journalpage/pkg/orchestrator"
	"github.com/user/journalpage/pkg/palette"
	"github.com/user/journalpage/pkg/ports"
	"github.com/user/journalpage/pkg/stages/compose"
	"github.com/user/journalpage/pkg/stages/export"
	"github.com/user/journalpage/pkg/stages/ingest"
	"github.com/user/journalpage/pkg/stages/layout"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:  "journalpage",
		Usage: l10n.T("Lay out and render travel journal pages from photos and text"),
		Commands: []*cli.Command{
			renderCommand(),
			pdfCommand(),
			paletteCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// documentFlags are the flags shared by the render and pdf commands.
func documentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output file path (default: date-stamped name)")},
		&cli.StringFlag{Name: "date", Usage: l10n.T("Journal date (YYYY-MM-DD, default: today)")},
		&cli.StringFlag{Name: "location", Usage: l10n.T("Location line text")},
		&cli.StringFlag{Name: "body", Usage: l10n.T("Body text; blank lines separate paragraphs")},
		&cli.StringFlag{Name: "body-file", Usage: l10n.T("Read body text from a file")},
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: l10n.T("Layout mode (standard, mirrored, freeflow)")},
		&cli.StringFlag{Name: "location-color", Usage: l10n.T("Location color (hex); skips palette extraction")},
		&cli.StringFlag{Name: "font", Usage: l10n.T("Path to a TTF font file")},
		&cli.StringFlag{Name: "template", Usage: l10n.T("Background template image path")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Value: "./debug", Usage: l10n.T("Directory for debug output")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     l10n.T("Render a journal page to PNG or JPEG"),
		ArgsUsage: "[photo files]",
		Flags:     documentFlags(),
		Action: func(c *cli.Context) error {
			return runPipeline(c, false)
		},
	}
}

func pdfCommand() *cli.Command {
	return &cli.Command{
		Name:      "pdf",
		Usage:     l10n.T("Render a journal page as a multi-page A4 PDF"),
		ArgsUsage: "[photo files]",
		Flags:     documentFlags(),
		Action: func(c *cli.Context) error {
			return runPipeline(c, true)
		},
	}
}

func paletteCommand() *cli.Command {
	return &cli.Command{
		Name:      "palette",
		Usage:     l10n.T("Extract a color palette from photos"),
		ArgsUsage: "[photo files]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Aliases: []string{"n"}, Value: 6, Usage: l10n.T("Number of palette colors")},
		},
		Action: runPalette,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Println(l10n.F("journalpage version %s", version))
			return nil
		},
	}
}

func runPipeline(c *cli.Context, pdf bool) error {
	cfg, err := buildConfig(c, pdf)
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	composeStage := compose.NewStage(renderer, sink, log)
	composeStage.SetTheme(cfg.ToComposeTheme())
	if cfg.FontPath != "" {
		composeStage.SetFontPath(cfg.FontPath)
	}
	if cfg.TemplatePath != "" {
		template, err := loadTemplate(fs, renderer, cfg.TemplatePath)
		if err != nil {
			return fmt.Errorf("load template: %w", err)
		}
		composeStage.SetTemplate(template)
	}

	exportStage := export.NewStage(composeStage, renderer, func() ports.PDFWriter {
		return fpdfwriter.New()
	}, sink, log)
	exportStage.SetTiers(cfg.Tiers)
	if cfg.TierTimeoutMs > 0 {
		exportStage.SetTierTimeout(time.Duration(cfg.TierTimeoutMs) * time.Millisecond)
	}

	// Create orchestrator
	orch := orchestrator.New(
		ingest.NewStage(renderer, log),
		layout.NewStage(),
		exportStage,
		renderer,
		fs,
		sink,
		log,
	)

	photos, err := readPhotos(fs, c.Args().Slice())
	if err != nil {
		return err
	}

	orchConfig := cfg.ToOrchestratorConfig()
	orchConfig.Date = c.String("date")
	if orchConfig.Date == "" {
		orchConfig.Date = time.Now().Format("2006-01-02")
	}
	orchConfig.Location = c.String("location")
	orchConfig.Body, err = readBody(c)
	if err != nil {
		return err
	}

	log.Info(l10n.T("Rendering journal page..."))
	result, err := orch.Run(ctx, orchConfig, photos)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

func runPalette(c *cli.Context) error {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var images []image.Image
	for _, path := range c.Args().Slice() {
		data, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		img, err := renderer.DecodeImage(data, ports.FormatAuto)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		images = append(images, img)
	}

	for _, hex := range palette.ExtractPalette(images, c.Int("size")) {
		fmt.Println(hex)
	}
	return nil
}

// buildConfig merges the optional YAML file and CLI overrides.
func buildConfig(c *cli.Context, pdf bool) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if v := c.String("output"); v != "" {
		cfg.OutputPath = v
	}
	if v := c.String("mode"); v != "" {
		cfg.Mode = v
	}
	if v := c.String("location-color"); v != "" {
		cfg.LocationColor = v
	}
	if v := c.String("font"); v != "" {
		cfg.FontPath = v
	}
	if v := c.String("template"); v != "" {
		cfg.TemplatePath = v
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if v := c.String("debug-dir"); v != "" && v != "./debug" {
		cfg.DebugDir = v
	}
	cfg.PDF = pdf
	return cfg, nil
}

func readBody(c *cli.Context) (string, error) {
	if path := c.String("body-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		return string(data), nil
	}
	return c.String("body"), nil
}

func readPhotos(fs ports.FileSystem, paths []string) ([][]byte, error) {
	photos := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read photo %s: %w", path, err)
		}
		photos = append(photos, data)
	}
	return photos, nil
}

func loadTemplate(fs ports.FileSystem, renderer ports.Renderer, path string) (image.Image, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return renderer.DecodeImage(data, ports.FormatAuto)
}

func printSummary(result orchestrator.RunResult) {
	fmt.Println(l10n.F("Output saved to %s", result.OutputPath))
	if result.Format == "pdf" {
		fmt.Println(l10n.F("Pages: %d", result.PageCount))
	} else if result.Tier > 1 {
		fmt.Println(l10n.F("Rendered at degraded quality tier %d", result.Tier))
	}
	if result.SkippedPhotos > 0 {
		fmt.Println(l10n.F("Skipped %d unreadable photos", result.SkippedPhotos))
	}
}
