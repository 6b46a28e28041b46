// Package config provides configuration loading and management.
package config

import (
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/orchestrator"
	"github.com/user/journalpage/pkg/stages/compose"
)

// Config represents the full configuration for journalpage.
type Config struct {
	// Output
	OutputPath string `yaml:"output"`
	PDF        bool   `yaml:"pdf"`

	// Layout
	Mode string `yaml:"mode"`

	// Colors
	LocationColor string `yaml:"location_color"`
	PaletteSize   int    `yaml:"palette_size"`

	// Photo ingest
	MaxPhotoDim     int `yaml:"max_photo_dim"`
	PhotoByteBudget int `yaml:"photo_byte_budget"`

	// Rendering
	FontPath     string      `yaml:"font_path"`
	TemplatePath string      `yaml:"template"`
	Theme        ThemeConfig `yaml:"theme"`

	// Export
	Tiers         []float64 `yaml:"export_tiers"`
	TierTimeoutMs int       `yaml:"tier_timeout_ms"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ThemeConfig represents page chrome colors.
type ThemeConfig struct {
	BackgroundColor  string `yaml:"background_color"`
	PlaceholderColor string `yaml:"placeholder_color"`
	SelectionColor   string `yaml:"selection_color"`
	CaretColor       string `yaml:"caret_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Mode: string(journal.ModeStandard),

		PaletteSize: 6,

		MaxPhotoDim:     1600,
		PhotoByteBudget: 500 * 1024,

		Theme: ThemeConfig{
			BackgroundColor:  "#f8f6f0",
			PlaceholderColor: "#c8c4bc",
			SelectionColor:   "#2278dc",
			CaretColor:       "#1e1e1e",
		},

		TierTimeoutMs: 90000,

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	var r, g, b uint8
	for i, c := range []byte{hex[0], hex[1]} {
		v := hexValue(c)
		if i == 0 {
			r = v << 4
		} else {
			r |= v
		}
	}
	for i, c := range []byte{hex[2], hex[3]} {
		v := hexValue(c)
		if i == 0 {
			g = v << 4
		} else {
			g |= v
		}
	}
	for i, c := range []byte{hex[4], hex[5]} {
		v := hexValue(c)
		if i == 0 {
			b = v << 4
		} else {
			b |= v
		}
	}

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// LayoutMode converts the configured mode string, defaulting to standard.
func (c Config) LayoutMode() journal.LayoutMode {
	switch journal.LayoutMode(c.Mode) {
	case journal.ModeMirrored:
		return journal.ModeMirrored
	case journal.ModeFreeflow:
		return journal.ModeFreeflow
	default:
		return journal.ModeStandard
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Mode: c.LayoutMode(),

		LocationColor: c.LocationColor,
		PaletteSize:   c.PaletteSize,

		MaxPhotoDim:     c.MaxPhotoDim,
		PhotoByteBudget: c.PhotoByteBudget,

		OutputPath: c.OutputPath,
		PDF:        c.PDF,
	}
}

// ToComposeTheme converts the theme colors for the render surface.
func (c Config) ToComposeTheme() compose.Theme {
	theme := compose.DefaultTheme()
	if c.Theme.BackgroundColor != "" {
		theme.Background = ParseColor(c.Theme.BackgroundColor)
	}
	if c.Theme.PlaceholderColor != "" {
		theme.Placeholder = ParseColor(c.Theme.PlaceholderColor)
	}
	if c.Theme.SelectionColor != "" {
		theme.Selection = ParseColor(c.Theme.SelectionColor)
	}
	if c.Theme.CaretColor != "" {
		theme.Caret = ParseColor(c.Theme.CaretColor)
	}
	return theme
}
