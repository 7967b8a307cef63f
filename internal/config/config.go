// Package config loads and saves the user settings shared by chanmap and
// chanview.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the home directory.
const FileName = ".chanmap.yaml"

// Config holds user settings. Zero values are filled from Default.
type Config struct {
	// Variant shown on start.
	Variant string `yaml:"variant,omitempty"`

	// ViewportWidth selects the wide or narrow layout.
	ViewportWidth int `yaml:"viewportWidth,omitempty"`

	// MutationSize is the marker area (70..200).
	MutationSize int `yaml:"mutationSize,omitempty"`

	// Legend position inside the diagram.
	LegendX int `yaml:"legendX,omitempty"`
	LegendY int `yaml:"legendY,omitempty"`

	ShowLegend *bool `yaml:"showLegend,omitempty"`
	ShowLabels *bool `yaml:"showLabels,omitempty"`

	// ExportFormat is "svg" or "png".
	ExportFormat string `yaml:"exportFormat,omitempty"`
	PNGScale     int    `yaml:"pngScale,omitempty"`

	// LastDir is where the viewer last exported to.
	LastDir string `yaml:"lastDir,omitempty"`

	// TablePath overrides the embedded segment table.
	TablePath string `yaml:"table,omitempty"`

	LogLevel string `yaml:"logLevel,omitempty"`

	// Colours maps palette keys ("S4Colour", "DSColour") to hex colours.
	Colours map[string]string `yaml:"colours,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	on := true
	return &Config{
		Variant:       "scn1a",
		ViewportWidth: 1440,
		MutationSize:  70,
		LegendX:       530,
		LegendY:       300,
		ShowLegend:    &on,
		ShowLabels:    &on,
		ExportFormat:  "svg",
		PNGScale:      5,
		LogLevel:      "info",
		Colours:       make(map[string]string),
	}
}

// DefaultPath returns $HOME/.chanmap.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads settings from path, or from DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes settings to path, or to DefaultPath when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills zero fields from Default.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Variant == "" {
		cfg.Variant = d.Variant
	}
	if cfg.ViewportWidth == 0 {
		cfg.ViewportWidth = d.ViewportWidth
	}
	if cfg.MutationSize == 0 {
		cfg.MutationSize = d.MutationSize
	}
	if cfg.LegendX == 0 {
		cfg.LegendX = d.LegendX
	}
	if cfg.LegendY == 0 {
		cfg.LegendY = d.LegendY
	}
	if cfg.ShowLegend == nil {
		cfg.ShowLegend = d.ShowLegend
	}
	if cfg.ShowLabels == nil {
		cfg.ShowLabels = d.ShowLabels
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = d.ExportFormat
	}
	if cfg.PNGScale == 0 {
		cfg.PNGScale = d.PNGScale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.Colours == nil {
		cfg.Colours = d.Colours
	}
}

// Legend reports whether the legend is shown.
func (c *Config) Legend() bool { return c.ShowLegend == nil || *c.ShowLegend }

// Labels reports whether marker labels are shown.
func (c *Config) Labels() bool { return c.ShowLabels == nil || *c.ShowLabels }
