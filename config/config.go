// Package config provides the YAML configuration of the threea command:
// logging, legacy reading defaults and SVG rendering settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"threea/canvas"
	"threea/codec"
	"threea/export"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	LogLevel slog.Level   `yaml:"log_level"`
	Legacy   LegacyConfig `yaml:"legacy"`
	SVG      SVGConfig    `yaml:"svg"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Legacy.Validate(); err != nil {
		return fmt.Errorf("legacy: %w", err)
	}
	if err := c.SVG.Validate(); err != nil {
		return fmt.Errorf("svg: %w", err)
	}
	return nil
}

// CodecOptions returns the read options the configuration implies.
func (c *Config) CodecOptions(logger *slog.Logger) []codec.Option {
	return []codec.Option{
		codec.WithLogger(logger),
		codec.WithLegacyDefaultDelay(c.Legacy.DefaultDelay),
	}
}

// LegacyConfig holds defaults for reading legacy files.
type LegacyConfig struct {
	DefaultDelay time.Duration `yaml:"default_delay"`
}

// Validate validates the legacy configuration.
func (c *LegacyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultDelay, validation.Required, validation.Min(time.Millisecond), validation.By(wholeMilliseconds)),
	)
}

// SVGConfig holds SVG rendering settings. Colors overrides the CSS value of
// a color on one side, keyed "<color>/fg" or "<color>/bg".
type SVGConfig struct {
	Animate bool              `yaml:"animate"`
	Font    FontConfig        `yaml:"font"`
	Colors  map[string]string `yaml:"colors,omitempty"`
}

// Validate validates the SVG configuration.
func (c *SVGConfig) Validate() error {
	if err := c.Font.Validate(); err != nil {
		return fmt.Errorf("font: %w", err)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Colors, validation.By(validColors)),
	)
}

// wholeMilliseconds rejects delays the 3a format cannot store.
func wholeMilliseconds(value any) error {
	d, _ := value.(time.Duration)
	if d%time.Millisecond != 0 {
		return fmt.Errorf("%v is not a whole number of milliseconds", d)
	}
	return nil
}

func validColors(value any) error {
	colors, _ := value.(map[string]string)
	m := export.NewCSSColorMap()
	for _, key := range sortedKeys(colors) {
		if err := m.SetSpec(key, colors[key]); err != nil {
			return err
		}
	}
	return nil
}

// Exporter builds an SVG exporter from the settings.
func (c *SVGConfig) Exporter() (*export.SVGExporter, error) {
	colors := export.NewCSSColorMap()
	for _, key := range sortedKeys(c.Colors) {
		if err := colors.SetSpec(key, c.Colors[key]); err != nil {
			return nil, err
		}
	}
	return &export.SVGExporter{
		Colors:  colors,
		Font:    c.Font.Font(),
		Animate: c.Animate,
	}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FontConfig holds the font metrics used to lay out SVG text.
type FontConfig struct {
	Family  string `yaml:"family"`
	Size    int    `yaml:"size"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	OffsetX int    `yaml:"offset_x"`
	OffsetY int    `yaml:"offset_y"`
}

// Validate validates the font configuration.
func (c *FontConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Family, validation.Required),
		validation.Field(&c.Size, validation.Required, validation.Min(1)),
		validation.Field(&c.Width, validation.Required, validation.Min(1)),
		validation.Field(&c.Height, validation.Required, validation.Min(1)),
		validation.Field(&c.OffsetX, validation.Min(0)),
		validation.Field(&c.OffsetY, validation.Min(0)),
	)
}

// Font returns the metrics as an export.Font.
func (c *FontConfig) Font() export.Font {
	return export.Font{
		Family:  c.Family,
		Size:    c.Size,
		Width:   c.Width,
		Height:  c.Height,
		OffsetX: c.OffsetX,
		OffsetY: c.OffsetY,
	}
}

// DefaultConfig returns a new Config with the library defaults.
func DefaultConfig() *Config {
	font := export.DefaultFont()
	return &Config{
		LogLevel: slog.LevelInfo,
		Legacy: LegacyConfig{
			DefaultDelay: canvas.DefaultDelay,
		},
		SVG: SVGConfig{
			Font: FontConfig{
				Family:  font.Family,
				Size:    font.Size,
				Width:   font.Width,
				Height:  font.Height,
				OffsetX: font.OffsetX,
				OffsetY: font.OffsetY,
			},
		},
	}
}

// Load reads a YAML file over the defaults. Environment variables in the
// file are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
