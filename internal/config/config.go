// Package config loads application settings through viper.
package config

import (
	"errors"
	"fmt"

	"battlemap/internal/battlefield"
	"battlemap/internal/form"
	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "battlemap.json"

// MapConfig holds the starting map dimensions in inches.
type MapConfig struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// RenderConfig holds the physical to render scale.
type RenderConfig struct {
	MMPerInch float64 `json:"mmPerInch" mapstructure:"mmPerInch"`
}

// UnitConfig holds the defaults of a fresh unit form.
type UnitConfig struct {
	Size  float64 `json:"size" mapstructure:"size"`
	Color string  `json:"color" mapstructure:"color"`
	Shape string  `json:"shape" mapstructure:"shape"`
}

// LabelConfig places unit name labels.
type LabelConfig struct {
	Offset   float64 `json:"offset" mapstructure:"offset"`
	FontSize float64 `json:"fontSize" mapstructure:"fontSize"`
}

// MeasureConfig styles the measurement line.
type MeasureConfig struct {
	Color       string  `json:"color" mapstructure:"color"`
	StrokeWidth float64 `json:"strokeWidth" mapstructure:"strokeWidth"`
}

// Config is the typed view of all settings.
type Config struct {
	LogLevel         string        `json:"logLevel" mapstructure:"logLevel"`
	StrictInvariants bool          `json:"strictInvariants" mapstructure:"strictInvariants"`
	HotReload        bool          `json:"hotReload" mapstructure:"hotReload"`
	Map              MapConfig     `json:"map" mapstructure:"map"`
	Render           RenderConfig  `json:"render" mapstructure:"render"`
	Unit             UnitConfig    `json:"unit" mapstructure:"unit"`
	Label            LabelConfig   `json:"label" mapstructure:"label"`
	Measure          MeasureConfig `json:"measure" mapstructure:"measure"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("strictInvariants", false)
	viper.SetDefault("hotReload", false)

	def := battlefield.Default()
	viper.SetDefault("map.width", def.Width)
	viper.SetDefault("map.height", def.Height)

	viper.SetDefault("render.mmPerInch", 25.4)

	viper.SetDefault("unit.size", 25.0)
	viper.SetDefault("unit.color", "#007bff")
	viper.SetDefault("unit.shape", "circle")

	viper.SetDefault("label.offset", 20.0)
	viper.SetDefault("label.fontSize", 14.0)

	viper.SetDefault("measure.color", "#ff0000")
	viper.SetDefault("measure.strokeWidth", 2.0)
}

// Load sets defaults, reads battlemap.json from configDir when present and
// returns the validated settings. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	SetDefaults()

	viper.SetConfigName("battlemap")
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return Current()
}

// Current decodes the settings viper holds right now.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would break the editor.
func (c *Config) Validate() error {
	if err := c.Dimensions().Validate(); err != nil {
		return fmt.Errorf("map: %w", err)
	}
	if c.Render.MMPerInch <= 0 {
		return fmt.Errorf("render.mmPerInch must be positive, got %v", c.Render.MMPerInch)
	}
	if _, err := c.UnitDefaults().Parse(); err != nil {
		return fmt.Errorf("unit defaults: %w", err)
	}
	if _, err := colorutil.ParseHex(c.Measure.Color); err != nil {
		return fmt.Errorf("measure.color: %w", err)
	}
	return nil
}

// Dimensions returns the configured starting map size.
func (c *Config) Dimensions() battlefield.Dimensions {
	return battlefield.Dimensions{Width: c.Map.Width, Height: c.Map.Height}
}

// FormDefaults returns the values a new unit form starts with.
func (c *Config) FormDefaults() form.Defaults {
	shape, err := unit.ParseShapeKind(c.Unit.Shape)
	if err != nil {
		shape = unit.Circle
	}
	return form.Defaults{
		SizeMillimeters: c.Unit.Size,
		Shape:           shape,
		Color:           c.Unit.Color,
	}
}

// UnitDefaults returns a blank form built from the configured defaults.
func (c *Config) UnitDefaults() form.Values {
	v := form.New(c.FormDefaults())
	v.Shape = c.Unit.Shape
	return v
}

// ConfigFileUsed returns the path of the file read by Load, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
