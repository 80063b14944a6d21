// Package battlefield provides map dimensions and the named table sizes
// offered as presets.
package battlefield

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"battlemap/pkg/geometry"
)

var (
	// ErrInvalidDimensions is returned for non-positive or non-finite sizes.
	ErrInvalidDimensions = errors.New("invalid map dimensions")

	// ErrUnknownPreset is returned when no preset has the requested name.
	ErrUnknownPreset = errors.New("unknown map preset")
)

// Dimensions is the physical size of the playing surface in inches. It is
// only a multiplier for the render frame and is never checked against the
// background image's pixel size.
type Dimensions struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// Default returns the dimensions a new map starts with.
func Default() Dimensions {
	return Dimensions{Width: 48, Height: 72}
}

// Size returns the dimensions as a geometry.Size in inches.
func (d Dimensions) Size() geometry.Size {
	return geometry.NewSize(d.Width, d.Height)
}

// Validate checks that both sides are positive finite numbers.
func (d Dimensions) Validate() error {
	if !positive(d.Width) || !positive(d.Height) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, d.Width, d.Height)
	}
	return nil
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%g in", d.Width, d.Height)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Preset is a named table size.
type Preset struct {
	Name        string
	Description string
	Dimensions  Dimensions
}

// Registry of known presets
var registry = make(map[string]Preset)

// Register adds a preset to the registry.
func Register(p Preset) {
	registry[p.Name] = p
}

// Get returns a preset by name.
func Get(name string) (Preset, error) {
	if p, ok := registry[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// List returns all registered preset names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
