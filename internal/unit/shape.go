package unit

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"battlemap/pkg/geometry"
)

// ShapeKind is the footprint of a unit. It determines both the fill outline
// and the clip region applied to the unit's image.
type ShapeKind int

const (
	Circle ShapeKind = iota
	Oval
	Square
)

// ShapeKinds lists every valid shape in display order.
var ShapeKinds = []ShapeKind{Circle, Oval, Square}

func (k ShapeKind) String() string {
	switch k {
	case Circle:
		return "circle"
	case Oval:
		return "oval"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the defined shapes.
func (k ShapeKind) Valid() bool {
	return k >= Circle && k <= Square
}

// ParseShapeKind parses "circle", "oval" or "square" (case-insensitive).
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle":
		return Circle, nil
	case "oval":
		return Oval, nil
	case "square":
		return Square, nil
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown shape %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ShapeKind) UnmarshalText(b []byte) error {
	v, err := ParseShapeKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Outline returns the extent of the filled shape for a unit of the given
// size in millimetres. Ovals are half as tall as they are wide.
func (k ShapeKind) Outline(size float64) geometry.Size {
	if k == Oval {
		return geometry.NewSize(size, size/2)
	}
	return geometry.NewSize(size, size)
}

// ClipFunc reports whether a point in the unit's image box lies inside the
// shape. The box spans [0,size) on both axes with its origin top-left.
type ClipFunc func(x, y float64) bool

// Clip returns the clip predicate for a unit image of the given size.
func (k ShapeKind) Clip(size float64) ClipFunc {
	c := size / 2
	switch k {
	case Circle:
		r := size / 2
		return func(x, y float64) bool {
			dx, dy := x-c, y-c
			return dx*dx+dy*dy <= r*r
		}
	case Oval:
		rx, ry := size/2, size/4
		return func(x, y float64) bool {
			if rx == 0 || ry == 0 {
				return false
			}
			dx, dy := (x-c)/rx, (y-c)/ry
			return dx*dx+dy*dy <= 1
		}
	default:
		return func(x, y float64) bool {
			return x >= 0 && y >= 0 && x <= size && y <= size
		}
	}
}

// Mask returns an alpha mask of size×size pixels for the shape, suitable as
// the mask argument to draw.DrawMask. Pixels are sampled at their centres.
func (k ShapeKind) Mask(size int) image.Image {
	if size < 1 {
		size = 1
	}
	return &shapeMask{clip: k.Clip(float64(size)), size: size}
}

type shapeMask struct {
	clip ClipFunc
	size int
}

func (m *shapeMask) ColorModel() color.Model {
	return color.AlphaModel
}

func (m *shapeMask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.size, m.size)
}

func (m *shapeMask) At(x, y int) color.Color {
	if m.clip(float64(x)+0.5, float64(y)+0.5) {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
