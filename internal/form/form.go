// Package form converts the raw field values an edit form produces into
// validated units and map dimensions. Malformed input is rejected here so
// that NaN never reaches the coordinate code.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"
	"battlemap/pkg/geometry"

	"github.com/spf13/cast"
)

// Field names as shown to the form collaborator.
const (
	FieldName   = "name"
	FieldX      = "x"
	FieldY      = "y"
	FieldSize   = "size"
	FieldShape  = "shape"
	FieldColor  = "color"
	FieldWidth  = "width"
	FieldHeight = "height"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field string
	Value string
	Msg   string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Msg, e.Value)
}

// ValidationError collects every rejected field of a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Defaults are the values a fresh unit form starts with.
type Defaults struct {
	SizeMillimeters float64
	Shape           unit.ShapeKind
	Color           string
}

// Values is the working copy of a unit form: every field as typed.
type Values struct {
	Name  string
	X     string
	Y     string
	Size  string
	Shape string
	Color string
}

// New returns a blank form populated with d.
func New(d Defaults) Values {
	return Values{
		X:     "0",
		Y:     "0",
		Size:  formatFloat(d.SizeMillimeters),
		Shape: d.Shape.String(),
		Color: d.Color,
	}
}

// FromUnit populates a form from an existing unit, for edit mode.
func FromUnit(u unit.Unit) Values {
	return Values{
		Name:  u.Name,
		X:     formatFloat(u.Position.X),
		Y:     formatFloat(u.Position.Y),
		Size:  formatFloat(u.SizeMillimeters),
		Shape: u.Shape.String(),
		Color: colorutil.ToHex(u.Color),
	}
}

// Parse validates every field and builds a unit without ID or image. All
// field errors are reported together.
func (v Values) Parse() (unit.Unit, error) {
	var errs []FieldError
	u := unit.Unit{Name: strings.TrimSpace(v.Name)}

	x, err := parseFinite(v.X)
	if err != nil {
		errs = append(errs, FieldError{Field: FieldX, Value: v.X, Msg: err.Error()})
	}
	y, err := parseFinite(v.Y)
	if err != nil {
		errs = append(errs, FieldError{Field: FieldY, Value: v.Y, Msg: err.Error()})
	}
	u.Position = geometry.NewPoint2D(x, y)

	size, err := parseFinite(v.Size)
	switch {
	case err != nil:
		errs = append(errs, FieldError{Field: FieldSize, Value: v.Size, Msg: err.Error()})
	case size <= 0:
		errs = append(errs, FieldError{Field: FieldSize, Value: v.Size, Msg: "must be greater than zero"})
	}
	u.SizeMillimeters = size

	shape, err := unit.ParseShapeKind(v.Shape)
	if err != nil {
		errs = append(errs, FieldError{Field: FieldShape, Value: v.Shape, Msg: "must be circle, oval or square"})
	}
	u.Shape = shape

	c, err := colorutil.ParseHex(v.Color)
	if err != nil {
		errs = append(errs, FieldError{Field: FieldColor, Value: v.Color, Msg: "must be a #rrggbb color"})
	}
	u.Color = c

	if len(errs) > 0 {
		return unit.Unit{}, &ValidationError{Fields: errs}
	}
	return u, nil
}

// ParseDimension parses one side of the map in inches.
func ParseDimension(field, s string) (float64, error) {
	v, err := parseFinite(s)
	if err != nil {
		return 0, &ValidationError{Fields: []FieldError{{Field: field, Value: s, Msg: err.Error()}}}
	}
	if v <= 0 {
		return 0, &ValidationError{Fields: []FieldError{{Field: field, Value: s, Msg: "must be greater than zero"}}}
	}
	return v, nil
}

func parseFinite(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("is not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseCoordinate parses one coordinate in inches. Any finite value is
// accepted, including negatives.
func ParseCoordinate(field, s string) (float64, error) {
	v, err := parseFinite(s)
	if err != nil {
		return 0, &ValidationError{Fields: []FieldError{{Field: field, Value: s, Msg: err.Error()}}}
	}
	return v, nil
}
