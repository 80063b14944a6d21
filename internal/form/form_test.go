package form

import (
	"testing"

	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"
	"battlemap/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = Defaults{SizeMillimeters: 25, Shape: unit.Circle, Color: "#007bff"}

func TestNew(t *testing.T) {
	v := New(defaults)
	assert.Equal(t, Values{X: "0", Y: "0", Size: "25", Shape: "circle", Color: "#007bff"}, v)

	u, err := v.Parse()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint2D(0, 0), u.Position)
	assert.Equal(t, 25.0, u.SizeMillimeters)
	assert.Equal(t, unit.Circle, u.Shape)
	assert.Equal(t, colorutil.UnitBlue, u.Color)
	assert.Empty(t, u.Name)
	assert.Empty(t, u.ID)
}

func TestParse(t *testing.T) {
	v := Values{Name: "  Knight ", X: "12.5", Y: "-3", Size: "40", Shape: "oval", Color: "ff0000"}
	u, err := v.Parse()
	require.NoError(t, err)
	assert.Equal(t, "Knight", u.Name)
	assert.Equal(t, geometry.NewPoint2D(12.5, -3), u.Position)
	assert.Equal(t, 40.0, u.SizeMillimeters)
	assert.Equal(t, unit.Oval, u.Shape)
	assert.Equal(t, colorutil.Red, u.Color)
}

func TestParse_Rejects(t *testing.T) {
	base := New(defaults)
	tests := []struct {
		name  string
		edit  func(*Values)
		field string
	}{
		{"empty x", func(v *Values) { v.X = "" }, FieldX},
		{"letters y", func(v *Values) { v.Y = "north" }, FieldY},
		{"nan x", func(v *Values) { v.X = "NaN" }, FieldX},
		{"inf y", func(v *Values) { v.Y = "+Inf" }, FieldY},
		{"zero size", func(v *Values) { v.Size = "0" }, FieldSize},
		{"negative size", func(v *Values) { v.Size = "-5" }, FieldSize},
		{"blank size", func(v *Values) { v.Size = "  " }, FieldSize},
		{"shape", func(v *Values) { v.Shape = "hexagon" }, FieldShape},
		{"color", func(v *Values) { v.Color = "blue-ish" }, FieldColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			tt.edit(&v)
			_, err := v.Parse()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has(tt.field), verr.Error())
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestParse_CollectsAllErrors(t *testing.T) {
	_, err := Values{X: "a", Y: "b", Size: "c", Shape: "d", Color: "e"}.Parse()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 5)
}

func TestFromUnit(t *testing.T) {
	u := unit.Unit{
		ID:              "u1",
		Name:            "Scout",
		Position:        geometry.NewPoint2D(1.25, 30),
		SizeMillimeters: 32,
		Shape:           unit.Square,
		Color:           colorutil.Red,
	}
	v := FromUnit(u)
	assert.Equal(t, Values{Name: "Scout", X: "1.25", Y: "30", Size: "32", Shape: "square", Color: "#ff0000"}, v)

	back, err := v.Parse()
	require.NoError(t, err)
	back.ID = u.ID
	assert.Equal(t, u, back)
}

func TestParseDimension(t *testing.T) {
	v, err := ParseDimension(FieldWidth, " 44 ")
	require.NoError(t, err)
	assert.Equal(t, 44.0, v)

	for _, s := range []string{"", "wide", "0", "-2", "NaN", "Inf"} {
		_, err := ParseDimension(FieldHeight, s)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, s)
		assert.True(t, verr.Has(FieldHeight))
	}
}

func TestParseCoordinate(t *testing.T) {
	v, err := ParseCoordinate(FieldX, "-2.5")
	require.NoError(t, err)
	assert.Equal(t, -2.5, v)

	_, err = ParseCoordinate(FieldX, "Inf")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(FieldX))
}
