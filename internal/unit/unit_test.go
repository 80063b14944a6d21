package unit

import (
	"encoding/json"
	"image"
	"math"
	"testing"

	"battlemap/pkg/colorutil"
	"battlemap/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUnit(name string) Unit {
	return Unit{
		Name:            name,
		Position:        geometry.NewPoint2D(1, 2),
		SizeMillimeters: 25,
		Shape:           Circle,
		Color:           colorutil.UnitBlue,
	}
}

func TestUnit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Unit)
		wantErr bool
	}{
		{"valid", func(*Unit) {}, false},
		{"negative position is legal", func(u *Unit) { u.Position = geometry.NewPoint2D(-5, -0.5) }, false},
		{"zero size", func(u *Unit) { u.SizeMillimeters = 0 }, true},
		{"negative size", func(u *Unit) { u.SizeMillimeters = -25 }, true},
		{"NaN size", func(u *Unit) { u.SizeMillimeters = math.NaN() }, true},
		{"infinite size", func(u *Unit) { u.SizeMillimeters = math.Inf(1) }, true},
		{"bad shape", func(u *Unit) { u.Shape = ShapeKind(7) }, true},
		{"NaN position", func(u *Unit) { u.Position.X = math.NaN() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := sampleUnit("a")
			tt.mutate(&u)
			err := u.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUnit)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseShapeKind(t *testing.T) {
	for _, k := range ShapeKinds {
		got, err := ParseShapeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseShapeKind(" Oval ")
	require.NoError(t, err)
	assert.Equal(t, Oval, got)

	_, err = ParseShapeKind("triangle")
	assert.Error(t, err)
}

func TestShapeKind_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Shape ShapeKind `json:"shape"`
	}{Square})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"square"}`, string(data))

	var back struct {
		Shape ShapeKind `json:"shape"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"shape":"oval"}`), &back))
	assert.Equal(t, Oval, back.Shape)
}

func TestShapeKind_Outline(t *testing.T) {
	assert.Equal(t, geometry.NewSize(32, 32), Circle.Outline(32))
	assert.Equal(t, geometry.NewSize(32, 16), Oval.Outline(32))
	assert.Equal(t, geometry.NewSize(32, 32), Square.Outline(32))
}

func TestShapeKind_Clip(t *testing.T) {
	const size = 40.0

	circle := Circle.Clip(size)
	assert.True(t, circle(20, 20))
	assert.True(t, circle(20, 0.5))
	assert.False(t, circle(1, 1), "corner lies outside the circle")

	oval := Oval.Clip(size)
	assert.True(t, oval(20, 20))
	assert.True(t, oval(1, 20), "oval spans the full width")
	assert.False(t, oval(20, 5), "oval is half as tall as wide")

	square := Square.Clip(size)
	assert.True(t, square(0, 0))
	assert.True(t, square(39.9, 39.9))
	assert.False(t, square(-1, 10))
}

func TestShapeKind_Mask(t *testing.T) {
	m := Circle.Mask(10)
	assert.Equal(t, image.Rect(0, 0, 10, 10), m.Bounds())

	_, _, _, a := m.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	_, _, _, a = m.At(0, 0).RGBA()
	assert.Zero(t, a)

	sq := Square.Mask(4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			_, _, _, a := sq.At(x, y).RGBA()
			assert.Equal(t, uint32(0xffff), a)
		}
	}

	assert.Equal(t, image.Rect(0, 0, 1, 1), Oval.Mask(0).Bounds())
}
