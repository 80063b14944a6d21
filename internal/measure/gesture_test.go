package measure

import (
	"testing"

	"battlemap/internal/coords"
	"battlemap/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func px(xIn, yIn float64) geometry.Point2D {
	return coords.ToRenderPixels(geometry.NewPoint2D(xIn, yIn))
}

func TestGesture_Lifecycle(t *testing.T) {
	g := NewGesture(coords.System{})
	require.Equal(t, Idle, g.State())

	p1, p2 := px(1, 1), px(4, 5)
	g.Press(p1)
	assert.Equal(t, Dragging, g.State())
	_, ok := g.Line()
	assert.False(t, ok, "no line until the pointer moves")

	assert.True(t, g.Move(p2))
	line, ok := g.Line()
	require.True(t, ok)
	assert.Equal(t, Line{Start: p1, End: p2}, line)

	r, ok := g.Release()
	require.True(t, ok)
	assert.Equal(t, Shown, g.State())
	want := coords.EuclideanDistance(coords.ToPhysicalInches(p1), coords.ToPhysicalInches(p2))
	assert.Equal(t, want, r.Inches)
	assert.Equal(t, 5.0, r.Inches)
	assert.True(t, r.Valid)
	assert.Equal(t, "5.00 inches", r.String())
	assert.Equal(t, r, g.Reading())

	_, ok = g.Line()
	assert.True(t, ok, "line stays visible while shown")

	assert.True(t, g.Dismiss())
	assert.Equal(t, Idle, g.State())
	_, ok = g.Line()
	assert.False(t, ok)
	assert.False(t, g.Reading().Valid)
	assert.Equal(t, NoMeasurement, g.Reading().String())
}

func TestGesture_ReleaseWithoutMoveIsZero(t *testing.T) {
	g := NewGesture(coords.System{})
	g.Press(px(10, 10))

	r, ok := g.Release()
	require.True(t, ok)
	assert.True(t, r.Valid)
	assert.Zero(t, r.Inches)
	assert.Equal(t, "0.00 inches", r.String())

	line, ok := g.Line()
	require.True(t, ok)
	assert.Equal(t, line.Start, line.End)
}

func TestGesture_PressWhileShownRestarts(t *testing.T) {
	g := NewGesture(coords.System{})
	g.Press(px(0, 0))
	g.Move(px(3, 4))
	g.Release()
	require.Equal(t, Shown, g.State())

	g.Press(px(10, 10))
	assert.Equal(t, Dragging, g.State())
	assert.False(t, g.Reading().Valid, "previous reading is discarded")
	_, ok := g.Line()
	assert.False(t, ok, "previous line is discarded")

	g.Move(px(10, 12))
	r, _ := g.Release()
	assert.Equal(t, 2.0, r.Inches)
}

func TestGesture_IgnoresOutOfPhaseEvents(t *testing.T) {
	g := NewGesture(coords.System{})

	assert.False(t, g.Move(px(1, 1)))
	_, ok := g.Release()
	assert.False(t, ok)
	assert.False(t, g.Dismiss())
	assert.Equal(t, Idle, g.State())

	g.Press(px(0, 0))
	g.Move(px(1, 0))
	g.Release()
	assert.False(t, g.Move(px(9, 9)), "moves after release do not drag the line")
	line, _ := g.Line()
	assert.Equal(t, px(1, 0), line.End)

	_, ok = g.Release()
	assert.False(t, ok, "a second release is a no-op")
}

func TestGesture_DismissWhileDragging(t *testing.T) {
	g := NewGesture(coords.System{})
	g.Press(px(0, 0))
	g.Move(px(1, 1))

	assert.True(t, g.Dismiss())
	assert.Equal(t, Idle, g.State())
	_, active := g.Start()
	assert.False(t, active)
}

func TestGesture_CustomScale(t *testing.T) {
	g := NewGesture(coords.NewSystem(10))
	g.Press(geometry.NewPoint2D(0, 0))
	g.Move(geometry.NewPoint2D(30, 40))

	r, _ := g.Release()
	assert.Equal(t, 5.0, r.Inches)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "shown", Shown.String())
	assert.Equal(t, "unknown", State(42).String())
}
