// Package measure tracks the secondary-button drag used to read the
// distance between two points on the map.
package measure

import (
	"fmt"

	"battlemap/internal/coords"
	"battlemap/pkg/geometry"
)

// State is the phase of a measurement gesture.
type State int

const (
	Idle State = iota
	Dragging
	Shown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Shown:
		return "shown"
	default:
		return "unknown"
	}
}

// NoMeasurement is displayed when there is no reading.
const NoMeasurement = "Click two points to measure."

// Reading is a measured distance in inches.
type Reading struct {
	Inches float64
	Valid  bool
}

func (r Reading) String() string {
	if !r.Valid {
		return NoMeasurement
	}
	return fmt.Sprintf("%.2f inches", r.Inches)
}

// Line is a measurement segment in render pixels.
type Line struct {
	Start geometry.Point2D
	End   geometry.Point2D
}

// Gesture is the Idle → Dragging → Shown → Idle state machine. Points are
// in render pixels; distances are reported in inches.
type Gesture struct {
	system  coords.System
	state   State
	start   geometry.Point2D
	end     geometry.Point2D
	hasEnd  bool
	reading Reading
}

// NewGesture creates an idle gesture measuring with the given system.
func NewGesture(system coords.System) *Gesture {
	return &Gesture{system: system}
}

// State returns the current phase.
func (g *Gesture) State() State {
	return g.state
}

// Press starts a fresh gesture at p. It is accepted in any state; a press
// while a result is shown replaces the previous line.
func (g *Gesture) Press(p geometry.Point2D) {
	g.state = Dragging
	g.start = p
	g.end = geometry.Point2D{}
	g.hasEnd = false
	g.reading = Reading{}
}

// Move updates the free end of the line. It reports whether anything
// changed; moves outside a drag are ignored.
func (g *Gesture) Move(p geometry.Point2D) bool {
	if g.state != Dragging {
		return false
	}
	g.end = p
	g.hasEnd = true
	return true
}

// Release finishes a drag and returns the distance. A release without any
// move measures from the start point to itself, which is a valid zero
// reading. Outside a drag Release does nothing and returns false.
func (g *Gesture) Release() (Reading, bool) {
	if g.state != Dragging {
		return Reading{}, false
	}
	if !g.hasEnd {
		g.end = g.start
		g.hasEnd = true
	}
	g.reading = Reading{Inches: g.system.RenderDistance(g.start, g.end), Valid: true}
	g.state = Shown
	return g.reading, true
}

// Dismiss clears the line and the distance and returns to Idle. It reports
// whether there was anything to clear.
func (g *Gesture) Dismiss() bool {
	if g.state == Idle {
		return false
	}
	*g = Gesture{system: g.system}
	return true
}

// Line returns the segment to draw. It is only available once both
// endpoints exist.
func (g *Gesture) Line() (Line, bool) {
	if g.state == Idle || !g.hasEnd {
		return Line{}, false
	}
	return Line{Start: g.start, End: g.end}, true
}

// Start returns the anchor point and whether a gesture is active.
func (g *Gesture) Start() (geometry.Point2D, bool) {
	return g.start, g.state != Idle
}

// Reading returns the last computed distance, valid only while Shown.
func (g *Gesture) Reading() Reading {
	return g.reading
}
