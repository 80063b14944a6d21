// Command measure prints the physical distance between two map points.
//
//	measure [--scale 25.4] [--inches] X1,Y1 X2,Y2
//
// Points are render pixels unless --inches is given. Negative points such as
// -1,-2 are accepted anywhere on the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"battlemap/internal/coords"
	"battlemap/internal/form"
	"battlemap/internal/measure"
	"battlemap/pkg/geometry"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "measure: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("measure", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	scale := fs.Float64("scale", coords.MillimetersPerInch, "render pixels per inch")
	inches := fs.BoolP("inches", "i", false, "points are already in inches")
	if err := fs.Parse(pointsLast(args)); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: measure [--scale N] [--inches] X1,Y1 X2,Y2")
	}
	if *scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", *scale)
	}

	a, err := parsePoint(fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := parsePoint(fs.Arg(1))
	if err != nil {
		return err
	}

	system := coords.NewSystem(*scale)
	if *inches {
		a, b = system.ToRenderPixels(a), system.ToRenderPixels(b)
	}

	g := measure.NewGesture(system)
	g.Press(a)
	g.Move(b)
	r, _ := g.Release()
	_, err = fmt.Fprintln(out, r.String())
	return err
}

// pointsLast moves point arguments behind "--" so pflag does not read a
// negative point as a shorthand flag.
func pointsLast(args []string) []string {
	var flags, points []string
	for i, arg := range args {
		if arg == "--" {
			points = append(points, args[i+1:]...)
			break
		}
		if isPoint(arg) {
			points = append(points, arg)
			continue
		}
		flags = append(flags, arg)
	}
	return append(append(flags, "--"), points...)
}

func isPoint(arg string) bool {
	if !strings.Contains(arg, ",") {
		return false
	}
	// --flag=a,b is a flag
	return !strings.HasPrefix(arg, "--")
}

// parsePoint reads "x,y".
func parsePoint(s string) (geometry.Point2D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Point2D{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := form.ParseCoordinate("x", parts[0])
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := form.ParseCoordinate("y", parts[1])
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geometry.NewPoint2D(x, y), nil
}
