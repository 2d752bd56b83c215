// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// gradient.go implements gradient shading for the preview renderer.
// Stop colors already carry their stop-opacity in the alpha channel;
// the shader only blends between them and applies the path opacity.

package svg2compose

import (
	"image/color"
	"math"
	"sort"

	"github.com/srwiley/rasterx"
)

// gradientBounds is the rectangle objectBoundingBox gradient
// coordinates are resolved against.
type gradientBounds struct {
	X, Y, W, H float64
}

func applyOpacity(c Color, opacity float64) color.NRGBA {
	return color.NRGBA{
		R: c.Red(),
		G: c.Green(),
		B: c.Blue(),
		A: uint8(math.Round(float64(c.Alpha()) * clamp01(opacity))),
	}
}

// shader evaluates the one-dimensional stop ramp of a gradient. Stops
// are held sorted by offset.
type shader struct {
	stops  []ColorStop
	spread SpreadMethod
}

func newShader(stops []ColorStop, spread SpreadMethod) shader {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return shader{stops: sorted, spread: spread}
}

// at returns the ramp color for parameter t, wrapping t according to
// the spread method.
func (s shader) at(t, opacity float64) color.Color {
	d := len(s.stops)
	if s.spread == PadSpread {
		if t >= 1 {
			return applyOpacity(s.stops[d-1].Color, opacity)
		}
		if t <= 0 {
			return applyOpacity(s.stops[0].Color, opacity)
		}
	}
	modRange := 1.0
	if s.spread == ReflectSpread {
		modRange = 2.0
	}
	mod := math.Mod(t, modRange)
	if mod < 0 {
		mod += modRange
	}
	if s.spread == ReflectSpread && mod > 1 {
		mod = 2 - mod
	}

	place := 0
	for place != d && mod > s.stops[place].Offset {
		place++
	}
	if s.spread == RepeatSpread {
		// the ramp wraps around between the last and first stop
		switch place {
		case 0, d:
			return s.blend(mod, opacity, s.stops[d-1], s.stops[0])
		default:
			return s.blend(mod, opacity, s.stops[place-1], s.stops[place])
		}
	}
	switch place {
	case 0:
		return applyOpacity(s.stops[0].Color, opacity)
	case d:
		return applyOpacity(s.stops[d-1].Color, opacity)
	default:
		return s.blend(mod, opacity, s.stops[place-1], s.stops[place])
	}
}

func (s shader) blend(t, opacity float64, s1, s2 ColorStop) color.Color {
	o1 := s1.Offset
	if o1 > s2.Offset { // wrapped pair in repeat spread mode
		o1--
		if t > 1 {
			t--
		}
	}
	if s2.Offset == o1 {
		return applyOpacity(s2.Color, opacity)
	}
	tp := (t - o1) / (s2.Offset - o1)
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-tp) + float64(b)*tp))
	}
	c := NewColor(
		lerp(s1.Color.Red(), s2.Color.Red()),
		lerp(s1.Color.Green(), s2.Color.Green()),
		lerp(s1.Color.Blue(), s2.Color.Blue()),
		lerp(s1.Color.Alpha(), s2.Color.Alpha()))
	return applyOpacity(c, opacity)
}

// linearColorFunc builds the per-pixel color function for a linear
// gradient over the given path bounds. The matrix maps user space to
// device space; pixels are mapped back through its inverse.
func linearColorFunc(g *LinearGradient, b gradientBounds, m Matrix2D, opacity float64) rasterx.ColorFunc {
	p1x, p1y := g.X1, g.Y1
	p2x, p2y := g.X2, g.Y2
	if g.Units == ObjectBoundingBox {
		p1x, p1y = b.X+b.W*p1x, b.Y+b.H*p1y
		p2x, p2y = b.X+b.W*p2x, b.Y+b.H*p2y
	}
	dx := p2x - p1x
	dy := p2y - p1y
	d := dx*dx + dy*dy
	sh := newShader(g.Stops, g.Spread)
	inv := m.Invert()
	return rasterx.ColorFunc(func(xi, yi int) color.Color {
		x, y := inv.Transform(float64(xi)+0.5, float64(yi)+0.5)
		if d == 0 {
			return applyOpacity(sh.stops[len(sh.stops)-1].Color, opacity)
		}
		return sh.at((dx*(x-p1x)+dy*(y-p1y))/d, opacity)
	})
}

// radialColorFunc builds the per-pixel color function for a radial
// gradient; the parameter is the scaled distance from the center.
func radialColorFunc(g *RadialGradient, b gradientBounds, m Matrix2D, opacity float64) rasterx.ColorFunc {
	cx, cy := g.CX, g.CY
	rx, ry := g.R, g.R
	if g.Units == ObjectBoundingBox {
		cx, cy = b.X+b.W*cx, b.Y+b.H*cy
		rx, ry = b.W*g.R, b.H*g.R
	}
	sh := newShader(g.Stops, g.Spread)
	inv := m.Invert()
	return rasterx.ColorFunc(func(xi, yi int) color.Color {
		x, y := inv.Transform(float64(xi)+0.5, float64(yi)+0.5)
		if rx == 0 || ry == 0 {
			return applyOpacity(sh.stops[len(sh.stops)-1].Color, opacity)
		}
		dx := (x - cx) / rx
		dy := (y - cy) / ry
		return sh.at(math.Sqrt(dx*dx+dy*dy), opacity)
	})
}
