// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// matrix.go implements SVG style matrix transformations and their
// decomposition into builder transform parameters.
// https://developer.mozilla.org/en-US/docs/Web/SVG/Attribute/transform

package svg2compose

import (
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Matrix2D is an affine transform: a linear map plus translation,
// applied to a point as (A*x + C*y + E, B*x + D*y + F).
type Matrix2D struct {
	A, B, C, D, E, F float64
}

var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F}
}

func (m Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C + m.E
	y2 = x1*m.B + y1*m.D + m.F
	return
}

// tFixed transforms a fixed.Point26_6 by the matrix.
func (m Matrix2D) tFixed(a fixed.Point26_6) (b fixed.Point26_6) {
	b.X = fixed.Int26_6((float64(a.X)*m.A + float64(a.Y)*m.C) + m.E*64)
	b.Y = fixed.Int26_6((float64(a.X)*m.B + float64(a.Y)*m.D) + m.F*64)
	return
}

func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: 1,
		B: 0,
		C: 0,
		D: 1,
		E: x,
		F: y})
}

func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: x,
		B: 0,
		C: 0,
		D: y,
		E: 0,
		F: 0})
}

func (a Matrix2D) Rotate(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: math.Cos(theta),
		B: math.Sin(theta),
		C: -math.Sin(theta),
		D: math.Cos(theta),
		E: 0,
		F: 0})
}

func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: 1,
		B: 0,
		C: math.Tan(theta),
		D: 1,
		E: 0,
		F: 0})
}

func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: 1,
		B: math.Tan(theta),
		C: 0,
		D: 1,
		E: 0,
		F: 0})
}

// Invert returns the inverse transform. The zero matrix is returned
// for a degenerate (non-invertible) input.
func (a Matrix2D) Invert() Matrix2D {
	det := a.A*a.D - a.B*a.C
	if det == 0 {
		return Matrix2D{}
	}
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det}
}

// ParseTransform parses a transform-function list (translate, scale,
// rotate, skewX, skewY, matrix) into one composed matrix. Functions
// compose left to right in document order, each one transforming the
// coordinate system established by the ones before it. The
// three-argument rotate form expands to
// translate(cx,cy) rotate(a) translate(-cx,-cy).
func ParseTransform(v string) (Matrix2D, error) {
	m1 := Identity
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.SplitN(t, "(", 2)
		if len(d) != 2 || len(d[1]) < 1 {
			return Identity, &TransformSyntaxError{Msg: "badly formed transformation"}
		}
		name := strings.ToLower(strings.TrimSpace(d[0]))
		pts, err := scanFloats(d[1])
		if err != nil {
			return Identity, &TransformSyntaxError{Func: name, Msg: err.Error()}
		}
		ln := len(pts)
		switch name {
		case "rotate":
			switch ln {
			case 1:
				m1 = m1.Rotate(pts[0] * math.Pi / 180)
			case 3:
				m1 = m1.Translate(pts[1], pts[2]).
					Rotate(pts[0] * math.Pi / 180).
					Translate(-pts[1], -pts[2])
			default:
				return Identity, &TransformSyntaxError{Func: name, Msg: errParamMismatch.Error()}
			}
		case "translate":
			switch ln {
			case 1:
				m1 = m1.Translate(pts[0], 0)
			case 2:
				m1 = m1.Translate(pts[0], pts[1])
			default:
				return Identity, &TransformSyntaxError{Func: name, Msg: errParamMismatch.Error()}
			}
		case "scale":
			switch ln {
			case 1:
				m1 = m1.Scale(pts[0], pts[0])
			case 2:
				m1 = m1.Scale(pts[0], pts[1])
			default:
				return Identity, &TransformSyntaxError{Func: name, Msg: errParamMismatch.Error()}
			}
		case "skewx":
			if ln != 1 {
				return Identity, &TransformSyntaxError{Func: name, Msg: errParamMismatch.Error()}
			}
			m1 = m1.SkewX(pts[0] * math.Pi / 180)
		case "skewy":
			if ln != 1 {
				return Identity, &TransformSyntaxError{Func: name, Msg: errParamMismatch.Error()}
			}
			m1 = m1.SkewY(pts[0] * math.Pi / 180)
		case "matrix":
			if ln != 6 {
				return Identity, &TransformSyntaxError{Func: name, Msg: errParamMismatch.Error()}
			}
			m1 = m1.Mult(Matrix2D{
				A: pts[0],
				B: pts[1],
				C: pts[2],
				D: pts[3],
				E: pts[4],
				F: pts[5]})
		default:
			return Identity, &TransformSyntaxError{Func: name, Msg: "invalid function name"}
		}
	}
	return m1, nil
}

// transformEpsilon rounds decomposition outputs, suppressing floating
// point noise from the trigonometric round trips.
const transformEpsilon = 1e-4

func roundEps(v float64) float64 {
	r := math.Round(v/transformEpsilon) * transformEpsilon
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}

// Decompose expresses the matrix as translate, rotate and scale
// parameters about a (0,0) pivot. Translation is read directly from
// (E,F); the rotation angle and scales come from the first column and
// the determinant, so a reflection survives as a negative ScaleY. Any
// residual shear of a non-orthogonal linear part is discarded; use
// HasSkew to detect that loss.
func (m Matrix2D) Decompose() DecomposedTransform {
	scaleX := math.Sqrt(m.A*m.A + m.B*m.B)
	rotation := math.Atan2(m.B, m.A) * 180 / math.Pi
	det := m.A*m.D - m.B*m.C
	scaleY := 0.0
	if scaleX != 0 {
		scaleY = det / scaleX
	}
	return DecomposedTransform{
		TranslateX: roundEps(m.E),
		TranslateY: roundEps(m.F),
		ScaleX:     roundEps(scaleX),
		ScaleY:     roundEps(scaleY),
		Rotation:   roundEps(rotation),
	}
}

// HasSkew reports whether the linear part is non-orthogonal, i.e. the
// matrix carries shear that Decompose cannot represent.
func (m Matrix2D) HasSkew() bool {
	return math.Abs(m.A*m.C+m.B*m.D) > transformEpsilon
}

// Matrix recomposes the transform. For matrices without shear this is
// the inverse of Decompose up to the rounding epsilon.
func (t DecomposedTransform) Matrix() Matrix2D {
	return Identity.
		Translate(t.TranslateX+t.PivotX, t.TranslateY+t.PivotY).
		Rotate(t.Rotation * math.Pi / 180).
		Scale(t.ScaleX, t.ScaleY).
		Translate(-t.PivotX, -t.PivotY)
}

// matrixAdder transforms points on their way into a rasterx Adder.
type matrixAdder struct {
	rasterx.Adder
	M Matrix2D
}

func (t *matrixAdder) Start(a fixed.Point26_6) {
	t.Adder.Start(t.M.tFixed(a))
}

// Line adds a linear segment to the current curve.
func (t *matrixAdder) Line(b fixed.Point26_6) {
	t.Adder.Line(t.M.tFixed(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (t *matrixAdder) QuadBezier(b, c fixed.Point26_6) {
	t.Adder.QuadBezier(t.M.tFixed(b), t.M.tFixed(c))
}

// CubeBezier adds a cubic segment to the current curve.
func (t *matrixAdder) CubeBezier(b, c, d fixed.Point26_6) {
	t.Adder.CubeBezier(t.M.tFixed(b), t.M.tFixed(c), t.M.tFixed(d))
}
