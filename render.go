// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// render.go implements rasterization of the Document IR, used for
// visual verification of conversions and for measuring path extents.
// Elliptical arcs are approximated with cubic bezier splines since the
// rasterizer has no off-axis ellipse type.

package svg2compose

import (
	"image"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// maxArcDx is the maximum radians a cubic spline is allowed to span
// when approximating an elliptical arc.
const maxArcDx float64 = math.Pi / 8

func toFixedP(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// flattener walks a PathCommand sequence feeding an Adder, resolving
// relative coordinates and smooth control point reflection along the
// way.
type flattener struct {
	adder            rasterx.Adder
	placeX, placeY   float64
	startX, startY   float64
	cntlPtX, cntlPtY float64
	lastCmd          PathCommand
	inPath           bool
}

// flattenPath feeds the command sequence into the adder in absolute
// coordinates. An unclosed trailing subpath is stopped without closing.
func flattenPath(cmds []PathCommand, adder rasterx.Adder) {
	f := flattener{adder: adder}
	for _, cmd := range cmds {
		f.add(cmd)
	}
	if f.inPath {
		f.adder.Stop(false)
	}
}

// abs resolves a relative coordinate pair against the current point.
func (f *flattener) abs(x, y float64, rel bool) (float64, float64) {
	if rel {
		return f.placeX + x, f.placeY + y
	}
	return x, y
}

func (f *flattener) add(cmd PathCommand) {
	switch t := cmd.(type) {
	case MoveTo:
		if f.inPath {
			f.adder.Stop(false)
		}
		x, y := f.abs(t.X, t.Y, t.Rel)
		f.adder.Start(toFixedP(x, y))
		f.placeX, f.placeY = x, y
		f.startX, f.startY = x, y
		f.inPath = true
	case LineTo:
		x, y := f.abs(t.X, t.Y, t.Rel)
		f.adder.Line(toFixedP(x, y))
		f.placeX, f.placeY = x, y
	case HorizontalTo:
		x := t.X
		if t.Rel {
			x += f.placeX
		}
		f.adder.Line(toFixedP(x, f.placeY))
		f.placeX = x
	case VerticalTo:
		y := t.Y
		if t.Rel {
			y += f.placeY
		}
		f.adder.Line(toFixedP(f.placeX, y))
		f.placeY = y
	case CurveTo:
		x1, y1 := f.abs(t.X1, t.Y1, t.Rel)
		x2, y2 := f.abs(t.X2, t.Y2, t.Rel)
		x3, y3 := f.abs(t.X3, t.Y3, t.Rel)
		f.adder.CubeBezier(toFixedP(x1, y1), toFixedP(x2, y2), toFixedP(x3, y3))
		f.cntlPtX, f.cntlPtY = x2, y2
		f.placeX, f.placeY = x3, y3
	case SmoothCurveTo:
		x1, y1 := f.reflectCubic()
		x2, y2 := f.abs(t.X2, t.Y2, t.Rel)
		x3, y3 := f.abs(t.X3, t.Y3, t.Rel)
		f.adder.CubeBezier(toFixedP(x1, y1), toFixedP(x2, y2), toFixedP(x3, y3))
		f.cntlPtX, f.cntlPtY = x2, y2
		f.placeX, f.placeY = x3, y3
	case QuadTo:
		x1, y1 := f.abs(t.X1, t.Y1, t.Rel)
		x2, y2 := f.abs(t.X2, t.Y2, t.Rel)
		f.adder.QuadBezier(toFixedP(x1, y1), toFixedP(x2, y2))
		f.cntlPtX, f.cntlPtY = x1, y1
		f.placeX, f.placeY = x2, y2
	case SmoothQuadTo:
		x1, y1 := f.reflectQuad()
		x, y := f.abs(t.X, t.Y, t.Rel)
		f.adder.QuadBezier(toFixedP(x1, y1), toFixedP(x, y))
		f.cntlPtX, f.cntlPtY = x1, y1
		f.placeX, f.placeY = x, y
	case ArcTo:
		x, y := f.abs(t.X, t.Y, t.Rel)
		f.addArc(t, x, y)
		f.placeX, f.placeY = x, y
	case Close:
		if f.inPath {
			f.adder.Stop(true)
			f.inPath = false
		}
		f.placeX, f.placeY = f.startX, f.startY
	}
	f.lastCmd = cmd
}

func reflectPt(px, py, rx, ry float64) (x, y float64) {
	return px*2 - rx, py*2 - ry
}

func (f *flattener) reflectCubic() (float64, float64) {
	switch f.lastCmd.(type) {
	case CurveTo, SmoothCurveTo:
		return reflectPt(f.placeX, f.placeY, f.cntlPtX, f.cntlPtY)
	}
	return f.placeX, f.placeY
}

func (f *flattener) reflectQuad() (float64, float64) {
	switch f.lastCmd.(type) {
	case QuadTo, SmoothQuadTo:
		return reflectPt(f.placeX, f.placeY, f.cntlPtX, f.cntlPtY)
	}
	return f.placeX, f.placeY
}

// addArc approximates an elliptical arc from the current point to
// (x,y) with cubic bezier curves by the method of L. Maisonobe,
// "Drawing an elliptical arc using polylines, quadratic or cubic
// Bezier curves", 2003.
// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
func (f *flattener) addArc(t ArcTo, x, y float64) {
	ra, rb := math.Abs(t.RX), math.Abs(t.RY)
	if ra == 0 || rb == 0 {
		f.adder.Line(toFixedP(x, y))
		return
	}
	rotX := t.Rotation * math.Pi / 180
	cx, cy := findEllipseCenter(&ra, &rb, rotX, f.placeX, f.placeY, x, y, t.Sweep, !t.LargeArc)

	startAngle := math.Atan2(f.placeY-cy, f.placeX-cx) - rotX
	endAngle := math.Atan2(y-cy, x-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	etaStart := math.Atan2(math.Sin(startAngle)/rb, math.Cos(startAngle)/ra)
	etaEnd := math.Atan2(math.Sin(endAngle)/rb, math.Cos(endAngle)/ra)
	deltaEta := etaEnd - etaStart
	if arcBig != t.LargeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// needed when the ellipse center lies on the chord midpoint
	if deltaEta < 0 && t.Sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !t.Sweep {
		deltaEta -= math.Pi * 2
	}

	segs := int(math.Abs(deltaEta)/maxArcDx) + 1
	dEta := deltaEta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly := f.placeX, f.placeY
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(ra, rb, sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = x, y // exact endpoint, no roundoff error
		} else {
			px, py = ellipsePointAt(ra, rb, sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(ra, rb, sinTheta, cosTheta, eta)
		f.adder.CubeBezier(
			toFixedP(lx+alpha*ldx, ly+alpha*ldy),
			toFixedP(px-alpha*dx, py-alpha*dy),
			toFixedP(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
}

// ellipsePrime gives tangent vectors for a parameterized ellipse with
// radii a, b at parameter eta.
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives the point of a parameterized ellipse with radii
// a, b centered at (cx,cy) at parameter eta.
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the ellipse if it exists. If
// it does not exist, the radius values are increased minimally for a
// solution to be possible while preserving the ra to rb ratio. The
// problem is reduced by coordinate transformations to finding the
// center of a circle that includes the origin and an arbitrary point,
// then the center is transformed back to the original coordinates.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// move origin to the start point
	nx, ny := endX-startX, endY-startY

	// rotate the ellipse x-axis to the coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// scale the X dimension so that ra == rb, making the ellipse a circle
	nx *= *rb / *ra

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// the requested ellipse does not exist: the span is longer than
		// the widest chord, so scale ra and rb to fit
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// if hr is zero, both answers are the same
	if (sweep && smallArc) || (!sweep && !smallArc) {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	cx *= *ra / *rb
	// reverse rotate and translate back to the original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}

// extentAdder tracks the bounding box of the control polygon fed to
// it. Control points of bezier segments may overestimate the true curve
// extent slightly, which is acceptable for gradient bounds.
type extentAdder struct {
	minX, minY, maxX, maxY fixed.Int26_6
	set                    bool
}

func (a *extentAdder) mark(pts ...fixed.Point26_6) {
	for _, p := range pts {
		if !a.set {
			a.minX, a.minY, a.maxX, a.maxY = p.X, p.Y, p.X, p.Y
			a.set = true
			continue
		}
		if p.X < a.minX {
			a.minX = p.X
		}
		if p.Y < a.minY {
			a.minY = p.Y
		}
		if p.X > a.maxX {
			a.maxX = p.X
		}
		if p.Y > a.maxY {
			a.maxY = p.Y
		}
	}
}

func (a *extentAdder) Start(p fixed.Point26_6)            { a.mark(p) }
func (a *extentAdder) Line(p fixed.Point26_6)             { a.mark(p) }
func (a *extentAdder) QuadBezier(b, c fixed.Point26_6)    { a.mark(b, c) }
func (a *extentAdder) CubeBezier(b, c, d fixed.Point26_6) { a.mark(b, c, d) }
func (a *extentAdder) Stop(closeLoop bool)                {}

// pathExtent measures the bounding box of a command sequence in user
// space. The second result is false for an empty path.
func pathExtent(cmds []PathCommand) (gradientBounds, bool) {
	var a extentAdder
	flattenPath(cmds, &a)
	if !a.set {
		return gradientBounds{}, false
	}
	mnx, mny := float64(a.minX)/64, float64(a.minY)/64
	mxx, mxy := float64(a.maxX)/64, float64(a.maxY)/64
	return gradientBounds{X: mnx, Y: mny, W: mxx - mnx, H: mxy - mny}, true
}

// Render rasterizes the document into an RGBA image of the given pixel
// size, scaling the viewport to fill it. It is intended for visually
// verifying a conversion, not for production rendering; clip paths are
// not applied.
func Render(doc *Document, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	base := Identity.Scale(float64(w)/doc.ViewportWidth, float64(h)/doc.ViewportHeight)
	renderNodes(dasher, doc.Nodes, base)
	return img
}

func renderNodes(r *rasterx.Dasher, nodes []VectorNode, m Matrix2D) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *Group:
			renderNodes(r, t.Children, m.Mult(t.Transform.Matrix()))
		case *Path:
			renderPath(r, t, m)
		}
	}
}

func renderPath(r *rasterx.Dasher, p *Path, m Matrix2D) {
	var path rasterx.Path
	flattenPath(p.Commands, &path)

	if _, none := p.Fill.(PaintNone); !none {
		r.Clear()
		rf := &r.Filler
		rf.SetWinding(p.FillRule == NonZero)
		adder := &matrixAdder{Adder: rf, M: m}
		path.AddTo(adder)
		rf.SetColor(paintColor(p.Fill, p.Commands, m, p.FillAlpha))
		rf.Draw()
		rf.SetWinding(true)
	}

	if _, none := p.Stroke.(PaintNone); !none && p.StrokeWidth > 0 {
		r.Clear()
		capFn, gapFn := capFuncs(p.StrokeCap)
		// area-preserving width scale, stable under rotation
		scale := math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
		r.SetStroke(fixed.Int26_6(p.StrokeWidth*scale*64),
			fixed.Int26_6(p.StrokeMiter*64), capFn, capFn,
			gapFn, joinMode(p.StrokeJoin), nil, 0)
		adder := &matrixAdder{Adder: r, M: m}
		path.AddTo(adder)
		r.SetColor(paintColor(p.Stroke, p.Commands, m, p.StrokeAlpha))
		r.Draw()
	}
}

func capFuncs(c StrokeCap) (rasterx.CapFunc, rasterx.GapFunc) {
	switch c {
	case CapRound:
		return rasterx.RoundCap, rasterx.RoundGap
	case CapSquare:
		return rasterx.SquareCap, rasterx.FlatGap
	}
	return rasterx.ButtCap, rasterx.FlatGap
}

func joinMode(j StrokeJoin) rasterx.JoinMode {
	switch j {
	case JoinRound:
		return rasterx.Round
	case JoinBevel:
		return rasterx.Bevel
	}
	return rasterx.Miter
}

// paintColor resolves a paint to a rasterx color or color function.
// Gradient coordinates are mapped through the path extent for
// objectBoundingBox units, then through the node transform into device
// space.
func paintColor(paint Paint, cmds []PathCommand, m Matrix2D, opacity float64) interface{} {
	switch t := paint.(type) {
	case SolidColor:
		return applyOpacity(t.Color, opacity)
	case *LinearGradient:
		bounds, ok := pathExtent(cmds)
		if !ok {
			return applyOpacity(colorBlack, opacity)
		}
		return linearColorFunc(t, bounds, m, opacity)
	case *RadialGradient:
		bounds, ok := pathExtent(cmds)
		if !ok {
			return applyOpacity(colorBlack, opacity)
		}
		return radialColorFunc(t, bounds, m, opacity)
	}
	return applyOpacity(Color(0), 0)
}
