// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// generate.go implements emission of Compose ImageVector builder code
// from the Document IR.

package svg2compose

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GeneratorOptions control details of the emitted builder code.
type GeneratorOptions struct {
	// AutoMirror marks the image for mirroring in right-to-left
	// layouts.
	AutoMirror bool
}

// Generate emits the ImageVector.Builder(...).build() expression for
// the document together with the deduplicated, sorted import list the
// expression needs. The fragment is unwrapped; callers surround it with
// their own declaration, see Template.
func Generate(doc *Document, opts GeneratorOptions) (string, []string) {
	g := &generator{imports: map[string]bool{
		"androidx.compose.ui.graphics.vector.ImageVector": true,
		"androidx.compose.ui.unit.dp":                     true,
	}}

	g.line(0, "ImageVector.Builder(")
	g.line(0, "  name = %q,", doc.Name)
	g.line(0, "  defaultWidth = %s.dp,", fmtFloat(doc.DefaultWidth))
	g.line(0, "  defaultHeight = %s.dp,", fmtFloat(doc.DefaultHeight))
	g.line(0, "  viewportWidth = %s,", kotlinFloat(doc.ViewportWidth))
	g.line(0, "  viewportHeight = %s,", kotlinFloat(doc.ViewportHeight))
	if opts.AutoMirror {
		g.line(0, "  autoMirror = true,")
	}
	g.line(0, ").apply {")
	for _, n := range doc.Nodes {
		g.node(1, n)
	}
	g.line(0, "}.build()")

	imports := make([]string, 0, len(g.imports))
	for imp := range g.imports {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	return strings.Join(g.lines, "\n"), imports
}

type generator struct {
	lines   []string
	imports map[string]bool
}

func (g *generator) line(level int, format string, args ...interface{}) {
	g.lines = append(g.lines, strings.Repeat("  ", level)+fmt.Sprintf(format, args...))
}

func (g *generator) need(imp string) {
	g.imports[imp] = true
}

func (g *generator) node(level int, n VectorNode) {
	switch t := n.(type) {
	case *Path:
		g.path(level, t)
	case *Group:
		g.group(level, t)
	}
}

func (g *generator) path(level int, p *Path) {
	_, fillNone := p.Fill.(PaintNone)
	_, strokeNone := p.Stroke.(PaintNone)
	hasParams := p.Name != "" ||
		!fillNone ||
		!strokeNone ||
		p.FillAlpha != 1 ||
		p.StrokeAlpha != 1 ||
		p.StrokeWidth != 0 ||
		p.StrokeCap != CapButt ||
		p.StrokeJoin != JoinMiter ||
		p.StrokeMiter != 4 ||
		p.FillRule != NonZero

	if hasParams {
		g.line(level, "path(")
		if p.Name != "" {
			g.line(level, "  name = %q,", p.Name)
		}
		if !fillNone {
			g.paintParam(level, "fill", p.Fill, p.Commands)
		}
		if !strokeNone {
			g.paintParam(level, "stroke", p.Stroke, p.Commands)
		}
		if p.FillAlpha != 1 {
			g.line(level, "  fillAlpha = %s,", kotlinFloat(p.FillAlpha))
		}
		if p.StrokeAlpha != 1 {
			g.line(level, "  strokeAlpha = %s,", kotlinFloat(p.StrokeAlpha))
		}
		if p.StrokeWidth != 0 {
			g.line(level, "  strokeLineWidth = %s,", kotlinFloat(p.StrokeWidth))
		}
		if p.StrokeCap != CapButt {
			g.need("androidx.compose.ui.graphics.StrokeCap")
			g.line(level, "  strokeLineCap = %s,", strokeCapValue(p.StrokeCap))
		}
		if p.StrokeJoin != JoinMiter {
			g.need("androidx.compose.ui.graphics.StrokeJoin")
			g.line(level, "  strokeLineJoin = %s,", strokeJoinValue(p.StrokeJoin))
		}
		if p.StrokeMiter != 4 {
			g.line(level, "  strokeLineMiter = %s,", kotlinFloat(p.StrokeMiter))
		}
		if p.FillRule != NonZero {
			g.need("androidx.compose.ui.graphics.PathFillType")
			g.line(level, "  pathFillType = PathFillType.EvenOdd,")
		}
		g.line(level, ") {")
	} else {
		g.line(level, "path {")
	}
	for _, cmd := range p.Commands {
		g.line(level+1, "%s", commandDSL(cmd))
	}
	g.line(level, "}")
}

func (g *generator) group(level int, grp *Group) {
	t := grp.Transform
	hasParams := grp.Name != "" || !t.IsIdentity() ||
		t.PivotX != 0 || t.PivotY != 0 || len(grp.ClipPath) > 0

	if hasParams {
		g.line(level, "group(")
		if grp.Name != "" {
			g.line(level, "  name = %q,", grp.Name)
		}
		if t.Rotation != 0 {
			g.line(level, "  rotate = %s,", kotlinFloat(t.Rotation))
		}
		if t.PivotX != 0 {
			g.line(level, "  pivotX = %s,", kotlinFloat(t.PivotX))
		}
		if t.PivotY != 0 {
			g.line(level, "  pivotY = %s,", kotlinFloat(t.PivotY))
		}
		if t.ScaleX != 1 {
			g.line(level, "  scaleX = %s,", kotlinFloat(t.ScaleX))
		}
		if t.ScaleY != 1 {
			g.line(level, "  scaleY = %s,", kotlinFloat(t.ScaleY))
		}
		if t.TranslateX != 0 {
			g.line(level, "  translationX = %s,", kotlinFloat(t.TranslateX))
		}
		if t.TranslateY != 0 {
			g.line(level, "  translationY = %s,", kotlinFloat(t.TranslateY))
		}
		if len(grp.ClipPath) > 0 {
			g.need("androidx.compose.ui.graphics.vector.PathNode")
			g.line(level, "  clipPathData = listOf(")
			for _, cmd := range grp.ClipPath {
				g.line(level, "    PathNode.%s,", commandNode(cmd))
			}
			g.line(level, "  ),")
		}
		g.line(level, ") {")
	} else {
		g.line(level, "group {")
	}
	for _, n := range grp.Children {
		g.node(level+1, n)
	}
	g.line(level, "}")
}

// paintParam emits a fill or stroke parameter. Bounding-box gradient
// coordinates are resolved here against the owning path's extent, the
// only place both the paint and the geometry are in hand.
func (g *generator) paintParam(level int, param string, paint Paint, cmds []PathCommand) {
	switch t := paint.(type) {
	case SolidColor:
		g.need("androidx.compose.ui.graphics.Color")
		g.need("androidx.compose.ui.graphics.SolidColor")
		g.line(level, "  %s = SolidColor(%s),", param, composeColor(t.Color))
	case *LinearGradient:
		g.need("androidx.compose.ui.graphics.Brush")
		g.need("androidx.compose.ui.graphics.Color")
		g.need("androidx.compose.ui.geometry.Offset")
		x1, y1, x2, y2 := t.X1, t.Y1, t.X2, t.Y2
		if t.Units == ObjectBoundingBox {
			if b, ok := pathExtent(cmds); ok {
				x1, y1 = b.X+b.W*x1, b.Y+b.H*y1
				x2, y2 = b.X+b.W*x2, b.Y+b.H*y2
			}
		}
		g.line(level, "  %s = Brush.linearGradient(", param)
		g.stopList(level, t.Stops)
		g.line(level, "    start = Offset(%s, %s),", kotlinFloat(x1), kotlinFloat(y1))
		g.line(level, "    end = Offset(%s, %s),", kotlinFloat(x2), kotlinFloat(y2))
		g.line(level, "  ),")
	case *RadialGradient:
		g.need("androidx.compose.ui.graphics.Brush")
		g.need("androidx.compose.ui.graphics.Color")
		g.need("androidx.compose.ui.geometry.Offset")
		cx, cy, r := t.CX, t.CY, t.R
		if t.Units == ObjectBoundingBox {
			if b, ok := pathExtent(cmds); ok {
				cx, cy = b.X+b.W*cx, b.Y+b.H*cy
				// radius against the diagonal-normalized box size
				r = r * (b.W + b.H) / 2
			}
		}
		g.line(level, "  %s = Brush.radialGradient(", param)
		g.stopList(level, t.Stops)
		g.line(level, "    center = Offset(%s, %s),", kotlinFloat(cx), kotlinFloat(cy))
		g.line(level, "    radius = %s,", kotlinFloat(r))
		g.line(level, "  ),")
	}
}

func (g *generator) stopList(level int, stops []ColorStop) {
	g.line(level, "    colorStops = arrayOf(")
	for _, s := range stops {
		g.line(level, "      %s to %s,", kotlinFloat(s.Offset), composeColor(s.Color))
	}
	g.line(level, "    ),")
}

// composeColorNames reverse-maps ARGB values to the Color companion
// constants.
var composeColorNames = map[Color]string{
	0xFF000000: "Black",
	0xFF444444: "DarkGray",
	0xFF888888: "Gray",
	0xFFCCCCCC: "LightGray",
	0xFFFFFFFF: "White",
	0xFFFF0000: "Red",
	0xFF00FF00: "Green",
	0xFF0000FF: "Blue",
	0xFFFFFF00: "Yellow",
	0xFF00FFFF: "Cyan",
	0xFFFF00FF: "Magenta",
	0x00000000: "Transparent",
}

// composeColor formats a color value, preferring a named constant over
// the hex literal when an exact reverse lookup exists.
func composeColor(c Color) string {
	if name, ok := composeColorNames[c]; ok {
		return "Color." + name
	}
	return fmt.Sprintf("Color(0x%08X)", uint32(c))
}

func strokeCapValue(c StrokeCap) string {
	switch c {
	case CapRound:
		return "StrokeCap.Round"
	case CapSquare:
		return "StrokeCap.Square"
	}
	return "StrokeCap.Butt"
}

func strokeJoinValue(j StrokeJoin) string {
	switch j {
	case JoinRound:
		return "StrokeJoin.Round"
	case JoinBevel:
		return "StrokeJoin.Bevel"
	}
	return "StrokeJoin.Miter"
}

// commandDSL renders one command as its pathData DSL call.
func commandDSL(cmd PathCommand) string {
	kf := kotlinFloat
	switch t := cmd.(type) {
	case MoveTo:
		return fmt.Sprintf("%s(%s, %s)", relName("moveTo", t.Rel), kf(t.X), kf(t.Y))
	case LineTo:
		return fmt.Sprintf("%s(%s, %s)", relName("lineTo", t.Rel), kf(t.X), kf(t.Y))
	case HorizontalTo:
		return fmt.Sprintf("%s(%s)", relName("horizontalLineTo", t.Rel), kf(t.X))
	case VerticalTo:
		return fmt.Sprintf("%s(%s)", relName("verticalLineTo", t.Rel), kf(t.Y))
	case CurveTo:
		return fmt.Sprintf("%s(%s, %s, %s, %s, %s, %s)", relName("curveTo", t.Rel),
			kf(t.X1), kf(t.Y1), kf(t.X2), kf(t.Y2), kf(t.X3), kf(t.Y3))
	case SmoothCurveTo:
		return fmt.Sprintf("%s(%s, %s, %s, %s)", relName("reflectiveCurveTo", t.Rel),
			kf(t.X2), kf(t.Y2), kf(t.X3), kf(t.Y3))
	case QuadTo:
		return fmt.Sprintf("%s(%s, %s, %s, %s)", relName("quadTo", t.Rel),
			kf(t.X1), kf(t.Y1), kf(t.X2), kf(t.Y2))
	case SmoothQuadTo:
		return fmt.Sprintf("%s(%s, %s)", relName("reflectiveQuadTo", t.Rel), kf(t.X), kf(t.Y))
	case ArcTo:
		return fmt.Sprintf("%s(%s, %s, %s, %t, %t, %s, %s)", relName("arcTo", t.Rel),
			kf(t.RX), kf(t.RY), kf(t.Rotation), t.LargeArc, t.Sweep, kf(t.X), kf(t.Y))
	case Close:
		return "close()"
	}
	return ""
}

// relName builds the DSL method name for a command's absolute or
// relative form, e.g. moveTo vs moveToRelative.
func relName(base string, rel bool) string {
	if rel {
		return base + "Relative"
	}
	return base
}

// commandNode renders one command as a PathNode constructor for
// clipPathData lists.
func commandNode(cmd PathCommand) string {
	kf := kotlinFloat
	switch t := cmd.(type) {
	case MoveTo:
		return fmt.Sprintf("%sMoveTo(%s, %s)", nodePrefix(t.Rel), kf(t.X), kf(t.Y))
	case LineTo:
		return fmt.Sprintf("%sLineTo(%s, %s)", nodePrefix(t.Rel), kf(t.X), kf(t.Y))
	case HorizontalTo:
		return fmt.Sprintf("%sHorizontalTo(%s)", nodePrefix(t.Rel), kf(t.X))
	case VerticalTo:
		return fmt.Sprintf("%sVerticalTo(%s)", nodePrefix(t.Rel), kf(t.Y))
	case CurveTo:
		return fmt.Sprintf("%sCurveTo(%s, %s, %s, %s, %s, %s)", nodePrefix(t.Rel),
			kf(t.X1), kf(t.Y1), kf(t.X2), kf(t.Y2), kf(t.X3), kf(t.Y3))
	case SmoothCurveTo:
		return fmt.Sprintf("%sReflectiveCurveTo(%s, %s, %s, %s)", nodePrefix(t.Rel),
			kf(t.X2), kf(t.Y2), kf(t.X3), kf(t.Y3))
	case QuadTo:
		return fmt.Sprintf("%sQuadTo(%s, %s, %s, %s)", nodePrefix(t.Rel),
			kf(t.X1), kf(t.Y1), kf(t.X2), kf(t.Y2))
	case SmoothQuadTo:
		return fmt.Sprintf("%sReflectiveQuadTo(%s, %s)", nodePrefix(t.Rel), kf(t.X), kf(t.Y))
	case ArcTo:
		return fmt.Sprintf("%sArcTo(%s, %s, %s, %t, %t, %s, %s)", nodePrefix(t.Rel),
			kf(t.RX), kf(t.RY), kf(t.Rotation), t.LargeArc, t.Sweep, kf(t.X), kf(t.Y))
	case Close:
		return "Close"
	}
	return ""
}

func nodePrefix(rel bool) string {
	if rel {
		return "Relative"
	}
	return ""
}

// fmtFloat renders a number rounded to the transform epsilon with
// trailing zeros trimmed, so 10.0 prints as "10" and 0.5 as "0.5".
func fmtFloat(v float64) string {
	return strconv.FormatFloat(roundEps(v), 'f', -1, 64)
}

// kotlinFloat renders a Kotlin float literal.
func kotlinFloat(v float64) string {
	return fmtFloat(v) + "f"
}
