// Copyright 2022 The svg2compose Authors. All rights reserved.

package svg2compose

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustParse(t *testing.T, src string) (*Document, []Warning) {
	t.Helper()
	doc, warnings, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc, warnings
}

func TestParseSimpleDocument(t *testing.T) {
	doc, warnings := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
  <path d="M2 2L22 2L22 22L2 22Z" fill="#2196F3"/>
</svg>`)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := &Document{
		Name:           "UnnamedIcon",
		DefaultWidth:   24,
		DefaultHeight:  24,
		ViewportWidth:  24,
		ViewportHeight: 24,
		Nodes: []VectorNode{
			&Path{
				Commands: []PathCommand{
					MoveTo{X: 2, Y: 2},
					LineTo{X: 22, Y: 2},
					LineTo{X: 22, Y: 22},
					LineTo{X: 2, Y: 22},
					Close{},
				},
				Fill:        SolidColor{Color: 0xFF2196F3},
				Stroke:      PaintNone{},
				FillAlpha:   1,
				StrokeAlpha: 1,
				StrokeMiter: 4,
			},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNameResolution(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "svgID",
			src:  `<svg id="home_icon" viewBox="0 0 24 24"><path id="p1" d="M0 0L1 1"/></svg>`,
			want: "home_icon",
		},
		{
			name: "firstPathID",
			src:  `<svg viewBox="0 0 24 24"><g><path id="arrow" d="M0 0L1 1"/></g></svg>`,
			want: "arrow",
		},
		{
			name: "fallback",
			src:  `<svg viewBox="0 0 24 24"><path d="M0 0L1 1"/></svg>`,
			want: "UnnamedIcon",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, _ := mustParse(t, test.src)
			if doc.Name != test.want {
				t.Errorf("Name = %q, want %q", doc.Name, test.want)
			}
		})
	}
}

func TestParseDimensionFallbacks(t *testing.T) {
	tests := []struct {
		name                 string
		src                  string
		defW, defH, vpW, vpH float64
	}{
		{
			name: "viewBoxOnly",
			src:  `<svg viewBox="0 0 48 32"/>`,
			defW: 48, defH: 32, vpW: 48, vpH: 32,
		},
		{
			name: "widthHeightOnly",
			src:  `<svg width="16px" height="16px"/>`,
			defW: 16, defH: 16, vpW: 16, vpH: 16,
		},
		{
			name: "separateDisplaySize",
			src:  `<svg width="48" height="48" viewBox="0 0 24 24"/>`,
			defW: 48, defH: 48, vpW: 24, vpH: 24,
		},
		{
			name: "nothingDefaults24",
			src:  `<svg/>`,
			defW: 24, defH: 24, vpW: 24, vpH: 24,
		},
		{
			name: "missingHeightFallsBackToViewport",
			src:  `<svg width="48" viewBox="0 0 24 24"/>`,
			defW: 48, defH: 24, vpW: 24, vpH: 24,
		},
		{
			name: "missingHeightMirrorsWidth",
			src:  `<svg width="48"/>`,
			defW: 48, defH: 48, vpW: 48, vpH: 48,
		},
		{
			name: "missingWidthMirrorsHeight",
			src:  `<svg height="32"/>`,
			defW: 32, defH: 32, vpW: 32, vpH: 32,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, _ := mustParse(t, test.src)
			got := [4]float64{doc.DefaultWidth, doc.DefaultHeight, doc.ViewportWidth, doc.ViewportHeight}
			want := [4]float64{test.defW, test.defH, test.vpW, test.vpH}
			if got != want {
				t.Errorf("dimensions = %v, want %v", got, want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "notSVGRoot", src: `<html><body/></html>`},
		{name: "malformedMarkup", src: `<svg><path`},
		{name: "empty", src: ``},
		{name: "negativeViewport", src: `<svg width="-5" height="-5"/>`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := Parse(strings.NewReader(test.src))
			if err == nil {
				t.Fatalf("Parse(%q): expected error", test.src)
			}
		})
	}
}

func TestParseGroupTransform(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <g id="wing" transform="translate(50,50) rotate(45) scale(1.5,0.8)">
    <path d="M0 0L1 1"/>
  </g>
</svg>`)
	g, ok := doc.Nodes[0].(*Group)
	if !ok {
		t.Fatalf("node is %T, want *Group", doc.Nodes[0])
	}
	if g.Name != "wing" {
		t.Errorf("group name = %q, want %q", g.Name, "wing")
	}
	want := DecomposedTransform{
		TranslateX: 50, TranslateY: 50,
		ScaleX: 1.5, ScaleY: 0.8,
		Rotation: 45,
	}
	if diff := cmp.Diff(want, g.Transform, cmpopts.EquateApprox(0, transformEpsilon)); diff != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", diff)
	}
	if len(g.Children) != 1 {
		t.Fatalf("group has %d children, want 1", len(g.Children))
	}
}

func TestParseShapeTransformWrapsGroup(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <path d="M0 0L1 1" transform="translate(5,0)"/>
</svg>`)
	g, ok := doc.Nodes[0].(*Group)
	if !ok {
		t.Fatalf("node is %T, want synthetic *Group", doc.Nodes[0])
	}
	if g.Name != "" {
		t.Errorf("synthetic group should be unnamed, got %q", g.Name)
	}
	if g.Transform.TranslateX != 5 {
		t.Errorf("TranslateX = %g, want 5", g.Transform.TranslateX)
	}
	if _, ok := g.Children[0].(*Path); !ok {
		t.Fatalf("child is %T, want *Path", g.Children[0])
	}
}

func TestParseWarnings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind WarningKind
	}{
		{
			name: "unsupportedElement",
			src:  `<svg viewBox="0 0 24 24"><text x="0" y="0">hi</text></svg>`,
			kind: UnsupportedFeature,
		},
		{
			name: "badPathData",
			src:  `<svg viewBox="0 0 24 24"><path d="L1 1"/></svg>`,
			kind: PathSyntax,
		},
		{
			name: "badTransform",
			src:  `<svg viewBox="0 0 24 24"><g transform="spin(9)"><path d="M0 0L1 1"/></g></svg>`,
			kind: TransformSyntax,
		},
		{
			name: "skewDiscarded",
			src:  `<svg viewBox="0 0 24 24"><g transform="skewX(30)"><path d="M0 0L1 1"/></g></svg>`,
			kind: UnsupportedFeature,
		},
		{
			name: "unknownGradientRef",
			src:  `<svg viewBox="0 0 24 24"><path d="M0 0L1 1" fill="url(#nope)"/></svg>`,
			kind: UnresolvedReference,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, warnings := mustParse(t, test.src)
			for _, w := range warnings {
				if w.Kind == test.kind {
					return
				}
			}
			t.Errorf("no %v warning in %v", test.kind, warnings)
		})
	}
}

func TestParseBadElementSkippedKeepsSiblings(t *testing.T) {
	doc, warnings := mustParse(t, `<svg viewBox="0 0 24 24">
  <path d="M0 0 bogus"/>
  <path d="M1 1L2 2"/>
</svg>`)
	if len(doc.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc.Nodes))
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the skipped path")
	}
}

func TestParseStyleAttribute(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <path d="M0 0L1 1" fill="#FF0000" style="fill: #00FF00; stroke: blue; stroke-width: 2; stroke-linecap: round"/>
</svg>`)
	path := doc.Nodes[0].(*Path)
	if path.Fill != (SolidColor{Color: 0xFF00FF00}) {
		t.Errorf("style fill should win over attribute, got %v", path.Fill)
	}
	if path.Stroke != (SolidColor{Color: 0xFF0000FF}) {
		t.Errorf("stroke = %v", path.Stroke)
	}
	if path.StrokeWidth != 2 || path.StrokeCap != CapRound {
		t.Errorf("stroke styling = width %g cap %v", path.StrokeWidth, path.StrokeCap)
	}
}

func TestParseOpacityFolding(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <g opacity="0.5">
    <path d="M0 0L1 1" fill-opacity="0.5"/>
  </g>
</svg>`)
	path := doc.Nodes[0].(*Group).Children[0].(*Path)
	// fill-opacity replaces, the group opacity multiplied earlier is gone
	if path.FillAlpha != 0.5 {
		t.Errorf("FillAlpha = %g, want 0.5", path.FillAlpha)
	}

	doc, _ = mustParse(t, `<svg viewBox="0 0 24 24">
  <g opacity="0.5"><g opacity="0.5"><path d="M0 0L1 1"/></g></g>
</svg>`)
	path = doc.Nodes[0].(*Group).Children[0].(*Group).Children[0].(*Path)
	if path.FillAlpha != 0.25 {
		t.Errorf("nested opacity FillAlpha = %g, want 0.25", path.FillAlpha)
	}
}

func TestParseCurrentColor(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <g color="#123456"><path d="M0 0L1 1" fill="currentColor"/></g>
</svg>`)
	path := doc.Nodes[0].(*Group).Children[0].(*Path)
	if path.Fill != (SolidColor{Color: 0xFF123456}) {
		t.Errorf("currentColor fill = %v", path.Fill)
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []PathCommand
	}{
		{
			name: "rect",
			src:  `<rect x="1" y="2" width="10" height="4"/>`,
			want: []PathCommand{
				MoveTo{X: 1, Y: 2},
				LineTo{X: 11, Y: 2},
				LineTo{X: 11, Y: 6},
				LineTo{X: 1, Y: 6},
				Close{},
			},
		},
		{
			name: "circle",
			src:  `<circle cx="12" cy="12" r="10"/>`,
			want: []PathCommand{
				MoveTo{X: 22, Y: 12},
				ArcTo{RX: 10, RY: 10, Sweep: true, X: 12, Y: 22},
				ArcTo{RX: 10, RY: 10, Sweep: true, X: 2, Y: 12},
				ArcTo{RX: 10, RY: 10, Sweep: true, X: 12, Y: 2},
				ArcTo{RX: 10, RY: 10, Sweep: true, X: 22, Y: 12},
				Close{},
			},
		},
		{
			name: "polygon",
			src:  `<polygon points="0,0 10,0 5,8"/>`,
			want: []PathCommand{
				MoveTo{X: 0, Y: 0},
				LineTo{X: 10, Y: 0},
				LineTo{X: 5, Y: 8},
				Close{},
			},
		},
		{
			name: "polyline",
			src:  `<polyline points="0,0 10,0 5,8"/>`,
			want: []PathCommand{
				MoveTo{X: 0, Y: 0},
				LineTo{X: 10, Y: 0},
				LineTo{X: 5, Y: 8},
			},
		},
		{
			name: "line",
			src:  `<line x1="1" y1="2" x2="3" y2="4"/>`,
			want: []PathCommand{
				MoveTo{X: 1, Y: 2},
				LineTo{X: 3, Y: 4},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">`+test.src+`</svg>`)
			if len(doc.Nodes) != 1 {
				t.Fatalf("got %d nodes, want 1", len(doc.Nodes))
			}
			path, ok := doc.Nodes[0].(*Path)
			if !ok {
				t.Fatalf("node is %T, want *Path", doc.Nodes[0])
			}
			if diff := cmp.Diff(test.want, path.Commands); diff != "" {
				t.Errorf("commands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLineHasNoFill(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24"><line x1="0" y1="0" x2="5" y2="5" stroke="red"/></svg>`)
	path := doc.Nodes[0].(*Path)
	if _, none := path.Fill.(PaintNone); !none {
		t.Errorf("line fill = %v, want PaintNone", path.Fill)
	}
	if path.Stroke != (SolidColor{Color: 0xFFFF0000}) {
		t.Errorf("line stroke = %v", path.Stroke)
	}
}

func TestParseLinearGradientForwardReference(t *testing.T) {
	doc, warnings := mustParse(t, `<svg viewBox="0 0 24 24">
  <path d="M0 0L1 1" fill="url(#g1)"/>
  <defs>
    <linearGradient id="g1" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0" stop-color="#FF0000"/>
      <stop offset="50%" stop-color="#00FF00"/>
      <stop offset="1" stop-color="#0000FF" stop-opacity="0.5"/>
    </linearGradient>
  </defs>
</svg>`)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	path := doc.Nodes[0].(*Path)
	want := &LinearGradient{
		X2: 1, Y2: 1,
		Stops: []ColorStop{
			{Offset: 0, Color: 0xFFFF0000},
			{Offset: 0.5, Color: 0xFF00FF00},
			{Offset: 1, Color: 0x800000FF},
		},
	}
	if diff := cmp.Diff(want, path.Fill); diff != "" {
		t.Errorf("gradient mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRadialGradientDefaults(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <defs>
    <radialGradient id="g">
      <stop offset="0" stop-color="white"/>
      <stop offset="1" stop-color="black"/>
    </radialGradient>
  </defs>
  <path d="M0 0L1 1" fill="url(#g)"/>
</svg>`)
	path := doc.Nodes[0].(*Path)
	g, ok := path.Fill.(*RadialGradient)
	if !ok {
		t.Fatalf("fill is %T, want *RadialGradient", path.Fill)
	}
	if g.CX != 0.5 || g.CY != 0.5 || g.R != 0.5 {
		t.Errorf("center/radius = (%g,%g,%g), want (0.5,0.5,0.5)", g.CX, g.CY, g.R)
	}
	if g.Units != ObjectBoundingBox {
		t.Errorf("units = %v, want ObjectBoundingBox", g.Units)
	}
}

func TestParseGradientHref(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <defs>
    <linearGradient id="base" spreadMethod="repeat">
      <stop offset="0" stop-color="red"/>
      <stop offset="1" stop-color="blue"/>
    </linearGradient>
    <linearGradient id="derived" href="#base" x2="0" y2="1"/>
  </defs>
  <path d="M0 0L1 1" fill="url(#derived)"/>
</svg>`)
	path := doc.Nodes[0].(*Path)
	g, ok := path.Fill.(*LinearGradient)
	if !ok {
		t.Fatalf("fill is %T, want *LinearGradient", path.Fill)
	}
	if len(g.Stops) != 2 {
		t.Fatalf("stops not inherited through href: %v", g.Stops)
	}
	if g.Spread != RepeatSpread {
		t.Errorf("spread = %v, want RepeatSpread", g.Spread)
	}
	if g.X2 != 0 || g.Y2 != 1 {
		t.Errorf("derived geometry = (%g,%g), want (0,1)", g.X2, g.Y2)
	}
}

func TestParseGradientHrefCycle(t *testing.T) {
	_, warnings := mustParse(t, `<svg viewBox="0 0 24 24">
  <defs>
    <linearGradient id="a" href="#b"/>
    <linearGradient id="b" href="#a"/>
  </defs>
  <path d="M0 0L1 1" fill="url(#a)"/>
</svg>`)
	found := false
	for _, w := range warnings {
		if w.Kind == UnresolvedReference {
			found = true
		}
	}
	if !found {
		t.Errorf("no cycle warning in %v", warnings)
	}
}

func TestParseSingleStopGradientIsSolid(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <defs>
    <linearGradient id="g"><stop offset="0" stop-color="#ABCDEF"/></linearGradient>
  </defs>
  <path d="M0 0L1 1" fill="url(#g)"/>
</svg>`)
	path := doc.Nodes[0].(*Path)
	if path.Fill != (SolidColor{Color: 0xFFABCDEF}) {
		t.Errorf("single stop gradient = %v, want solid #ABCDEF", path.Fill)
	}
}

func TestParseClipPath(t *testing.T) {
	doc, _ := mustParse(t, `<svg viewBox="0 0 24 24">
  <defs>
    <clipPath id="c"><rect x="0" y="0" width="10" height="10"/></clipPath>
  </defs>
  <g clip-path="url(#c)"><path d="M0 0L1 1"/></g>
</svg>`)
	g := doc.Nodes[0].(*Group)
	want := []PathCommand{
		MoveTo{X: 0, Y: 0},
		LineTo{X: 10, Y: 0},
		LineTo{X: 10, Y: 10},
		LineTo{X: 0, Y: 10},
		Close{},
	}
	if diff := cmp.Diff(want, g.ClipPath); diff != "" {
		t.Errorf("clip path mismatch (-want +got):\n%s", diff)
	}
}
