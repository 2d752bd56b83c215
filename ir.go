// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// ir.go defines the intermediate representation built from an SVG
// document and consumed by the code generator. The tree is built once
// per conversion and is immutable afterwards; the optimizer produces a
// new tree rather than rewriting in place.

package svg2compose

// Document is the root of the converted image: naming, display size,
// viewport coordinate system and the node tree.
type Document struct {
	Name                          string
	DefaultWidth, DefaultHeight   float64
	ViewportWidth, ViewportHeight float64
	Nodes                         []VectorNode
}

func (d *Document) validate() error {
	if d.DefaultWidth <= 0 || d.DefaultHeight <= 0 {
		return &ValidationError{Msg: "default dimensions must be positive"}
	}
	if d.ViewportWidth <= 0 || d.ViewportHeight <= 0 {
		return &ValidationError{Msg: "viewport dimensions must be positive"}
	}
	return nil
}

// VectorNode is a node of the image tree, either a *Path or a *Group.
// The union is closed; consumers switch exhaustively over the two kinds.
type VectorNode interface {
	isVectorNode()
}

// Path is a drawable shape: an ordered command sequence plus paint and
// stroke styling. Zero-value style fields are not meaningful; paths are
// built by the document parser with defaults already resolved.
type Path struct {
	Name        string
	Commands    []PathCommand
	Fill        Paint
	Stroke      Paint
	FillAlpha   float64
	StrokeAlpha float64
	StrokeWidth float64
	StrokeCap   StrokeCap
	StrokeJoin  StrokeJoin
	StrokeMiter float64
	FillRule    FillRule
}

// Group is a container with an optional transform and clip path.
// Child order is paint order and must be preserved.
type Group struct {
	Name      string
	Transform DecomposedTransform
	ClipPath  []PathCommand
	Children  []VectorNode
}

func (*Path) isVectorNode()  {}
func (*Group) isVectorNode() {}

type (
	// StrokeCap selects the line end decoration.
	StrokeCap uint8
	// StrokeJoin selects the corner decoration.
	StrokeJoin uint8
	// FillRule selects the winding rule used to fill a path.
	FillRule uint8
)

const (
	CapButt StrokeCap = iota
	CapRound
	CapSquare
)

const (
	JoinMiter StrokeJoin = iota
	JoinRound
	JoinBevel
)

const (
	NonZero FillRule = iota
	EvenOdd
)

// PathCommand is one drawing instruction. The union is closed: the ten
// SVG command kinds, each carrying a Rel flag for the lowercase
// (delta-coordinate) form. Operand counts are fixed per kind.
type PathCommand interface {
	isPathCommand()
}

type (
	MoveTo struct {
		X, Y float64
		Rel  bool
	}
	LineTo struct {
		X, Y float64
		Rel  bool
	}
	HorizontalTo struct {
		X   float64
		Rel bool
	}
	VerticalTo struct {
		Y   float64
		Rel bool
	}
	CurveTo struct {
		X1, Y1, X2, Y2, X3, Y3 float64
		Rel                    bool
	}
	// SmoothCurveTo reflects the previous cubic control point (S/s).
	SmoothCurveTo struct {
		X2, Y2, X3, Y3 float64
		Rel            bool
	}
	QuadTo struct {
		X1, Y1, X2, Y2 float64
		Rel            bool
	}
	// SmoothQuadTo reflects the previous quadratic control point (T/t).
	SmoothQuadTo struct {
		X, Y float64
		Rel  bool
	}
	ArcTo struct {
		RX, RY, Rotation float64
		LargeArc, Sweep  bool
		X, Y             float64
		Rel              bool
	}
	Close struct{}
)

func (MoveTo) isPathCommand()        {}
func (LineTo) isPathCommand()        {}
func (HorizontalTo) isPathCommand()  {}
func (VerticalTo) isPathCommand()    {}
func (CurveTo) isPathCommand()       {}
func (SmoothCurveTo) isPathCommand() {}
func (QuadTo) isPathCommand()        {}
func (SmoothQuadTo) isPathCommand()  {}
func (ArcTo) isPathCommand()         {}
func (Close) isPathCommand()         {}

// Paint is anything a shape can be filled or stroked with. PaintNone is
// the explicit "no paint", distinct from an unspecified attribute, which
// inherits from the parent context during parsing.
type Paint interface {
	isPaint()
}

type (
	PaintNone  struct{}
	SolidColor struct{ Color Color }

	LinearGradient struct {
		X1, Y1, X2, Y2 float64
		Stops          []ColorStop
		Units          GradientUnits
		Spread         SpreadMethod
	}

	RadialGradient struct {
		CX, CY, R float64
		Stops     []ColorStop
		Units     GradientUnits
		Spread    SpreadMethod
	}
)

func (PaintNone) isPaint()       {}
func (SolidColor) isPaint()      {}
func (*LinearGradient) isPaint() {}
func (*RadialGradient) isPaint() {}

// ColorStop is one gradient stop. The color alpha already includes the
// stop-opacity factor.
type ColorStop struct {
	Offset float64
	Color  Color
}

type (
	GradientUnits uint8
	SpreadMethod  uint8
)

const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// DecomposedTransform is an affine matrix expressed as the builder's
// transform parameters. The decomposition drops shear; see Decompose.
type DecomposedTransform struct {
	TranslateX, TranslateY float64
	ScaleX, ScaleY         float64
	Rotation               float64
	PivotX, PivotY         float64
}

// IdentityTransform leaves coordinates unchanged.
var IdentityTransform = DecomposedTransform{ScaleX: 1, ScaleY: 1}

// IsIdentity reports whether the transform has no effect. Pivot values
// are irrelevant when rotation and scale are neutral.
func (t DecomposedTransform) IsIdentity() bool {
	return t.TranslateX == 0 && t.TranslateY == 0 &&
		t.ScaleX == 1 && t.ScaleY == 1 && t.Rotation == 0
}
