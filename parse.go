// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// parse.go implements translation of SVG markup into the Document IR.
// The decoder first builds a lightweight element tree, then collects
// referenced definitions, then walks the tree building vector nodes so
// forward references resolve naturally.

package svg2compose

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const xlinkNS = "http://www.w3.org/1999/xlink"

// element is one parsed markup element: local name, attributes, child
// elements and the byte offset of its start tag, used to locate
// warnings in the source.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	offset   int64
}

func (e *element) attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func buildTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	var root *element
	var stack []*element
	for {
		offset := decoder.InputOffset()
		t, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DocumentSyntaxError{Err: err}
		}
		switch se := t.(type) {
		case xml.StartElement:
			el := &element{
				name:   se.Name.Local,
				attrs:  make(map[string]string, len(se.Attr)),
				offset: offset,
			}
			for _, a := range se.Attr {
				key := a.Name.Local
				if a.Name.Space == xlinkNS {
					key = "xlink:" + a.Name.Local
				}
				el.attrs[key] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &DocumentSyntaxError{Err: errors.New("multiple root elements")}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, &DocumentSyntaxError{Err: errors.New("no root element")}
	}
	return root, nil
}

// inherited carries the presentation context down the element tree.
// Values are copied, never mutated in place, so sibling subtrees cannot
// observe each other's styling.
type inherited struct {
	fill          Paint
	stroke        Paint
	fillOpacity   float64
	strokeOpacity float64
	strokeWidth   float64
	cap           StrokeCap
	join          StrokeJoin
	miterLimit    float64
	fillRule      FillRule
	color         Color // resolves currentColor
}

func rootInherited() inherited {
	return inherited{
		fill:          SolidColor{Color: colorBlack},
		stroke:        PaintNone{},
		fillOpacity:   1,
		strokeOpacity: 1,
		strokeWidth:   1,
		miterLimit:    4,
		color:         colorBlack,
	}
}

type parser struct {
	defs     defsRegistry
	warnings []Warning
}

func (p *parser) warnf(kind WarningKind, offset int64, format string, args ...interface{}) {
	p.warnings = append(p.warnings, Warning{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// Parse reads an SVG document and builds its IR. Warnings record
// element-local problems that were skipped over; the returned error is
// non-nil only for document-fatal conditions, i.e. malformed markup, a
// missing svg root or an invalid viewport.
func Parse(r io.Reader) (*Document, []Warning, error) {
	root, err := buildTree(r)
	if err != nil {
		return nil, nil, err
	}
	if root.name != "svg" {
		return nil, nil, &DocumentSyntaxError{Err: fmt.Errorf("root element is <%s>, not <svg>", root.name)}
	}

	p := &parser{defs: newDefsRegistry()}
	p.defs.collect(root)

	doc := &Document{Name: "UnnamedIcon"}
	p.parseDimensions(root, doc)

	for _, c := range root.children {
		doc.Nodes = append(doc.Nodes, p.parseNode(c, rootInherited())...)
	}

	if id, ok := root.attr("id"); ok && id != "" {
		doc.Name = id
	} else if name := firstPathID(doc.Nodes); name != "" {
		doc.Name = name
	}

	if err := doc.validate(); err != nil {
		return nil, p.warnings, err
	}
	return doc, p.warnings, nil
}

func firstPathID(nodes []VectorNode) string {
	for _, n := range nodes {
		switch t := n.(type) {
		case *Path:
			if t.Name != "" {
				return t.Name
			}
		case *Group:
			if name := firstPathID(t.Children); name != "" {
				return name
			}
		}
	}
	return ""
}

func (p *parser) parseDimensions(root *element, doc *Document) {
	w, wok := parseLength(root.attrs["width"])
	h, hok := parseLength(root.attrs["height"])

	if vb, ok := root.attr("viewBox"); ok {
		pts, err := scanFloats(vb)
		if err != nil || len(pts) != 4 {
			p.warnf(UnsupportedFeature, root.offset, "bad viewBox %q", vb)
		} else {
			if pts[0] != 0 || pts[1] != 0 {
				p.warnf(UnsupportedFeature, root.offset, "viewBox origin (%g,%g) ignored", pts[0], pts[1])
			}
			doc.ViewportWidth, doc.ViewportHeight = pts[2], pts[3]
		}
	}
	if doc.ViewportWidth == 0 && wok && hok {
		doc.ViewportWidth, doc.ViewportHeight = w, h
	}
	if !wok {
		w = doc.ViewportWidth
	}
	if !hok {
		h = doc.ViewportHeight
	}
	// a missing dimension mirrors the other; neither defaults to 24
	if w == 0 && h == 0 {
		w, h = 24, 24
	} else if w == 0 {
		w = h
	} else if h == 0 {
		h = w
	}
	doc.DefaultWidth, doc.DefaultHeight = w, h
	if doc.ViewportWidth == 0 {
		doc.ViewportWidth, doc.ViewportHeight = w, h
	}
}

// parseLength reads a dimension attribute, stripping a trailing unit
// such as px or pt. Percentages have no absolute value and report not
// ok, as does a missing attribute.
func parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasSuffix(v, "%") {
		return 0, false
	}
	i := len(v)
	for i > 0 {
		c := v[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	f, err := strconv.ParseFloat(v[:i], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

type elemFunc func(p *parser, el *element, inh inherited) []VectorNode

var elemFuncs map[string]elemFunc

func init() {
	skip := func(*parser, *element, inherited) []VectorNode { return nil }
	elemFuncs = map[string]elemFunc{
		"g":              (*parser).parseGroupElem,
		"path":           (*parser).parseShapeElem,
		"rect":           (*parser).parseShapeElem,
		"circle":         (*parser).parseShapeElem,
		"ellipse":        (*parser).parseShapeElem,
		"line":           (*parser).parseShapeElem,
		"polyline":       (*parser).parseShapeElem,
		"polygon":        (*parser).parseShapeElem,
		"defs":           skip,
		"linearGradient": skip,
		"radialGradient": skip,
		"clipPath":       skip,
		"stop":           skip,
		"title":          skip,
		"desc":           skip,
		"metadata":       skip,
	}
}

func (p *parser) parseNode(el *element, inh inherited) []VectorNode {
	fn, ok := elemFuncs[el.name]
	if !ok {
		p.warnf(UnsupportedFeature, el.offset, "unsupported element <%s> skipped", el.name)
		return nil
	}
	return fn(p, el, inh)
}

// elementTransform reads and decomposes the transform attribute. The
// second result is false when the element must be skipped because its
// transform did not parse.
func (p *parser) elementTransform(el *element) (DecomposedTransform, bool) {
	v, ok := el.attr("transform")
	if !ok {
		return IdentityTransform, true
	}
	m, err := ParseTransform(v)
	if err != nil {
		p.warnf(TransformSyntax, el.offset, "element skipped: %v", err)
		return IdentityTransform, false
	}
	if m.HasSkew() {
		p.warnf(UnsupportedFeature, el.offset, "transform %q carries shear, which was discarded", v)
	}
	return m.Decompose(), true
}

func (p *parser) elementClip(el *element) []PathCommand {
	v, ok := el.attr("clip-path")
	if !ok {
		return nil
	}
	id, ok := parseURLRef(v)
	if !ok {
		p.warnf(UnresolvedReference, el.offset, "bad clip-path value %q", v)
		return nil
	}
	return p.resolveClipPath(id, el.offset)
}

func (p *parser) parseGroupElem(el *element, inh inherited) []VectorNode {
	transform, ok := p.elementTransform(el)
	if !ok {
		return nil
	}
	inh = p.pushStyle(el, inh)

	g := &Group{
		Name:      el.attrs["id"],
		Transform: transform,
		ClipPath:  p.elementClip(el),
	}
	for _, c := range el.children {
		g.Children = append(g.Children, p.parseNode(c, inh)...)
	}
	return []VectorNode{g}
}

func (p *parser) parseShapeElem(el *element, inh inherited) []VectorNode {
	transform, ok := p.elementTransform(el)
	if !ok {
		return nil
	}
	cmds, supported, err := shapeCommands(el)
	if err != nil {
		p.warnf(PathSyntax, el.offset, "element skipped: %v", err)
		return nil
	}
	if !supported || len(cmds) == 0 {
		return nil
	}
	inh = p.pushStyle(el, inh)
	if el.name == "line" {
		// a line segment has no fillable interior
		inh.fill = PaintNone{}
	}

	path := &Path{
		Name:        el.attrs["id"],
		Commands:    cmds,
		Fill:        inh.fill,
		Stroke:      inh.stroke,
		FillAlpha:   inh.fillOpacity,
		StrokeAlpha: inh.strokeOpacity,
		StrokeWidth: inh.strokeWidth,
		StrokeCap:   inh.cap,
		StrokeJoin:  inh.join,
		StrokeMiter: inh.miterLimit,
		FillRule:    inh.fillRule,
	}
	if _, none := path.Stroke.(PaintNone); none {
		// normalize unused stroke styling to the builder defaults
		path.StrokeAlpha = 1
		path.StrokeWidth = 0
		path.StrokeCap = CapButt
		path.StrokeJoin = JoinMiter
		path.StrokeMiter = 4
	}

	clip := p.elementClip(el)
	if transform.IsIdentity() && clip == nil {
		return []VectorNode{path}
	}
	// a shape with its own transform or clip is wrapped in a synthetic
	// group carrying them
	return []VectorNode{&Group{
		Transform: transform,
		ClipPath:  clip,
		Children:  []VectorNode{path},
	}}
}

// parseStyleAttr splits an inline style attribute into property/value
// pairs. Keys are lowercased; values keep their case for url() ids.
func parseStyleAttr(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		kv := strings.SplitN(decl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		v := strings.TrimSpace(kv[1])
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

// styleProps merges presentation attributes with the style attribute,
// style declarations winning, restricted to the properties the builder
// understands.
var presentationProps = []string{
	"color", "fill", "stroke", "opacity", "fill-opacity", "stroke-opacity",
	"stroke-width", "stroke-linecap", "stroke-linejoin",
	"stroke-miterlimit", "fill-rule",
}

func styleProps(el *element) map[string]string {
	props := map[string]string{}
	for _, name := range presentationProps {
		if v, ok := el.attr(name); ok {
			props[name] = v
		}
	}
	if style, ok := el.attr("style"); ok {
		for k, v := range parseStyleAttr(style) {
			props[k] = v
		}
	}
	return props
}

// pushStyle derives the child context from an element's styling. The
// opacity property has no builder equivalent on groups, so it is folded
// multiplicatively into the inherited fill and stroke opacities.
func (p *parser) pushStyle(el *element, inh inherited) inherited {
	props := styleProps(el)

	if v, ok := props["color"]; ok {
		if c, err := ParseColor(v, inh.color); err != nil {
			p.warnf(UnsupportedFeature, el.offset, "bad color %q", v)
		} else {
			inh.color = c
		}
	}
	if v, ok := props["fill"]; ok {
		inh.fill = p.parsePaint(v, inh, inh.fill, el.offset)
	}
	if v, ok := props["stroke"]; ok {
		inh.stroke = p.parsePaint(v, inh, inh.stroke, el.offset)
	}
	if v, ok := props["opacity"]; ok {
		if f, err := readFraction(v); err == nil {
			inh.fillOpacity = clamp01(inh.fillOpacity * clamp01(f))
			inh.strokeOpacity = clamp01(inh.strokeOpacity * clamp01(f))
		}
	}
	if v, ok := props["fill-opacity"]; ok {
		if f, err := readFraction(v); err == nil {
			inh.fillOpacity = clamp01(f)
		}
	}
	if v, ok := props["stroke-opacity"]; ok {
		if f, err := readFraction(v); err == nil {
			inh.strokeOpacity = clamp01(f)
		}
	}
	if v, ok := props["stroke-width"]; ok {
		if f, ok := parseLength(v); ok {
			inh.strokeWidth = f
		}
	}
	if v, ok := props["stroke-linecap"]; ok {
		switch strings.TrimSpace(v) {
		case "butt":
			inh.cap = CapButt
		case "round":
			inh.cap = CapRound
		case "square":
			inh.cap = CapSquare
		default:
			p.warnf(UnsupportedFeature, el.offset, "unknown stroke-linecap %q", v)
		}
	}
	if v, ok := props["stroke-linejoin"]; ok {
		switch strings.TrimSpace(v) {
		case "miter":
			inh.join = JoinMiter
		case "round":
			inh.join = JoinRound
		case "bevel":
			inh.join = JoinBevel
		default:
			p.warnf(UnsupportedFeature, el.offset, "unknown stroke-linejoin %q", v)
		}
	}
	if v, ok := props["stroke-miterlimit"]; ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			inh.miterLimit = f
		}
	}
	if v, ok := props["fill-rule"]; ok {
		switch strings.TrimSpace(v) {
		case "nonzero":
			inh.fillRule = NonZero
		case "evenodd":
			inh.fillRule = EvenOdd
		default:
			p.warnf(UnsupportedFeature, el.offset, "unknown fill-rule %q", v)
		}
	}
	return inh
}

// parsePaint resolves a fill or stroke value. A malformed value keeps
// the inherited paint and records a warning.
func (p *parser) parsePaint(v string, inh inherited, prev Paint, offset int64) Paint {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "none") {
		return PaintNone{}
	}
	if id, ok := parseURLRef(v); ok {
		if id == "" {
			p.warnf(UnresolvedReference, offset, "bad paint reference: %v", errZeroLengthID)
			return PaintNone{}
		}
		return p.resolveGradient(id, inh, offset)
	}
	c, err := ParseColor(v, inh.color)
	if err != nil {
		p.warnf(UnsupportedFeature, offset, "bad paint %q", v)
		return prev
	}
	return SolidColor{Color: c}
}

// shapeCommands converts a shape element to its path command
// equivalent. The second result is false for elements that are not
// shapes.
func shapeCommands(el *element) ([]PathCommand, bool, error) {
	switch el.name {
	case "path":
		d, ok := el.attr("d")
		if !ok {
			return nil, true, nil
		}
		cmds, err := ParsePath(d)
		return cmds, true, err
	case "rect":
		return rectCommands(el)
	case "circle", "ellipse":
		return ellipseCommands(el)
	case "line":
		return lineCommands(el)
	case "polyline":
		return polyCommands(el, false)
	case "polygon":
		return polyCommands(el, true)
	}
	return nil, false, nil
}

func attrFloat(el *element, name string, def float64) (float64, error) {
	v, ok := el.attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s attribute %q", name, v)
	}
	return f, nil
}

func attrFloats(el *element, defs map[string]float64, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, n := range names {
		f, err := attrFloat(el, n, defs[n])
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func rectCommands(el *element) ([]PathCommand, bool, error) {
	v, err := attrFloats(el, nil, "x", "y", "width", "height")
	if err != nil {
		return nil, true, err
	}
	x, y, w, h := v[0], v[1], v[2], v[3]
	if w <= 0 || h <= 0 {
		return nil, true, nil
	}
	rx, err := attrFloat(el, "rx", math.NaN())
	if err != nil {
		return nil, true, err
	}
	ry, err := attrFloat(el, "ry", math.NaN())
	if err != nil {
		return nil, true, err
	}
	// an omitted corner radius mirrors the other one
	if math.IsNaN(rx) {
		rx = ry
	}
	if math.IsNaN(ry) {
		ry = rx
	}
	if math.IsNaN(rx) || rx <= 0 || ry <= 0 {
		return []PathCommand{
			MoveTo{X: x, Y: y},
			LineTo{X: x + w, Y: y},
			LineTo{X: x + w, Y: y + h},
			LineTo{X: x, Y: y + h},
			Close{},
		}, true, nil
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}
	arc := func(toX, toY float64) PathCommand {
		return ArcTo{RX: rx, RY: ry, Sweep: true, X: toX, Y: toY}
	}
	return []PathCommand{
		MoveTo{X: x + rx, Y: y},
		LineTo{X: x + w - rx, Y: y},
		arc(x+w, y+ry),
		LineTo{X: x + w, Y: y + h - ry},
		arc(x+w-rx, y+h),
		LineTo{X: x + rx, Y: y + h},
		arc(x, y+h-ry),
		LineTo{X: x, Y: y + ry},
		arc(x+rx, y),
		Close{},
	}, true, nil
}

func ellipseCommands(el *element) ([]PathCommand, bool, error) {
	v, err := attrFloats(el, nil, "cx", "cy")
	if err != nil {
		return nil, true, err
	}
	cx, cy := v[0], v[1]
	var rx, ry float64
	if el.name == "circle" {
		rx, err = attrFloat(el, "r", 0)
		ry = rx
	} else {
		var rv []float64
		rv, err = attrFloats(el, nil, "rx", "ry")
		if err == nil {
			rx, ry = rv[0], rv[1]
		}
	}
	if err != nil {
		return nil, true, err
	}
	if rx <= 0 || ry <= 0 {
		return nil, true, nil
	}
	arc := func(toX, toY float64) PathCommand {
		return ArcTo{RX: rx, RY: ry, Sweep: true, X: toX, Y: toY}
	}
	return []PathCommand{
		MoveTo{X: cx + rx, Y: cy},
		arc(cx, cy+ry),
		arc(cx-rx, cy),
		arc(cx, cy-ry),
		arc(cx+rx, cy),
		Close{},
	}, true, nil
}

func lineCommands(el *element) ([]PathCommand, bool, error) {
	v, err := attrFloats(el, nil, "x1", "y1", "x2", "y2")
	if err != nil {
		return nil, true, err
	}
	return []PathCommand{
		MoveTo{X: v[0], Y: v[1]},
		LineTo{X: v[2], Y: v[3]},
	}, true, nil
}

func polyCommands(el *element, closed bool) ([]PathCommand, bool, error) {
	points, ok := el.attr("points")
	if !ok {
		return nil, true, nil
	}
	pts, err := scanFloats(points)
	if err != nil {
		return nil, true, err
	}
	if len(pts)%2 != 0 {
		return nil, true, fmt.Errorf("odd number of polygon coordinates")
	}
	if len(pts) < 4 {
		return nil, true, nil
	}
	cmds := []PathCommand{MoveTo{X: pts[0], Y: pts[1]}}
	for i := 2; i < len(pts); i += 2 {
		cmds = append(cmds, LineTo{X: pts[i], Y: pts[i+1]})
	}
	if closed {
		cmds = append(cmds, Close{})
	}
	return cmds, true, nil
}
