// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// defs.go implements the referenced-definition registry. Definitions
// are collected in a first pass over the element tree so url()
// references resolve regardless of document order.

package svg2compose

import (
	"strconv"
	"strings"
)

type defsRegistry struct {
	gradients map[string]*element
	clips     map[string]*element
}

func newDefsRegistry() defsRegistry {
	return defsRegistry{
		gradients: make(map[string]*element),
		clips:     make(map[string]*element),
	}
}

// collect walks the element tree registering every gradient and
// clipPath that carries an id. Gradients are referenceable wherever
// they appear, not only under defs.
func (d *defsRegistry) collect(el *element) {
	if id, ok := el.attr("id"); ok && id != "" {
		switch el.name {
		case "linearGradient", "radialGradient":
			d.gradients[id] = el
		case "clipPath":
			d.clips[id] = el
		}
	}
	for _, c := range el.children {
		d.collect(c)
	}
}

// parseURLRef extracts the fragment id from a url(#id) value.
func parseURLRef(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	ref := strings.TrimSpace(v[4 : len(v)-1])
	ref = strings.Trim(ref, "'\"")
	if !strings.HasPrefix(ref, "#") {
		return "", false
	}
	return ref[1:], true
}

// readFraction parses a number that may carry a percent sign, in which
// case it is divided by 100.
func readFraction(v string) (float64, error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err := strconv.ParseFloat(v, 64)
	return f / d, err
}

// hrefChain follows href/xlink:href links starting at el, returning the
// chain in reference order. A self or transitive cycle truncates the
// chain with a warning.
func (p *parser) hrefChain(el *element) []*element {
	chain := []*element{el}
	visited := map[*element]bool{el: true}
	for {
		ref, ok := el.attr("href")
		if !ok {
			ref, ok = el.attr("xlink:href")
		}
		if !ok {
			return chain
		}
		ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
		next, ok := p.defs.gradients[ref]
		if !ok {
			p.warnf(UnresolvedReference, el.offset, "gradient href %q not found", ref)
			return chain
		}
		if visited[next] {
			p.warnf(UnresolvedReference, el.offset, "gradient href cycle at %q", ref)
			return chain
		}
		visited[next] = true
		chain = append(chain, next)
		el = next
	}
}

// chainAttr looks an attribute up along the href chain, nearest
// definition first.
func chainAttr(chain []*element, name string) (string, bool) {
	for _, el := range chain {
		if v, ok := el.attr(name); ok {
			return v, ok
		}
	}
	return "", false
}

// chainFraction reads a possibly inherited fractional attribute with a
// fallback default. A malformed value records a warning and yields the
// default.
func (p *parser) chainFraction(chain []*element, name string, def float64) float64 {
	v, ok := chainAttr(chain, name)
	if !ok {
		return def
	}
	f, err := readFraction(v)
	if err != nil {
		p.warnf(UnsupportedFeature, chain[0].offset, "bad gradient attribute %s=%q", name, v)
		return def
	}
	return f
}

// resolveGradient builds the gradient paint behind a url(#id)
// reference. The resolution is forgiving: an unknown id, an empty stop
// list or a gradient cycle degrade to PaintNone with a warning rather
// than failing the conversion.
func (p *parser) resolveGradient(id string, inh inherited, offset int64) Paint {
	el, ok := p.defs.gradients[id]
	if !ok {
		p.warnf(UnresolvedReference, offset, "paint reference %q not found", id)
		return PaintNone{}
	}
	chain := p.hrefChain(el)

	if _, ok := chainAttr(chain, "gradientTransform"); ok {
		p.warnf(UnsupportedFeature, el.offset, "gradientTransform is not supported and was ignored")
	}

	units := ObjectBoundingBox
	if v, ok := chainAttr(chain, "gradientUnits"); ok && strings.TrimSpace(v) == "userSpaceOnUse" {
		units = UserSpaceOnUse
	}
	spread := PadSpread
	if v, ok := chainAttr(chain, "spreadMethod"); ok {
		switch strings.TrimSpace(v) {
		case "reflect":
			spread = ReflectSpread
		case "repeat":
			spread = RepeatSpread
		}
	}

	stops := p.gradientStops(chain, inh)
	if len(stops) == 0 {
		p.warnf(UnresolvedReference, el.offset, "gradient %q has no stops", id)
		return PaintNone{}
	}
	if len(stops) == 1 {
		// A single stop paints as a constant color.
		return SolidColor{Color: stops[0].Color}
	}

	if el.name == "radialGradient" {
		return &RadialGradient{
			CX:     p.chainFraction(chain, "cx", 0.5),
			CY:     p.chainFraction(chain, "cy", 0.5),
			R:      p.chainFraction(chain, "r", 0.5),
			Stops:  stops,
			Units:  units,
			Spread: spread,
		}
	}
	return &LinearGradient{
		X1:     p.chainFraction(chain, "x1", 0),
		Y1:     p.chainFraction(chain, "y1", 0),
		X2:     p.chainFraction(chain, "x2", 1),
		Y2:     p.chainFraction(chain, "y2", 0),
		Stops:  stops,
		Units:  units,
		Spread: spread,
	}
}

// gradientStops reads the stop children of the first element in the
// href chain that has any, in document order.
func (p *parser) gradientStops(chain []*element, inh inherited) []ColorStop {
	var owner *element
	for _, el := range chain {
		for _, c := range el.children {
			if c.name == "stop" {
				owner = el
				break
			}
		}
		if owner != nil {
			break
		}
	}
	if owner == nil {
		return nil
	}
	var stops []ColorStop
	for _, c := range owner.children {
		if c.name != "stop" {
			continue
		}
		stops = append(stops, p.parseStop(c, inh))
	}
	return stops
}

func (p *parser) parseStop(el *element, inh inherited) ColorStop {
	// presentation attributes first, style properties override
	attrs := map[string]string{}
	for _, name := range []string{"offset", "stop-color", "stop-opacity"} {
		if v, ok := el.attr(name); ok {
			attrs[name] = v
		}
	}
	if style, ok := el.attr("style"); ok {
		for k, v := range parseStyleAttr(style) {
			attrs[k] = v
		}
	}

	stop := ColorStop{Color: colorBlack}
	if v, ok := attrs["offset"]; ok {
		f, err := readFraction(v)
		if err != nil {
			p.warnf(UnsupportedFeature, el.offset, "bad stop offset %q", v)
		} else {
			stop.Offset = clamp01(f)
		}
	}
	if v, ok := attrs["stop-color"]; ok {
		c, err := ParseColor(v, inh.color)
		if err != nil {
			p.warnf(UnsupportedFeature, el.offset, "bad stop color %q", v)
		} else {
			stop.Color = c
		}
	}
	if v, ok := attrs["stop-opacity"]; ok {
		f, err := readFraction(v)
		if err != nil {
			p.warnf(UnsupportedFeature, el.offset, "bad stop opacity %q", v)
		} else {
			stop.Color = stop.Color.ScaleAlpha(f)
		}
	}
	return stop
}

// resolveClipPath concatenates the path data of every shape under the
// referenced clipPath element.
func (p *parser) resolveClipPath(id string, offset int64) []PathCommand {
	el, ok := p.defs.clips[id]
	if !ok {
		p.warnf(UnresolvedReference, offset, "clip-path reference %q not found", id)
		return nil
	}
	var cmds []PathCommand
	for _, c := range el.children {
		shape, ok, err := shapeCommands(c)
		if err != nil {
			p.warnf(PathSyntax, c.offset, "clip shape skipped: %v", err)
			continue
		}
		if !ok {
			p.warnf(UnsupportedFeature, c.offset, "unsupported clip element <%s>", c.name)
			continue
		}
		cmds = append(cmds, shape...)
	}
	return cmds
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
