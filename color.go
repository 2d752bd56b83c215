// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// color.go implements CSS color value parsing.
// https://www.w3.org/TR/css-color-3/

package svg2compose

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a 32 bit non-premultiplied ARGB value, 0xAARRGGBB.
type Color uint32

func NewColor(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) Alpha() uint8 { return uint8(c >> 24) }
func (c Color) Red() uint8   { return uint8(c >> 16) }
func (c Color) Green() uint8 { return uint8(c >> 8) }
func (c Color) Blue() uint8  { return uint8(c) }

// WithAlpha returns the color with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return Color(uint32(c)&0x00FFFFFF | uint32(a)<<24)
}

// ScaleAlpha multiplies the alpha channel by f clamped to [0,1].
func (c Color) ScaleAlpha(f float64) Color {
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return c.WithAlpha(uint8(math.Round(float64(c.Alpha()) * f)))
}

// RGBA implements image/color.Color, returning alpha-premultiplied
// channels so IR colors feed directly into the renderer.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.Alpha())
	r = uint32(c.Red()) * 0x101 * a / 0xff
	g = uint32(c.Green()) * 0x101 * a / 0xff
	b = uint32(c.Blue()) * 0x101 * a / 0xff
	a *= 0x101
	return
}

func (c Color) String() string { return fmt.Sprintf("#%08X", uint32(c)) }

const colorBlack = Color(0xFF000000)

// ParseColor parses a CSS color value: #hex in the 3, 4, 6 and 8 digit
// forms, rgb()/rgba() with integer or percentage channels, hsl()/hsla(),
// the CSS named colors, currentColor (resolved against current) and
// transparent. "none" and url() references are paint values, not colors,
// and are handled by the paint resolver.
func ParseColor(s string, current Color) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return 0, fmt.Errorf("empty color value")
	case v == "currentcolor":
		return current, nil
	case v == "transparent":
		return Color(0), nil
	case v[0] == '#':
		return parseHexColor(v[1:])
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseRGBColor(v[4 : len(v)-1])
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		return parseRGBColor(v[5 : len(v)-1])
	case strings.HasPrefix(v, "hsl(") && strings.HasSuffix(v, ")"):
		return parseHSLColor(v[4 : len(v)-1])
	case strings.HasPrefix(v, "hsla(") && strings.HasSuffix(v, ")"):
		return parseHSLColor(v[5 : len(v)-1])
	}
	if c, ok := colornames.Map[v]; ok {
		return NewColor(c.R, c.G, c.B, 0xFF), nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(h string) (Color, error) {
	u, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q", "#"+h)
	}
	// expand a 4 bit channel to 8 bits
	x := func(n uint64) uint8 { return uint8(n<<4 | n) }
	switch len(h) {
	case 3:
		return NewColor(x(u>>8&0xF), x(u>>4&0xF), x(u&0xF), 0xFF), nil
	case 4:
		return NewColor(x(u>>12&0xF), x(u>>8&0xF), x(u>>4&0xF), x(u&0xF)), nil
	case 6:
		return Color(0xFF000000 | uint32(u)), nil
	case 8:
		// #RRGGBBAA: alpha trails in CSS, leads in ARGB
		return Color(uint32(u)>>8 | uint32(u)<<24), nil
	}
	return 0, fmt.Errorf("invalid hex color %q", "#"+h)
}

// channel parses one rgb() channel, either an integer or a percentage,
// clamped to [0,255].
func channel(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	var f float64
	var err error
	if strings.HasSuffix(s, "%") {
		f, err = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		f = f / 100 * 255
	} else {
		f, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return 0, err
	}
	if f < 0 {
		f = 0
	} else if f > 255 {
		f = 255
	}
	return uint8(math.Round(f)), nil
}

// alphaValue parses an alpha component, a float in [0,1] or a
// percentage.
func alphaValue(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	var f float64
	var err error
	if strings.HasSuffix(s, "%") {
		f, err = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		f /= 100
	} else {
		f, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return 0, err
	}
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return uint8(math.Round(f * 255)), nil
}

func splitArgs(s string, want, wantAlpha int) ([]string, error) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) != want && len(parts) != wantAlpha {
		return nil, errParamMismatch
	}
	return parts, nil
}

func parseRGBColor(args string) (Color, error) {
	parts, err := splitArgs(args, 3, 4)
	if err != nil {
		return 0, fmt.Errorf("rgb: %v", err)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		if ch[i], err = channel(parts[i]); err != nil {
			return 0, fmt.Errorf("rgb: %v", err)
		}
	}
	a := uint8(0xFF)
	if len(parts) == 4 {
		if a, err = alphaValue(parts[3]); err != nil {
			return 0, fmt.Errorf("rgb: %v", err)
		}
	}
	return NewColor(ch[0], ch[1], ch[2], a), nil
}

func parseHSLColor(args string) (Color, error) {
	parts, err := splitArgs(args, 3, 4)
	if err != nil {
		return 0, fmt.Errorf("hsl: %v", err)
	}
	h, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("hsl: %v", err)
	}
	sat, err := percentValue(parts[1])
	if err != nil {
		return 0, fmt.Errorf("hsl: %v", err)
	}
	light, err := percentValue(parts[2])
	if err != nil {
		return 0, fmt.Errorf("hsl: %v", err)
	}
	a := uint8(0xFF)
	if len(parts) == 4 {
		if a, err = alphaValue(parts[3]); err != nil {
			return 0, fmt.Errorf("hsl: %v", err)
		}
	}
	r, g, b := hslToRGB(h, sat, light)
	return NewColor(r, g, b, a), nil
}

func percentValue(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	f /= 100
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return f, nil
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return to8(r), to8(g), to8(b)
}
