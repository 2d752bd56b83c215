// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// path.go implements translation of an SVG path description string into
// a typed PathCommand sequence.
// https://www.w3.org/TR/SVG2/paths.html#PathData

package svg2compose

import (
	"fmt"
	"strconv"
)

// operand counts per command letter (uppercase form).
var cmdArity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

// pathLexer scans command letters, numbers and arc flags out of a path
// data string. Numbers may be packed without separators ("1-2" is two
// numbers, "1.5.5" likewise); arc flags are read as exactly one digit
// even when unseparated from the following number.
type pathLexer struct {
	data string
	pos  int
}

func (l *pathLexer) eof() bool { return l.pos >= len(l.data) }

func (l *pathLexer) skipSep() {
	for !l.eof() {
		switch l.data[l.pos] {
		case ' ', '\t', '\n', '\r', ',':
			l.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberStart(c byte) bool {
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

func (l *pathLexer) number() (float64, error) {
	start := l.pos
	if !l.eof() && (l.data[l.pos] == '-' || l.data[l.pos] == '+') {
		l.pos++
	}
	digits := 0
	for !l.eof() && isDigit(l.data[l.pos]) {
		l.pos++
		digits++
	}
	if !l.eof() && l.data[l.pos] == '.' {
		l.pos++
		for !l.eof() && isDigit(l.data[l.pos]) {
			l.pos++
			digits++
		}
	}
	if digits == 0 {
		return 0, &PathSyntaxError{Pos: start, Msg: "expected number"}
	}
	if !l.eof() && (l.data[l.pos] == 'e' || l.data[l.pos] == 'E') {
		l.pos++
		if !l.eof() && (l.data[l.pos] == '-' || l.data[l.pos] == '+') {
			l.pos++
		}
		expDigits := 0
		for !l.eof() && isDigit(l.data[l.pos]) {
			l.pos++
			expDigits++
		}
		if expDigits == 0 {
			return 0, &PathSyntaxError{Pos: start, Msg: "malformed exponent"}
		}
	}
	f, err := strconv.ParseFloat(l.data[start:l.pos], 64)
	if err != nil {
		return 0, &PathSyntaxError{Pos: start, Msg: "malformed number"}
	}
	return f, nil
}

// flag reads a single arc flag digit. Unlike number it never consumes
// more than one character, so "11" is the flag 1 followed by the
// coordinate 1.
func (l *pathLexer) flag() (bool, error) {
	if l.eof() {
		return false, &PathSyntaxError{Pos: l.pos, Msg: "expected arc flag"}
	}
	switch l.data[l.pos] {
	case '0':
		l.pos++
		return false, nil
	case '1':
		l.pos++
		return true, nil
	}
	return false, &PathSyntaxError{Pos: l.pos, Msg: "arc flag must be 0 or 1"}
}

func isLetter(c byte) bool {
	u := c &^ 0x20 // fold case
	return u >= 'A' && u <= 'Z'
}

// ParsePath translates an SVG path description into a PathCommand
// sequence. Commands are kept as written: the lowercase relative forms
// are not converted to absolute coordinates. When more operand groups
// follow a command than one application consumes the command repeats,
// except that a repeated moveto group continues as a lineto of the same
// case. A malformed string yields a position-tagged *PathSyntaxError.
func ParsePath(d string) ([]PathCommand, error) {
	l := &pathLexer{data: d}
	var cmds []PathCommand
	var lastCmd byte

	l.skipSep()
	for !l.eof() {
		c := l.data[l.pos]
		var cmd byte
		switch {
		case isLetter(c):
			cmd = c
			l.pos++
		case isNumberStart(c):
			// Implicit repeat of the previous command letter.
			switch lastCmd {
			case 0:
				return nil, &PathSyntaxError{Pos: l.pos, Msg: "path must begin with a moveto command"}
			case 'Z', 'z':
				return nil, &PathSyntaxError{Pos: l.pos, Msg: "number after close command"}
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			default:
				cmd = lastCmd
			}
		default:
			return nil, &PathSyntaxError{Pos: l.pos, Msg: fmt.Sprintf("unexpected character %q", c)}
		}

		upper := cmd &^ 0x20
		arity, ok := cmdArity[upper]
		if !ok {
			return nil, &PathSyntaxError{Pos: l.pos - 1, Msg: fmt.Sprintf("%v %q", errCommandUnknown, cmd)}
		}
		if len(cmds) == 0 && upper != 'M' {
			return nil, &PathSyntaxError{Pos: l.pos - 1, Msg: "path must begin with a moveto command"}
		}
		rel := cmd >= 'a'

		if upper == 'Z' {
			cmds = append(cmds, Close{})
			lastCmd = cmd
			l.skipSep()
			continue
		}

		vals := make([]float64, arity)
		for i := range vals {
			l.skipSep()
			var err error
			if upper == 'A' && (i == 3 || i == 4) {
				var b bool
				b, err = l.flag()
				if b {
					vals[i] = 1
				}
			} else {
				vals[i], err = l.number()
			}
			if err != nil {
				return nil, err
			}
		}
		cmds = append(cmds, newCommand(upper, rel, vals))
		lastCmd = cmd
		l.skipSep()
	}
	return cmds, nil
}

func newCommand(upper byte, rel bool, v []float64) PathCommand {
	switch upper {
	case 'M':
		return MoveTo{X: v[0], Y: v[1], Rel: rel}
	case 'L':
		return LineTo{X: v[0], Y: v[1], Rel: rel}
	case 'H':
		return HorizontalTo{X: v[0], Rel: rel}
	case 'V':
		return VerticalTo{Y: v[0], Rel: rel}
	case 'C':
		return CurveTo{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3], X3: v[4], Y3: v[5], Rel: rel}
	case 'S':
		return SmoothCurveTo{X2: v[0], Y2: v[1], X3: v[2], Y3: v[3], Rel: rel}
	case 'Q':
		return QuadTo{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3], Rel: rel}
	case 'T':
		return SmoothQuadTo{X: v[0], Y: v[1], Rel: rel}
	case 'A':
		return ArcTo{
			RX: v[0], RY: v[1], Rotation: v[2],
			LargeArc: v[3] != 0, Sweep: v[4] != 0,
			X: v[5], Y: v[6], Rel: rel,
		}
	}
	panic("unreachable")
}

// scanFloats reads every number out of an attribute value such as a
// viewBox or transform argument list, tolerating the same packed forms
// the path lexer accepts.
func scanFloats(s string) ([]float64, error) {
	l := &pathLexer{data: s}
	var out []float64
	l.skipSep()
	for !l.eof() {
		f, err := l.number()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		l.skipSep()
	}
	return out, nil
}
