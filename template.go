// Copyright 2022 The svg2compose Authors. All rights reserved.
//
// template.go implements wrapping of generated builder fragments in
// caller-supplied output templates, plus the color parameter
// substitution used by multicolor icon templates.

package svg2compose

import (
	"sort"
	"strings"
	"unicode"
)

// Template wraps a generated fragment with caller-supplied text. The
// placeholders {{imports}}, {{build_code}} and {{icon_name}} are
// replaced on render; {{icon_name}} receives the PascalCase form of
// the document name.
type Template struct {
	Text string
	// GroupImports inserts a blank line between import groups that
	// share the first three package path segments.
	GroupImports bool
}

// DefaultTemplate emits the import block followed by the bare builder
// expression.
var DefaultTemplate = Template{Text: "{{imports}}\n\n{{build_code}}\n"}

func (t Template) Render(buildCode string, imports []string, iconName string) string {
	r := strings.NewReplacer(
		"{{imports}}", FormatImports(imports, t.GroupImports),
		"{{build_code}}", buildCode,
		"{{icon_name}}", PascalCase(iconName),
	)
	return r.Replace(t.Text)
}

// FormatImports renders sorted import statements, optionally grouped by
// the leading three package path segments with blank lines between
// groups.
func FormatImports(imports []string, grouped bool) string {
	if len(imports) == 0 {
		return ""
	}
	sorted := make([]string, len(imports))
	copy(sorted, imports)
	sort.Strings(sorted)

	var b strings.Builder
	lastGroup := ""
	for i, imp := range sorted {
		if grouped {
			group := imp
			if parts := strings.SplitN(imp, ".", 4); len(parts) >= 3 {
				group = strings.Join(parts[:3], ".")
			}
			if i > 0 && group != lastGroup {
				b.WriteByte('\n')
			}
			lastGroup = group
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("import " + imp)
	}
	return b.String()
}

// splitWords splits an identifier on non-alphanumeric runs and
// lower-to-upper camel case boundaries.
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	var prev rune
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return words
}

// PascalCase converts an identifier-ish string to PascalCase, e.g.
// "arrow-left" becomes "ArrowLeft".
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}

// CamelCase converts an identifier-ish string to camelCase.
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// SnakeCase converts an identifier-ish string to snake_case.
func SnakeCase(s string) string {
	words := splitWords(s)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "_")
}

// SubstituteColors rewrites color tokens in generated code into
// caller-supplied replacements, typically theme parameter references.
// Mapping keys are any color syntax the resolver accepts, so "#f00",
// "red" and "rgb(255,0,0)" all address the same emitted token. Keys
// that fail to parse are ignored; unmapped colors are left unchanged.
func SubstituteColors(code string, mapping map[string]string) string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		c, err := ParseColor(key, colorBlack)
		if err != nil {
			continue
		}
		code = strings.ReplaceAll(code, composeColor(c), mapping[key])
	}
	return code
}
