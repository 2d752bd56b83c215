// Copyright 2022 The svg2compose Authors. All rights reserved.

package svg2compose

import (
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">
  <g>
    <g>
      <path d="M2 2L22 22Z" fill="#2196F3"/>
    </g>
  </g>
</svg>`
	res, err := Convert(strings.NewReader(src), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "UnnamedIcon" {
		t.Errorf("Name = %q", res.Name)
	}
	// both wrapper groups contribute nothing and must be flattened away
	if strings.Contains(res.Code, "group") {
		t.Errorf("redundant groups survived optimization:\n%s", res.Code)
	}
	if len(res.Document.Nodes) != 1 {
		t.Fatalf("got %d root nodes, want 1", len(res.Document.Nodes))
	}
	if _, ok := res.Document.Nodes[0].(*Path); !ok {
		t.Fatalf("root node is %T, want *Path", res.Document.Nodes[0])
	}
	for _, want := range []string{
		`name = "UnnamedIcon",`,
		"fill = SolidColor(Color(0xFF2196F3)),",
		"moveTo(2f, 2f)",
		"lineTo(22f, 22f)",
		"close()",
	} {
		if !strings.Contains(res.Code, want) {
			t.Errorf("code missing %q:\n%s", want, res.Code)
		}
	}
}

func TestConvertNameOverride(t *testing.T) {
	src := `<svg id="doc_id" viewBox="0 0 24 24"><path d="M0 0L1 1"/></svg>`
	res, err := Convert(strings.NewReader(src), Options{Name: "Override"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "Override" {
		t.Errorf("Name = %q, want Override", res.Name)
	}
	if !strings.Contains(res.Code, `name = "Override",`) {
		t.Errorf("code does not carry the override:\n%s", res.Code)
	}
}

func TestConvertSurfacesWarnings(t *testing.T) {
	src := `<svg viewBox="0 0 24 24">
  <text x="0" y="0">label</text>
  <path d="M0 0L1 1"/>
</svg>`
	res, err := Convert(strings.NewReader(src), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected an unsupported element warning")
	}
}

func TestConvertBadDocument(t *testing.T) {
	if _, err := Convert(strings.NewReader("<html/>"), Options{}); err == nil {
		t.Error("expected error for non-svg root")
	}
}
