// Copyright 2022 The svg2compose Authors. All rights reserved.

package svg2compose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func leafPath(name string) *Path {
	return &Path{
		Name:        name,
		Commands:    []PathCommand{MoveTo{X: 0, Y: 0}, LineTo{X: 1, Y: 1}},
		Fill:        SolidColor{Color: colorBlack},
		Stroke:      PaintNone{},
		FillAlpha:   1,
		StrokeAlpha: 1,
		StrokeMiter: 4,
	}
}

func TestOptimize(t *testing.T) {
	tests := []struct {
		name string
		in   []VectorNode
		want []VectorNode
	}{
		{
			name: "flattensNestedSingleChildGroups",
			in: []VectorNode{
				&Group{Transform: IdentityTransform, Children: []VectorNode{
					&Group{Transform: IdentityTransform, Children: []VectorNode{
						leafPath(""),
					}},
				}},
			},
			want: []VectorNode{leafPath("")},
		},
		{
			name: "keepsNamedGroup",
			in: []VectorNode{
				&Group{Name: "badge", Transform: IdentityTransform, Children: []VectorNode{
					leafPath(""),
				}},
			},
			want: []VectorNode{
				&Group{Name: "badge", Transform: IdentityTransform, Children: []VectorNode{
					leafPath(""),
				}},
			},
		},
		{
			name: "keepsTransformedGroup",
			in: []VectorNode{
				&Group{
					Transform: DecomposedTransform{TranslateX: 5, ScaleX: 1, ScaleY: 1},
					Children:  []VectorNode{leafPath("")},
				},
			},
			want: []VectorNode{
				&Group{
					Transform: DecomposedTransform{TranslateX: 5, ScaleX: 1, ScaleY: 1},
					Children:  []VectorNode{leafPath("")},
				},
			},
		},
		{
			name: "keepsClippedGroup",
			in: []VectorNode{
				&Group{
					Transform: IdentityTransform,
					ClipPath:  []PathCommand{MoveTo{X: 0, Y: 0}, LineTo{X: 1, Y: 0}, Close{}},
					Children:  []VectorNode{leafPath("")},
				},
			},
			want: []VectorNode{
				&Group{
					Transform: IdentityTransform,
					ClipPath:  []PathCommand{MoveTo{X: 0, Y: 0}, LineTo{X: 1, Y: 0}, Close{}},
					Children:  []VectorNode{leafPath("")},
				},
			},
		},
		{
			name: "keepsMultiChildGroup",
			in: []VectorNode{
				&Group{Transform: IdentityTransform, Children: []VectorNode{
					leafPath("a"), leafPath("b"),
				}},
			},
			want: []VectorNode{
				&Group{Transform: IdentityTransform, Children: []VectorNode{
					leafPath("a"), leafPath("b"),
				}},
			},
		},
		{
			name: "dropsEmptyGroup",
			in: []VectorNode{
				&Group{Name: "empty", Transform: IdentityTransform},
				leafPath("keep"),
			},
			want: []VectorNode{leafPath("keep")},
		},
		{
			name: "flattensInsideKeptGroup",
			in: []VectorNode{
				&Group{Name: "outer", Transform: IdentityTransform, Children: []VectorNode{
					&Group{Transform: IdentityTransform, Children: []VectorNode{leafPath("inner")}},
					leafPath("after"),
				}},
			},
			want: []VectorNode{
				&Group{Name: "outer", Transform: IdentityTransform, Children: []VectorNode{
					leafPath("inner"),
					leafPath("after"),
				}},
			},
		},
		{
			name: "preservesOrder",
			in: []VectorNode{
				leafPath("a"),
				&Group{Transform: IdentityTransform, Children: []VectorNode{leafPath("b")}},
				leafPath("c"),
			},
			want: []VectorNode{leafPath("a"), leafPath("b"), leafPath("c")},
		},
		{
			name: "emptyInput",
			in:   nil,
			want: nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Optimize(test.in)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Optimize mismatch (-want +got):\n%s", diff)
			}
			again := Optimize(got)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("Optimize not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	inner := &Group{Transform: IdentityTransform, Children: []VectorNode{leafPath("")}}
	in := []VectorNode{&Group{Name: "outer", Transform: IdentityTransform, Children: []VectorNode{inner, leafPath("x")}}}
	_ = Optimize(in)
	if len(in[0].(*Group).Children) != 2 {
		t.Error("input tree was mutated")
	}
	if _, ok := in[0].(*Group).Children[0].(*Group); !ok {
		t.Error("input child group was replaced")
	}
}
