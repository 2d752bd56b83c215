// Copyright 2022 The svg2compose Authors. All rights reserved.

package svg2compose

// Optimize removes group nodes that contribute nothing to the rendered
// image: groups with no children are dropped, and a group with exactly
// one child, no name, an identity transform and no clip path is
// replaced by that child. Groups with ids are semantic anchors and
// groups with several children are structural, so both are kept.
// Sibling order is preserved and the input tree is not mutated. The
// pass is idempotent.
func Optimize(nodes []VectorNode) []VectorNode {
	var out []VectorNode
	for _, n := range nodes {
		g, ok := n.(*Group)
		if !ok {
			out = append(out, n)
			continue
		}
		children := Optimize(g.Children)
		if len(children) == 0 {
			continue
		}
		if len(children) == 1 && g.Name == "" && g.Transform.IsIdentity() && len(g.ClipPath) == 0 {
			out = append(out, children[0])
			continue
		}
		out = append(out, &Group{
			Name:      g.Name,
			Transform: g.Transform,
			ClipPath:  g.ClipPath,
			Children:  children,
		})
	}
	return out
}
