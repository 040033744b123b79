// Package testkit holds checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tonnikala/internal/ir"
	"tonnikala/internal/source"
)

// CheckTreeInvariants runs the structural invariants of a generated tree:
// 1) the tree starts at a single Root and no other node is a Root
// 2) every node has exactly one parent (no node is reachable twice)
// 3) only Element nodes carry element data
// 4) known positions point inside the file (when sf is non-nil)
// 5) attribute values hold only Text and Expression fragments
func CheckTreeInvariants(root *ir.Node, sf *source.File) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	if root.Kind != ir.KindRoot {
		return fmt.Errorf("top node is %s, want Root", root.Kind)
	}

	var lines uint32
	if sf != nil {
		n, err := safecast.Conv[uint32](len(sf.LineIdx) + 1)
		if err != nil {
			return fmt.Errorf("line count overflow: %w", err)
		}
		lines = n
	}

	seen := make(map[*ir.Node]struct{})
	var check func(n *ir.Node, top bool) error
	check = func(n *ir.Node, top bool) error {
		if n == nil {
			return fmt.Errorf("nil child")
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%s at %s has more than one parent", n.Kind, n.Pos)
		}
		seen[n] = struct{}{}

		if n.Kind == ir.KindRoot && !top {
			return fmt.Errorf("nested Root at %s", n.Pos)
		}
		el, isEl := n.Data.(*ir.ElementData)
		if isEl != (n.Kind == ir.KindElement) {
			return fmt.Errorf("%s at %s: element data mismatch", n.Kind, n.Pos)
		}
		if lines > 0 && n.Pos.Known() && n.Pos.Line > lines {
			return fmt.Errorf("%s position %s beyond last line %d", n.Kind, n.Pos, lines)
		}
		if isEl {
			for _, a := range el.Attrs {
				for _, frag := range a.Value {
					if frag == nil || (frag.Kind != ir.KindText && frag.Kind != ir.KindExpression) {
						return fmt.Errorf("attribute %s of <%s>: bad value fragment", a.Name, el.Tag)
					}
				}
			}
		}
		for _, c := range n.Children {
			if err := check(c, false); err != nil {
				return err
			}
		}
		return nil
	}
	return check(root, true)
}
