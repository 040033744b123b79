//nolint:errcheck // IR nodes are checked by construction; Kind implies the Data payload type.
package ir

import (
	"html"
	"strings"
)

// Flatten removes structural nodes that have no effect of their own and
// splices their children into the parent at the same position:
//   - With nodes whose bindings are blank;
//   - If, Unless, For and With nodes left without children.
//
// Output-producing nodes are never removed or reordered. The tree is
// modified in place and returned.
func Flatten(root *Node) *Node {
	if root == nil {
		return nil
	}
	root.Children = flattenChildren(root.Children)
	return root
}

func flattenChildren(children []*Node) []*Node {
	out := children[:0:0]
	for _, c := range children {
		c.Children = flattenChildren(c.Children)
		switch {
		case isScopeFree(c):
			out = append(out, c.Children...)
		case isEmptyControl(c):
			// nothing to render
		default:
			out = append(out, c)
		}
	}
	return out
}

func isScopeFree(n *Node) bool {
	return n.Kind == KindWith && strings.TrimSpace(n.Data.(*WithData).Bindings) == ""
}

func isEmptyControl(n *Node) bool {
	switch n.Kind {
	case KindIf, KindUnless, KindFor, KindWith:
		return len(n.Children) == 0
	default:
		return false
	}
}

// MergeText coalesces runs of adjacent Text and EscapedText siblings into a
// single node. A run of plain Text stays Text; a run mixing both kinds becomes
// EscapedText with the plain parts escaped. Translatable text and every other
// kind end a run. Applying MergeText to its own output changes nothing.
func MergeText(root *Node) *Node {
	if root == nil {
		return nil
	}
	mergeOn(root)
	return root
}

func mergeOn(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	out := make([]*Node, 0, len(n.Children))
	var run []*Node
	flush := func() {
		switch len(run) {
		case 0:
		case 1:
			out = append(out, run[0])
		default:
			out = append(out, mergeRun(run))
		}
		run = run[:0]
	}
	for _, c := range n.Children {
		if mergeable(c) {
			run = append(run, c)
			continue
		}
		flush()
		mergeOn(c)
		out = append(out, c)
	}
	flush()
	n.Children = out
}

func mergeable(n *Node) bool {
	return n.Kind.IsText() && !n.Translatable()
}

func mergeRun(run []*Node) *Node {
	escaped := false
	for _, t := range run {
		if t.Kind == KindEscapedText {
			escaped = true
			break
		}
	}
	var sb strings.Builder
	for _, t := range run {
		if escaped && t.Kind == KindText {
			sb.WriteString(html.EscapeString(t.Text()))
			continue
		}
		sb.WriteString(t.Text())
	}
	if escaped {
		return NewEscapedText(run[0].Pos, sb.String())
	}
	return NewText(run[0].Pos, sb.String())
}
