package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tonnikala/internal/ir"
	"tonnikala/internal/source"
)

var p0 source.LineCol

func visibleKinds(n *ir.Node) []ir.Kind {
	var kinds []ir.Kind
	ir.Walk(n, func(c *ir.Node) bool {
		if c.Kind.IsOutput() {
			kinds = append(kinds, c.Kind)
		}
		return true
	})
	return kinds
}

func sampleTree() *ir.Node {
	root := ir.NewRoot()
	div := ir.NewElement(p0, "div", "")
	root.Append(div)

	blank := ir.NewWith(p0, "  ")
	blank.AppendAll(ir.NewText(p0, "a"), ir.NewText(p0, "b"))
	div.Append(blank)
	div.Append(ir.NewText(p0, "c"))

	emptyIf := ir.NewIf(p0, "cond")
	div.Append(emptyIf)

	with := ir.NewWith(p0, "x = 1")
	with.Append(ir.NewExpression(p0, "x"))
	div.Append(with)

	div.Append(ir.NewEscapedText(p0, "<br/>"))
	div.Append(ir.NewText(p0, "<&>"))
	div.Append(ir.NewDefine(p0, "empty()"))
	return root
}

func TestFlatten(t *testing.T) {
	root := sampleTree()
	before := visibleKinds(root)

	ir.Flatten(root)

	want := `Root{Element(div){Text("a"); Text("b"); Text("c"); With(x = 1){Expression(x)}; EscapedText("<br/>"); Text("<&>"); Define(empty())}}`
	if got := ir.Sprint(root); got != want {
		t.Errorf("Flatten:\n got %s\nwant %s", got, want)
	}
	if diff := cmp.Diff(before, visibleKinds(root)); diff != "" {
		t.Errorf("visible kinds changed (-before +after):\n%s", diff)
	}
}

func TestMergeText(t *testing.T) {
	root := ir.Flatten(sampleTree())
	ir.MergeText(root)

	want := `Root{Element(div){Text("abc"); With(x = 1){Expression(x)}; EscapedText("<br/>&lt;&amp;&gt;"); Define(empty())}}`
	if got := ir.Sprint(root); got != want {
		t.Errorf("MergeText:\n got %s\nwant %s", got, want)
	}
}

func TestMergeTextIdempotent(t *testing.T) {
	once := ir.MergeText(ir.Flatten(sampleTree()))
	first := ir.Sprint(once)
	second := ir.Sprint(ir.MergeText(once))
	if first != second {
		t.Errorf("MergeText is not idempotent:\n once  %s\n twice %s", first, second)
	}
}

func TestMergeTextKeepsTranslatableApart(t *testing.T) {
	root := ir.NewRoot()
	root.AppendAll(
		ir.NewText(p0, " "),
		ir.NewTranslatableText(p0, "Hello"),
		ir.NewText(p0, " "),
		ir.NewText(p0, "\n"),
		ir.NewExpression(p0, "name"),
		ir.NewText(p0, "!"),
	)
	ir.MergeText(root)

	want := `Root{Text(" "); Text("Hello" translatable); Text(" \n"); Expression(name); Text("!")}`
	if got := ir.Sprint(root); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestMergeTextDoesNotCrossElements(t *testing.T) {
	root := ir.NewRoot()
	span := ir.NewElement(p0, "span", "")
	span.AppendAll(ir.NewText(p0, "in"), ir.NewText(p0, "side"))
	root.AppendAll(ir.NewText(p0, "a"), span, ir.NewText(p0, "b"))
	ir.MergeText(root)

	want := `Root{Text("a"); Element(span){Text("inside")}; Text("b")}`
	if got := ir.Sprint(root); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}
