package fuzztests

import (
	"strings"
	"testing"

	"tonnikala/internal/expr"
	"tonnikala/internal/ir"
	"tonnikala/internal/markup"
	"tonnikala/internal/source"
)

func FuzzMarkupParse(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.tk", clamp(input, maxFuzzInput))
		_, _ = markup.Parse(fs.Get(id)) //nolint:errcheck
	})
}

// FuzzExprScan checks that scanning never loses text: literal and
// expression fragments cover the input in order.
func FuzzExprScan(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add(s, false, true)
	}
	f.Fuzz(func(t *testing.T, text string, cdata, translatable bool) {
		if len(text) > maxFuzzInput {
			text = text[:maxFuzzInput]
		}
		nodes := expr.Scan(source.LineCol{Line: 1, Col: 1}, text, expr.Options{CDATA: cdata, Translatable: translatable})
		if text != "" && len(nodes) == 0 {
			t.Fatalf("no fragments for %q", text)
		}
		for _, n := range nodes {
			switch n.Kind {
			case ir.KindText, ir.KindEscapedText, ir.KindExpression:
			default:
				t.Fatalf("unexpected fragment kind %s", n.Kind)
			}
			if cdata && n.Kind == ir.KindText {
				t.Fatalf("cdata scan produced Text %q", n.Text())
			}
			if n.Kind != ir.KindExpression && !strings.Contains(strings.ReplaceAll(text, "$$", "$"), n.Text()) {
				t.Fatalf("literal %q not found in input %q", n.Text(), text)
			}
		}
	})
}
