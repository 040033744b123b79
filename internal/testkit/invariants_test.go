package testkit

import (
	"strings"
	"testing"

	"tonnikala/internal/ir"
	"tonnikala/internal/source"
)

func TestCheckTreeInvariants(t *testing.T) {
	at := func(line uint32) source.LineCol { return source.LineCol{Line: line, Col: 1} }

	good := ir.NewRoot()
	el := ir.NewElement(at(1), "p", "")
	el.Append(ir.NewText(at(2), "hi"))
	good.Append(el)
	if err := CheckTreeInvariants(good, nil); err != nil {
		t.Fatalf("good tree: %v", err)
	}

	shared := ir.NewText(at(1), "x")
	twice := ir.NewRoot()
	twice.AppendAll(shared, shared)

	nested := ir.NewRoot()
	nested.Append(ir.NewRoot())

	forged := ir.NewRoot()
	forged.Append(&ir.Node{Kind: ir.KindText, Data: &ir.ElementData{Tag: "p"}})

	far := ir.NewRoot()
	far.Append(ir.NewText(at(9), "x"))
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("one.tk", []byte("line1\nline2")))

	tests := []struct {
		name string
		root *ir.Node
		file *source.File
		want string
	}{
		{"nil", nil, nil, "nil root"},
		{"not root", ir.NewText(at(1), "x"), nil, "want Root"},
		{"shared child", twice, nil, "more than one parent"},
		{"nested root", nested, nil, "nested Root"},
		{"element data", forged, nil, "element data mismatch"},
		{"position", far, sf, "beyond last line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTreeInvariants(tt.root, tt.file)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
