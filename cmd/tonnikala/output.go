package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"tonnikala/internal/driver"
	"tonnikala/internal/ir"
)

type treePayload struct {
	Path string       `json:"path" yaml:"path"`
	Tree *ir.Exported `json:"tree" yaml:"tree"`
}

func validTreeFormat(format string) bool {
	switch format {
	case "pretty", "tree", "json", "yaml":
		return true
	}
	return false
}

// writeTrees prints compiled trees. pretty is the indented dump with
// positions, tree the compact one-line form.
func writeTrees(w io.Writer, format string, results []*driver.Result) error {
	switch format {
	case "json":
		payload := make([]treePayload, len(results))
		for i, r := range results {
			payload[i] = treePayload{Path: r.Path, Tree: ir.Export(r.Root)}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range results {
			if err := enc.Encode(treePayload{Path: r.Path, Tree: ir.Export(r.Root)}); err != nil {
				return err
			}
		}
		return enc.Close()
	case "tree":
		for _, r := range results {
			if _, err := fmt.Fprintf(w, "%s: %s\n", r.Path, ir.Sprint(r.Root)); err != nil {
				return err
			}
		}
		return nil
	default:
		for i, r := range results {
			if len(results) > 1 {
				if i > 0 {
					if _, err := fmt.Fprintln(w); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(w, "== %s ==\n", r.Path); err != nil {
					return err
				}
			}
			if err := ir.Dump(w, r.Root); err != nil {
				return err
			}
		}
		return nil
	}
}
