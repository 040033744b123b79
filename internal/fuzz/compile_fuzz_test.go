package fuzztests

import (
	"context"
	"testing"
	"time"

	"tonnikala/internal/driver"
	"tonnikala/internal/ir"
	"tonnikala/internal/irgen"
	"tonnikala/internal/source"
	"tonnikala/internal/testkit"
)

// compileTimeout bounds a single compilation; exceeding it points at a loop.
const compileTimeout = 5 * time.Second

func FuzzCompile(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		type outcome struct {
			res *driver.Result
		}
		done := make(chan outcome, 1)
		go func() {
			res, _ := driver.CompileString(context.Background(), source.NewFileSet(), "fuzz.tk", string(input), //nolint:errcheck
				driver.Options{Gen: irgen.DefaultOptions()})
			done <- outcome{res: res}
		}()

		select {
		case out := <-done:
			if !out.res.OK() {
				return
			}
			if err := testkit.CheckTreeInvariants(out.res.Root, out.res.File); err != nil {
				t.Fatalf("invariants: %v\ninput: %q", err, input)
			}
			// merge is idempotent on compiled trees
			before := ir.Sprint(out.res.Root)
			ir.MergeText(out.res.Root)
			if after := ir.Sprint(out.res.Root); after != before {
				t.Fatalf("MergeText not idempotent:\n%s\n%s", before, after)
			}
		case <-time.After(compileTimeout):
			t.Fatalf("compile timed out after %v on %d bytes", compileTimeout, len(input))
		}
	})
}
