package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeTemplate, false},
		{LevelDetail, ScopeTemplate, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, nil, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopeDriver, "compile")
	inner := Begin(FromContext(ctx), ScopePass, "parse", CurrentSpan(ctx).ID())
	Point(WithSpanContext(ctx, inner), ScopeNode, "element", "div")
	inner.End("")
	outer.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d events, want 5:\n%s", len(lines), buf.String())
	}
	var point jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &point); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if point.Kind != "point" || point.ParentID != inner.ID() || point.Detail != "div" {
		t.Errorf("unexpected point event %+v", point)
	}
	var last jsonEvent
	if err := json.Unmarshal([]byte(lines[4]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if last.Kind != "end" || last.Name != "compile" || last.Extra["duration"] == "" {
		t.Errorf("unexpected end event %+v", last)
	}
}

func TestDisabledTracerReturnsNilSpan(t *testing.T) {
	ctx, s := Start(context.Background(), ScopeDriver, "x")
	if s != nil {
		t.Fatal("expected nil span with Nop tracer")
	}
	s.WithExtra("k", "v").End("") // nil-safe
	if CurrentSpan(ctx) != nil {
		t.Fatal("context should carry no span")
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := 1; i <= 5; i++ {
		r.Emit(&Event{Seq: uint64(i), Kind: KindPoint, Scope: ScopeNode})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Seq != 3 || snap[2].Seq != 5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("LevelOff tracer must be disabled")
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil {
		t.Fatalf("ModeBoth should produce a MultiTracer with ring, got %T", tr)
	}
}
