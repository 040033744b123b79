package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAccumulates(t *testing.T) {
	tm := NewTimer()
	now := time.Now()
	tm.Add("parse", now, 2*time.Millisecond)
	tm.Add("generate", now, time.Millisecond)
	tm.Add("parse", now, 3*time.Millisecond)
	tm.Note("generate", "2 templates")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Count != 2 || r.Phases[0].DurationMS != 5 {
		t.Errorf("unexpected parse phase %+v", r.Phases[0])
	}
	if r.TotalMS != 6 {
		t.Errorf("TotalMS = %v, want 6", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.Contains(s, "x2") || !strings.Contains(s, "// 2 templates") {
		t.Errorf("summary missing details:\n%s", s)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Start("merge")()
		}()
	}
	wg.Wait()
	if got := tm.Report().Phases[0].Count; got != 16 {
		t.Fatalf("Count = %d, want 16", got)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Start("x")()
	if len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer should report nothing")
	}
}
