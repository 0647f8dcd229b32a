package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	timer := NewTimer()
	load := timer.Begin("load")
	timer.End(load, "3 files")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(report.Phases))
	}
	if p := report.Phases[0]; p.Name != "load" || p.Note != "3 files" || p.Count != 1 {
		t.Fatalf("phase = %+v", p)
	}
}

func TestTimerAddAggregates(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Add("bind", time.Millisecond)
		}()
	}
	wg.Wait()

	phases := timer.Phases()
	if len(phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(phases))
	}
	if phases[0].Count != 8 || phases[0].Dur != 8*time.Millisecond {
		t.Fatalf("bind phase = %+v", phases[0])
	}
	if got := timer.Report().TotalMS; got != 8 {
		t.Fatalf("total = %v ms, want 8", got)
	}
}

func TestTimerMeasure(t *testing.T) {
	timer := NewTimer()
	boom := errors.New("boom")
	if err := timer.Measure("report", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure returned %v", err)
	}
	if len(timer.Phases()) != 1 {
		t.Fatalf("phase not recorded")
	}
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	timer.Add("bind", 2*time.Millisecond)
	timer.Add("bind", 2*time.Millisecond)
	idx := timer.Begin("report")
	timer.End(idx, "pretty")

	out := timer.Summary()
	for _, want := range []string{"timings:\n", "bind", "4.000 ms  x2", "(pretty)", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
	if (&Timer{}).Report().Phases != nil {
		t.Fatalf("empty timer has phases")
	}
}
