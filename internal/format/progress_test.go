package format

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestProgressStateAverage(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(4)
	ps.Update(0, 1)
	ps.Update(1, 0.5)
	ps.Update(2, 2)  // clamped to 1
	ps.Update(3, -1) // clamped to 0
	ps.Update(9, 1)  // ignored
	ps.Update(-1, 1) // ignored
	if got := ps.CalculateAverage(); got != 0.625 {
		t.Errorf("average = %v, want 0.625", got)
	}

	if got := NewProgressState(-2).CalculateAverage(); got != 0 {
		t.Errorf("empty state average = %v, want 0", got)
	}
}

func TestProgressStateConcurrentUpdates(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(8)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for step := 1; step <= 10; step++ {
				ps.Update(i, float64(step)/10)
			}
		}()
	}
	wg.Wait()
	if got := ps.CalculateAverage(); got != 1 {
		t.Errorf("average after all tasks finish = %v, want 1", got)
	}
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)
	if eta := p.GetETA(); eta != 0 {
		t.Fatalf("ETA before any rate = %v, want 0", eta)
	}

	// Pretend the first update arrives one second after start.
	p.lastUpdate = p.lastUpdate.Add(-time.Second)
	avg, eta := p.UpdateWithETA(0, 1)
	if avg != 0.5 {
		t.Errorf("average = %v, want 0.5", avg)
	}
	if eta <= 0 || eta > 2*time.Second {
		t.Errorf("ETA = %v, want about 1s", eta)
	}

	if _, eta := p.UpdateWithETA(1, 1); eta != 0 {
		t.Errorf("ETA when complete = %v, want 0", eta)
	}
}

func TestProgressWithETACapsEstimate(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	p.Update(0, 0.01)
	p.progressRate = 1e-9
	if eta := p.GetETA(); eta != maxETA {
		t.Errorf("ETA = %v, want cap %v", eta, maxETA)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	cases := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░░░░░"},
		{0.25, "██░░░░░░"},
		{0.99, "███████░"},
		{1, "████████"},
		{3, "████████"},
		{-3, "░░░░░░░░"},
	}
	for _, c := range cases {
		if got := ProgressBar(c.progress, 8); got != c.want {
			t.Errorf("ProgressBar(%v, 8) = %q, want %q", c.progress, got, c.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.5, 90*time.Second, 4)
	if want := "[██░░]  50.0% ETA: 1m30s"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	done := FormatProgressBarWithETA(1.2, time.Hour, 4)
	if !strings.HasSuffix(done, "100.0% ETA: done") {
		t.Errorf("completed bar = %q", done)
	}
}
