package observability

import (
	"testing"
)

func TestStageWindowSnapshot(t *testing.T) {
	w := newStageWindow(8)
	for _, ms := range []float64{1, 2, 3, 4} {
		w.Observe("extract", ms)
	}
	w.ObserveIndicator("generation_fallback")
	w.ObserveIndicator("generation_fallback")

	snap := w.Snapshot()
	if len(snap.Stages) != 1 {
		t.Fatalf("stages = %+v", snap.Stages)
	}
	st := snap.Stages[0]
	if st.Stage != "extract" || st.Samples != 4 {
		t.Fatalf("stage stats = %+v", st)
	}
	if st.LastMS != 4 || st.AvgMS != 2.5 {
		t.Fatalf("last/avg = %v/%v", st.LastMS, st.AvgMS)
	}
	if st.P50MS != 2.5 {
		t.Fatalf("p50 = %v", st.P50MS)
	}
	if st.TargetP95MS != 5 {
		t.Fatalf("target = %v", st.TargetP95MS)
	}
	if len(snap.Indicators) != 1 || snap.Indicators[0].Count != 2 {
		t.Fatalf("indicators = %+v", snap.Indicators)
	}
}

func TestStageWindowRingOverwrite(t *testing.T) {
	w := newStageWindow(4)
	for i := 0; i < 10; i++ {
		w.Observe("classify", float64(i))
	}
	snap := w.Snapshot()
	if snap.Stages[0].Samples != 4 {
		t.Fatalf("samples = %d, want ring size 4", snap.Stages[0].Samples)
	}
	if snap.Stages[0].LastMS != 9 {
		t.Fatalf("last = %v, want 9", snap.Stages[0].LastMS)
	}
}

func TestQuantileBounds(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	if got := quantile(sorted, 0); got != 1 {
		t.Errorf("q0 = %v", got)
	}
	if got := quantile(sorted, 1); got != 5 {
		t.Errorf("q1 = %v", got)
	}
	if got := quantile(nil, 0.5); got != 0 {
		t.Errorf("empty = %v", got)
	}
}
