package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	s := Summarize(values)

	if math.Abs(s.Mean-5.5) > 1e-12 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	if s.P10 != 1 || s.P50 != 5 || s.P90 != 9 {
		t.Errorf("quantiles = %v / %v / %v, want 1 / 5 / 9", s.P10, s.P50, s.P90)
	}
	if values[0] != 10 {
		t.Error("Summarize reordered its input")
	}
}

func TestSummarize_Single(t *testing.T) {
	s := Summarize([]float64{4.5})
	if s != (Summary{4.5, 4.5, 4.5, 4.5}) {
		t.Errorf("summary = %+v", s)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("empty summary = %+v", s)
	}
}
