package telemetry

import (
	"testing"

	"github.com/pthm-cable/biosim/config"
)

func TestBin(t *testing.T) {
	edges, counts := Bin([]float64{0, 0.5, 1, 1.5, 3.9, 4, -1}, config.HistSpec{Max: 4, Delta: 1})
	if len(edges) != 5 || edges[0] != 0 || edges[4] != 4 {
		t.Fatalf("edges = %v", edges)
	}
	want := []float64{2, 2, 0, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("bin %d = %v, want %v", i, counts[i], want[i])
		}
	}
}

func TestBin_LastEdgeBelowMax(t *testing.T) {
	spec := config.HistSpec{Max: 0.9, Delta: 0.3}
	edge := 3 * spec.Delta // rounds to just below 0.9
	edges, counts := Bin([]float64{0.1, 0.4, edge, 0.89}, spec)

	if len(counts) != 3 {
		t.Fatalf("counts = %v, want 3 bins", counts)
	}
	var total float64
	for _, c := range counts {
		total += c
	}
	want := 0.0
	for _, v := range []float64{0.1, 0.4, edge, 0.89} {
		if v < edges[len(edges)-1] {
			want++
		}
	}
	if total != want {
		t.Errorf("binned %v values, want %v (edges %v)", total, want, edges)
	}
}

func TestBin_Empty(t *testing.T) {
	_, counts := Bin(nil, config.HistSpec{Max: 1, Delta: 0.25})
	for _, c := range counts {
		if c != 0 {
			t.Fatalf("counts = %v", counts)
		}
	}
}

func TestHistograms(t *testing.T) {
	specs := map[string]config.HistSpec{
		"age":    {Max: 8, Delta: 2},
		"weight": {Max: 32, Delta: 8},
	}
	rows := Histograms(3, testIsland(t).Census(), specs)

	// 4 bins x 2 species x 2 attributes
	if len(rows) != 16 {
		t.Fatalf("rows = %d, want 16", len(rows))
	}
	total := map[string]int{}
	for _, r := range rows {
		if r.Year != 3 {
			t.Errorf("row year = %d", r.Year)
		}
		total[r.Species+"/"+r.Attribute] += r.Count
	}
	if total["Herbivore/age"] != 2 || total["Carnivore/weight"] != 1 {
		t.Errorf("totals = %v", total)
	}
	if rows[0].Attribute != "age" {
		t.Errorf("first attribute = %s, want age", rows[0].Attribute)
	}
}
