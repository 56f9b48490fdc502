package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/systems"
)

// HistogramRow is one bin of one attribute histogram, flattened for CSV.
type HistogramRow struct {
	Year      int     `csv:"year"`
	Species   string  `csv:"species"`
	Attribute string  `csv:"attribute"`
	Low       float64 `csv:"low"`
	High      float64 `csv:"high"`
	Count     int     `csv:"count"`
}

// Bin counts values into equal bins of width spec.Delta covering [0, spec.Max).
// Values outside the range are ignored. Returns the bin edges and counts.
func Bin(values []float64, spec config.HistSpec) (edges []float64, counts []float64) {
	n := int(math.Ceil(spec.Max / spec.Delta))
	if n < 1 {
		n = 1
	}
	edges = make([]float64, n+1)
	floats.Span(edges, 0, float64(n)*spec.Delta)
	counts = make([]float64, n)

	// The last edge can round below spec.Max.
	top := edges[n]
	inRange := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= 0 && v < top {
			inRange = append(inRange, v)
		}
	}
	if len(inRange) == 0 {
		return edges, counts
	}
	sort.Float64s(inRange)
	stat.Histogram(counts, edges, inRange, nil)
	return edges, counts
}

// Histograms bins the census attributes named in specs, per species, in a
// stable order.
func Histograms(year int, cen systems.Census, specs map[string]config.HistSpec) []HistogramRow {
	var rows []HistogramRow
	for _, attr := range config.HistogramAttributes {
		spec, ok := specs[attr]
		if !ok {
			continue
		}
		for _, s := range components.AllSpecies {
			edges, counts := Bin(censusAttribute(cen, s, attr), spec)
			for i, c := range counts {
				rows = append(rows, HistogramRow{
					Year:      year,
					Species:   s.String(),
					Attribute: attr,
					Low:       edges[i],
					High:      edges[i+1],
					Count:     int(c),
				})
			}
		}
	}
	return rows
}

func censusAttribute(cen systems.Census, s components.Species, attr string) []float64 {
	switch attr {
	case "age":
		return cen.Ages[s]
	case "weight":
		return cen.Weights[s]
	default:
		return cen.Fitness[s]
	}
}
