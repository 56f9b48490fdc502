package main

import (
	"context"
	"math"
	"testing"

	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/telemetry"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name(), raw[i], back[i])
		}
	}
}

func TestParamVector_DefaultsWithinBounds(t *testing.T) {
	for _, s := range NewParamVector().Specs {
		if s.Default < s.Min || s.Default > s.Max {
			t.Errorf("%s default %v outside [%v, %v]", s.Name(), s.Default, s.Min, s.Max)
		}
	}
}

func TestParamVector_Clamp(t *testing.T) {
	pv := NewParamVector()
	v := make([]float64, pv.Dim())
	for i := range v {
		v[i] = -1e9
	}
	v[0] = 1e9
	c := pv.Clamp(v)
	if c[0] != pv.Specs[0].Max || c[1] != pv.Specs[1].Min {
		t.Errorf("clamp = %v", c[:2])
	}
}

func TestParamVector_Overrides(t *testing.T) {
	pv := NewParamVector()
	animal, landscape := pv.Overrides(pv.DefaultVector())
	if len(animal)+len(landscape) != pv.Dim() {
		t.Fatalf("got %d overrides for %d params", len(animal)+len(landscape), pv.Dim())
	}
	if len(landscape) != 1 || landscape[0].Target != "lowland" {
		t.Errorf("landscape overrides = %+v", landscape)
	}
}

func TestParamVector_ApplyToConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	v := pv.DefaultVector()
	for i, s := range pv.Specs {
		if s.Name() == "carnivore.F" {
			v[i] = 70
		}
	}
	if err := pv.ApplyToConfig(cfg, v); err != nil {
		t.Fatal(err)
	}
	if cfg.Species.Carnivore.F != 70 {
		t.Errorf("carnivore F = %v", cfg.Species.Carnivore.F)
	}
	if cfg.Landscape.Lowland.MaxFood != 700 {
		t.Errorf("lowland f_max = %v", cfg.Landscape.Lowland.MaxFood)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.YearStats, 30)
	for i := range steady {
		steady[i] = telemetry.YearStats{Year: i + 1, Herbivores: 200, Carnivores: 20}
	}
	if q := computeQuality(steady); math.Abs(q-1) > 1e-12 {
		t.Errorf("steady quality = %v, want 1", q)
	}
	if q := computeQuality(steady[:5]); q != 0 {
		t.Errorf("short series quality = %v, want 0", q)
	}

	swinging := make([]telemetry.YearStats, 30)
	for i := range swinging {
		h := 50
		if i%2 == 0 {
			h = 400
		}
		swinging[i] = telemetry.YearStats{Year: i + 1, Herbivores: h, Carnivores: 20}
	}
	if q := computeQuality(swinging); q >= 1 || q <= 0 {
		t.Errorf("swinging quality = %v, want in (0, 1)", q)
	}
}

func TestEvaluate_ShortRun(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 5, []uint64{1, 2}, cfg)
	f := fe.Evaluate(context.Background(), pv.DefaultVector())
	if f > 0 || f < -5*(1+stabilityQualityBonus) {
		t.Errorf("fitness = %v, want in [-6, 0]", f)
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 5, []uint64{1}, cfg)
	if f := fe.Evaluate(ctx, pv.DefaultVector()); f != 0 {
		t.Errorf("cancelled fitness = %v, want 0", f)
	}
}
