package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// YearStats holds aggregated statistics for one simulated year.
type YearStats struct {
	Year int `csv:"year"`

	// Population counts at year end
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`

	// Events during the year
	HerbBirths     int `csv:"herb_births"`
	CarnBirths     int `csv:"carn_births"`
	HerbDeaths     int `csv:"herb_deaths"`
	CarnDeaths     int `csv:"carn_deaths"`
	Kills          int `csv:"kills"`
	HerbMigrations int `csv:"herb_migrations"`
	CarnMigrations int `csv:"carn_migrations"`

	// Weight distribution (sampled at year end)
	HerbWeightMean float64 `csv:"herb_weight_mean"`
	HerbWeightP10  float64 `csv:"herb_weight_p10"`
	HerbWeightP50  float64 `csv:"herb_weight_p50"`
	HerbWeightP90  float64 `csv:"herb_weight_p90"`

	CarnWeightMean float64 `csv:"carn_weight_mean"`
	CarnWeightP10  float64 `csv:"carn_weight_p10"`
	CarnWeightP50  float64 `csv:"carn_weight_p50"`
	CarnWeightP90  float64 `csv:"carn_weight_p90"`

	// Fitness distribution
	HerbFitnessMean float64 `csv:"herb_fitness_mean"`
	HerbFitnessP10  float64 `csv:"herb_fitness_p10"`
	HerbFitnessP50  float64 `csv:"herb_fitness_p50"`
	HerbFitnessP90  float64 `csv:"herb_fitness_p90"`

	CarnFitnessMean float64 `csv:"carn_fitness_mean"`
	CarnFitnessP10  float64 `csv:"carn_fitness_p10"`
	CarnFitnessP50  float64 `csv:"carn_fitness_p50"`
	CarnFitnessP90  float64 `csv:"carn_fitness_p90"`

	HerbAgeMean float64 `csv:"herb_age_mean"`
	CarnAgeMean float64 `csv:"carn_age_mean"`

	// Occupancy
	OccupiedCells int `csv:"occupied_cells"`
}

// Summary is the mean and three quantiles of a sample.
type Summary struct {
	Mean, P10, P50, P90 float64
}

// Summarize computes the mean and the 10th/50th/90th percentiles.
// Returns a zero Summary for an empty sample. values is not modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s YearStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("year", s.Year),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("herb_births", s.HerbBirths),
		slog.Int("carn_births", s.CarnBirths),
		slog.Int("herb_deaths", s.HerbDeaths),
		slog.Int("carn_deaths", s.CarnDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("herb_migrations", s.HerbMigrations),
		slog.Int("carn_migrations", s.CarnMigrations),
		slog.Float64("herb_weight_mean", s.HerbWeightMean),
		slog.Float64("carn_weight_mean", s.CarnWeightMean),
		slog.Float64("herb_fitness_mean", s.HerbFitnessMean),
		slog.Float64("carn_fitness_mean", s.CarnFitnessMean),
		slog.Float64("herb_age_mean", s.HerbAgeMean),
		slog.Float64("carn_age_mean", s.CarnAgeMean),
		slog.Int("occupied_cells", s.OccupiedCells),
	)
}

// LogStats logs the year stats using slog.
func (s YearStats) LogStats() {
	slog.Info("stats",
		"year", s.Year,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"herb_births", s.HerbBirths,
		"carn_births", s.CarnBirths,
		"herb_deaths", s.HerbDeaths,
		"carn_deaths", s.CarnDeaths,
		"kills", s.Kills,
		"herb_migrations", s.HerbMigrations,
		"carn_migrations", s.CarnMigrations,
		"herb_weight_p50", s.HerbWeightP50,
		"carn_weight_p50", s.CarnWeightP50,
		"herb_fitness_p50", s.HerbFitnessP50,
		"carn_fitness_p50", s.CarnFitnessP50,
		"occupied_cells", s.OccupiedCells,
	)
}
