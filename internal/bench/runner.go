package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"cohortsort/internal/catalog"
	"cohortsort/internal/cohort"
	"cohortsort/internal/person"
)

// Case describes one cohort to benchmark.
type Case struct {
	Name    string
	People  []*person.Person
	Catalog *catalog.AttributeCatalog
	NMin    int
	NMax    int
}

// Record is one row of a benchmark report: the greedy baseline plus
// SA-refined GCS_variance statistics across Runs seeded trials.
type Record struct {
	RunID string
	Case  string
	Rows  int
	Runs  int

	GreedyGCSMean     float64
	GreedyGCSVariance float64

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	SAVarianceBest float64
	SAVarianceMean float64
	SAVarianceStd  float64
}

// Runner drives RunCase.
type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	SAConfig      cohort.SAConfig
}

// RunCase runs r.Runs independent trials: each builds a fresh cohort from
// c, allocates it greedily (the greedy allocator is deterministic, so every
// trial starts from the same partition), and refines it with the SA
// refiner seeded BaseSeed+i. The greedy baseline is taken from the first
// trial; the resulting GCS_variance distribution is summarized.
func (r Runner) RunCase(ctx context.Context, c Case) (Record, error) {
	variances := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)

	var greedyMean, greedyVariance float64

	for i := 0; i < r.Runs; i++ {
		co, err := cohort.New(c.People, c.Catalog, c.NMin, c.NMax)
		if err != nil {
			return Record{}, fmt.Errorf("bench: run %d: building cohort: %w", i, err)
		}
		if err := co.AllocateGreedy(); err != nil {
			return Record{}, fmt.Errorf("bench: run %d: greedy: %w", i, err)
		}
		if i == 0 {
			greedyMean, greedyVariance = co.GCSMean(), co.GCSVariance()
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}

		start := time.Now()
		seed := r.BaseSeed + int64(i)
		err = co.AllocateSA(runCtx, seed, r.SAConfig)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("bench: run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("bench: run %d: sa: %w", i, err)
		}

		variances = append(variances, co.GCSVariance())
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
	}

	vStats := CalcFloatStats(variances)
	tStats := CalcFloatStats(timesMs)

	return Record{
		RunID: uuid.NewString(),
		Case:  c.Name,
		Rows:  len(c.People),
		Runs:  r.Runs,

		GreedyGCSMean:     greedyMean,
		GreedyGCSVariance: greedyVariance,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		SAVarianceBest: vStats.Best,
		SAVarianceMean: vStats.Mean,
		SAVarianceStd:  vStats.Std,
	}, nil
}

// WriteCSV writes records to path, one row per record.
func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"run_id", "case", "rows", "runs",
		"greedy_gcs_mean", "greedy_gcs_variance",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"sa_variance_best", "sa_variance_mean", "sa_variance_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Case,
			itoa(r.Rows),
			itoa(r.Runs),

			ftoa(r.GreedyGCSMean),
			ftoa(r.GreedyGCSVariance),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.SAVarianceBest),
			ftoa(r.SAVarianceMean),
			ftoa(r.SAVarianceStd),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
