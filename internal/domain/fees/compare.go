package fees

import (
	"fmt"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// AttorneyComparison is one row of the billed-vs-benchmark breakdown.
type AttorneyComparison struct {
	AttorneyName       string  `json:"attorney_name"`
	Hours              float64 `json:"hours"`
	BilledRate         float64 `json:"billed_rate"`
	BenchmarkRate      float64 `json:"benchmark_rate"`
	BilledTotal        float64 `json:"billed_total"`
	BenchmarkTotal     float64 `json:"benchmark_total"`
	AtOrBelowBenchmark bool    `json:"at_or_below_benchmark"`
}

// Comparison is the calculator's output: totals, their signed difference,
// and a per-attorney breakdown in first-appearance order.
type Comparison struct {
	Attorneys      []AttorneyComparison `json:"attorneys"`
	TotalBilled    float64              `json:"total_billed"`
	TotalBenchmark float64              `json:"total_benchmark"`
	// Difference is benchmark minus billed; positive means billed under benchmark.
	Difference float64 `json:"difference"`
	// AtOrBelowBenchmark is non-strict: billing exactly at benchmark counts.
	AtOrBelowBenchmark bool `json:"at_or_below_benchmark"`
}

// Compare resolves each aggregate's benchmark rate and produces billed and
// benchmark totals per attorney and overall. Paralegal aggregates benchmark
// at the schedule's paraprofessional rate.
//
// If any attorney's rate resolution fails the whole comparison fails: an
// incomplete comparison is worse than an explicit error in a filing.
//
// An empty aggregate list yields a valid zero-totals comparison with
// AtOrBelowBenchmark true, so callers need not special-case "no billing yet".
func Compare(aggregates []Aggregate, schedule model.RateSchedule) (Comparison, error) {
	result := Comparison{
		Attorneys: make([]AttorneyComparison, 0, len(aggregates)),
	}

	for _, agg := range aggregates {
		var (
			benchmark float64
			err       error
		)
		if agg.IsParalegal {
			benchmark, err = ParalegalRate(schedule)
		} else {
			benchmark, err = BenchmarkRate(agg.YearsExperience, schedule)
		}
		if err != nil {
			return Comparison{}, fmt.Errorf("resolving benchmark for %q: %w", agg.AttorneyName, err)
		}

		billedTotal := agg.Hours * agg.BlendedRate
		benchmarkTotal := agg.Hours * benchmark
		result.Attorneys = append(result.Attorneys, AttorneyComparison{
			AttorneyName:       agg.AttorneyName,
			Hours:              agg.Hours,
			BilledRate:         agg.BlendedRate,
			BenchmarkRate:      benchmark,
			BilledTotal:        billedTotal,
			BenchmarkTotal:     benchmarkTotal,
			AtOrBelowBenchmark: billedTotal <= benchmarkTotal,
		})
		result.TotalBilled += billedTotal
		result.TotalBenchmark += benchmarkTotal
	}

	result.Difference = result.TotalBenchmark - result.TotalBilled
	result.AtOrBelowBenchmark = result.TotalBilled <= result.TotalBenchmark
	return result, nil
}

// CompareEntries is the single-call form: aggregate raw entries against the
// roster, then compare against the schedule.
func CompareEntries(entries []model.TimeEntry, roster []model.Attorney, schedule model.RateSchedule, opts ...Option) (Comparison, error) {
	aggregates, err := AggregateEntries(entries, roster, opts...)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(aggregates, schedule)
}
