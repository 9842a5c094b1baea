package fees

import (
	"fmt"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// DefaultYearsExperience is assumed when neither the entry nor the roster
// carries a value for an attorney.
const DefaultYearsExperience = 5

// Aggregate holds one attorney's accumulated hours and hours-weighted
// blended rate. It lives only for the duration of one calculation.
type Aggregate struct {
	AttorneyName    string
	Hours           float64
	BlendedRate     float64
	YearsExperience int
	IsParalegal     bool
}

// Option applies a configuration option to an aggregation run.
type Option func(*aggregator)

// WithDefaultExperience overrides the assumed years of experience for
// attorneys absent from both the entries and the roster.
func WithDefaultExperience(years int) Option {
	return func(a *aggregator) {
		if years >= 0 {
			a.defaultYears = years
		}
	}
}

type aggregator struct {
	defaultYears int
}

// AggregateEntries groups time entries per attorney, accumulating total
// hours and a running hours-weighted blended rate. The returned slice
// preserves first-appearance order so downstream reports stay deterministic.
//
// Years of experience resolve in a fixed precedence: the entry's own value,
// else the roster's exact-name match, else the configured default. The first
// resolved value for an attorney wins for the whole aggregate.
//
// Any entry with negative hours or negative experience fails the whole call
// before any aggregate is produced.
func AggregateEntries(entries []model.TimeEntry, roster []model.Attorney, opts ...Option) ([]Aggregate, error) {
	a := &aggregator{defaultYears: DefaultYearsExperience}
	for _, opt := range opts {
		opt(a)
	}

	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	byName := make(map[string]model.Attorney, len(roster))
	for _, member := range roster {
		byName[member.Name] = member
	}

	index := make(map[string]int, len(entries))
	aggregates := make([]Aggregate, 0, len(entries))
	for _, entry := range entries {
		i, seen := index[entry.AttorneyName]
		if !seen {
			years, paralegal, err := a.resolveExperience(entry, byName)
			if err != nil {
				return nil, err
			}
			index[entry.AttorneyName] = len(aggregates)
			aggregates = append(aggregates, Aggregate{
				AttorneyName:    entry.AttorneyName,
				Hours:           entry.Hours,
				BlendedRate:     entry.BilledRate,
				YearsExperience: years,
				IsParalegal:     paralegal,
			})
			continue
		}

		agg := &aggregates[i]
		// A zero-hours entry must not perturb the blend or divide by zero.
		if combined := agg.Hours + entry.Hours; combined > 0 {
			agg.BlendedRate = (agg.BlendedRate*agg.Hours + entry.BilledRate*entry.Hours) / combined
			agg.Hours = combined
		}
	}
	return aggregates, nil
}

// validateEntries rejects the whole input before any aggregation output so
// callers never observe partial totals.
func validateEntries(entries []model.TimeEntry) error {
	for _, entry := range entries {
		switch {
		case entry.AttorneyName == "":
			return fmt.Errorf("%w: time entry with empty attorney name", ErrInvalidInput)
		case entry.Hours < 0:
			return fmt.Errorf("%w: attorney %q has %0.2f hours", ErrInvalidInput, entry.AttorneyName, entry.Hours)
		case entry.BilledRate < 0:
			return fmt.Errorf("%w: attorney %q has negative billed rate", ErrInvalidInput, entry.AttorneyName)
		case entry.YearsExperience != nil && *entry.YearsExperience < 0:
			return fmt.Errorf("%w: attorney %q has negative years of experience", ErrInvalidInput, entry.AttorneyName)
		}
	}
	return nil
}

// resolveExperience applies the entry -> roster -> default precedence.
func (a *aggregator) resolveExperience(entry model.TimeEntry, roster map[string]model.Attorney) (years int, paralegal bool, err error) {
	member, onRoster := roster[entry.AttorneyName]
	if onRoster {
		if member.YearsExperience < 0 {
			return 0, false, fmt.Errorf("%w: roster member %q has negative years of experience", ErrInvalidInput, member.Name)
		}
		paralegal = member.IsParalegal
	}

	switch {
	case entry.YearsExperience != nil:
		years = *entry.YearsExperience
	case onRoster:
		years = member.YearsExperience
	default:
		years = a.defaultYears
	}
	return years, paralegal, nil
}
