// Package fees implements the Laffey Matrix fee-reasonableness calculation:
// tier resolution, per-attorney aggregation of billed time, billed-vs-benchmark
// comparison, and assembly of the report structures embedded in filings.
//
// Every function in this package is pure: no I/O, no retained state, safe for
// concurrent use. Inputs are value objects owned by the caller.
package fees

import (
	"fmt"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// Tier is an experience-based bucket used to select a benchmark rate.
type Tier string

// Experience tiers, youngest to most senior.
const (
	TierJunior    Tier = "junior"
	TierMid       Tier = "mid"
	TierSenior    Tier = "senior"
	TierPrincipal Tier = "principal"
	TierVeteran   Tier = "veteran"
)

// Inclusive upper bounds of each tier, applied in ascending order.
const (
	juniorMaxYears    = 3
	midMaxYears       = 7
	seniorMaxYears    = 10
	principalMaxYears = 19
)

// ResolveTier maps years of experience to a tier. Negative experience is
// rejected rather than clamped.
func ResolveTier(yearsExperience int) (Tier, error) {
	if yearsExperience < 0 {
		return "", fmt.Errorf("%w: years of experience %d is negative", ErrInvalidInput, yearsExperience)
	}
	switch {
	case yearsExperience <= juniorMaxYears:
		return TierJunior, nil
	case yearsExperience <= midMaxYears:
		return TierMid, nil
	case yearsExperience <= seniorMaxYears:
		return TierSenior, nil
	case yearsExperience <= principalMaxYears:
		return TierPrincipal, nil
	default:
		return TierVeteran, nil
	}
}

// BenchmarkRate resolves the benchmark hourly rate for the given experience
// from the supplied schedule. A missing rate for the resolved tier returns
// ErrIncompleteSchedule; there is no silent default.
func BenchmarkRate(yearsExperience int, schedule model.RateSchedule) (float64, error) {
	tier, err := ResolveTier(yearsExperience)
	if err != nil {
		return 0, err
	}

	var rate *float64
	switch tier {
	case TierJunior:
		rate = schedule.Tier1to3Rate
	case TierMid:
		rate = schedule.Tier4to7Rate
	case TierSenior:
		rate = schedule.Tier8to10Rate
	case TierPrincipal:
		rate = schedule.Tier11to19Rate
	case TierVeteran:
		rate = schedule.Tier20PlusRate
	}
	if rate == nil {
		return 0, fmt.Errorf("%w: no rate for tier %q", ErrIncompleteSchedule, tier)
	}
	if *rate < 0 {
		return 0, fmt.Errorf("%w: rate for tier %q is negative", ErrInvalidInput, tier)
	}
	return *rate, nil
}

// ParalegalRate returns the schedule's paraprofessional rate, which applies
// regardless of years of experience.
func ParalegalRate(schedule model.RateSchedule) (float64, error) {
	if schedule.ParalegalRate == nil {
		return 0, fmt.Errorf("%w: no paralegal rate", ErrIncompleteSchedule)
	}
	if *schedule.ParalegalRate < 0 {
		return 0, fmt.Errorf("%w: paralegal rate is negative", ErrInvalidInput)
	}
	return *schedule.ParalegalRate, nil
}
