package fees_test

import (
	"errors"
	"testing"

	"github.com/trialworks/lemonaid/internal/domain/fees"
	"github.com/trialworks/lemonaid/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given one attorney with blended billing below the benchmark", t, func() {
		// 10h @ 500 + 5h @ 600 blends to 533.33 over 15h; benchmark 585.
		entries := []model.TimeEntry{
			{AttorneyName: "A", Hours: 10, BilledRate: 500, YearsExperience: years(9)},
			{AttorneyName: "A", Hours: 5, BilledRate: 600, YearsExperience: years(9)},
		}
		schedule := fullSchedule()

		Convey("When comparing against the schedule", func() {
			result, err := fees.CompareEntries(entries, nil, schedule)

			Convey("Then the documented scenario numbers hold", func() {
				So(err, ShouldBeNil)
				So(result.Attorneys, ShouldHaveLength, 1)
				att := result.Attorneys[0]
				So(att.Hours, ShouldEqual, 15)
				So(att.BilledRate, ShouldAlmostEqual, (10*500+5*600)/15.0, 1e-6)
				So(att.BilledTotal, ShouldAlmostEqual, 8000, 1e-6)
				So(att.BenchmarkTotal, ShouldAlmostEqual, 8775, 1e-6)
				So(result.TotalBilled, ShouldAlmostEqual, 8000, 1e-6)
				So(result.TotalBenchmark, ShouldAlmostEqual, 8775, 1e-6)
				So(result.Difference, ShouldAlmostEqual, 775, 1e-6)
				So(result.AtOrBelowBenchmark, ShouldBeTrue)
			})

			Convey("And totalBilled equals the direct sum over raw entries", func() {
				So(err, ShouldBeNil)
				var direct float64
				for _, e := range entries {
					direct += e.Hours * e.BilledRate
				}
				So(result.TotalBilled, ShouldAlmostEqual, direct, 1e-6)
			})

			Convey("And the difference identity holds exactly", func() {
				So(err, ShouldBeNil)
				So(result.Difference, ShouldAlmostEqual, result.TotalBenchmark-result.TotalBilled, 1e-6)
			})
		})
	})

	Convey("Given attorneys billing exactly at their tier benchmarks", t, func() {
		schedule := fullSchedule()
		entries := []model.TimeEntry{
			{AttorneyName: "Junior", Hours: 10, BilledRate: *schedule.Tier1to3Rate, YearsExperience: years(3)},
			{AttorneyName: "Veteran", Hours: 10, BilledRate: *schedule.Tier20PlusRate, YearsExperience: years(22)},
		}

		Convey("When comparing", func() {
			result, err := fees.CompareEntries(entries, nil, schedule)

			Convey("Then equality counts as at-or-below with zero difference", func() {
				So(err, ShouldBeNil)
				So(result.Difference, ShouldAlmostEqual, 0, 1e-6)
				So(result.AtOrBelowBenchmark, ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty aggregate list", t, func() {
		result, err := fees.Compare(nil, fullSchedule())

		Convey("Then the comparison is valid with zero totals", func() {
			So(err, ShouldBeNil)
			So(result.TotalBilled, ShouldEqual, 0)
			So(result.TotalBenchmark, ShouldEqual, 0)
			So(result.Difference, ShouldEqual, 0)
			So(result.AtOrBelowBenchmark, ShouldBeTrue)
			So(result.Attorneys, ShouldBeEmpty)
		})
	})

	Convey("Given a schedule missing one attorney's tier", t, func() {
		schedule := fullSchedule()
		schedule.Tier11to19Rate = nil
		aggregates := []fees.Aggregate{
			{AttorneyName: "Vance", Hours: 10, BlendedRate: 500, YearsExperience: 9},
			{AttorneyName: "Okafor", Hours: 4, BlendedRate: 700, YearsExperience: 12},
		}

		Convey("When comparing", func() {
			result, err := fees.Compare(aggregates, schedule)

			Convey("Then the whole comparison fails rather than omitting the attorney", func() {
				So(errors.Is(err, fees.ErrIncompleteSchedule), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Okafor")
				So(result.Attorneys, ShouldBeEmpty)
				So(result.TotalBilled, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a paralegal timekeeper", t, func() {
		schedule := fullSchedule()
		aggregates := []fees.Aggregate{
			{AttorneyName: "Reyes", Hours: 8, BlendedRate: 150, YearsExperience: 2, IsParalegal: true},
		}

		Convey("When comparing", func() {
			result, err := fees.Compare(aggregates, schedule)

			Convey("Then the paralegal rate applies instead of the experience tier", func() {
				So(err, ShouldBeNil)
				So(result.Attorneys[0].BenchmarkRate, ShouldEqual, *schedule.ParalegalRate)
			})
		})
	})

	Convey("Given one attorney over benchmark and one far enough under", t, func() {
		schedule := fullSchedule()
		aggregates := []fees.Aggregate{
			{AttorneyName: "Over", Hours: 10, BlendedRate: 600, YearsExperience: 9},  // 585 benchmark
			{AttorneyName: "Under", Hours: 10, BlendedRate: 400, YearsExperience: 9}, // 585 benchmark
		}

		Convey("When comparing", func() {
			result, err := fees.Compare(aggregates, schedule)

			Convey("Then per-attorney flags diverge while the aggregate nets out favorably", func() {
				So(err, ShouldBeNil)
				So(result.Attorneys[0].AtOrBelowBenchmark, ShouldBeFalse)
				So(result.Attorneys[1].AtOrBelowBenchmark, ShouldBeTrue)
				So(result.AtOrBelowBenchmark, ShouldBeTrue)
			})
		})
	})
}
