package fees_test

import (
	"testing"

	"github.com/trialworks/lemonaid/internal/domain/fees"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildReport(t *testing.T) {
	Convey("Given a comparison at or below benchmark", t, func() {
		comparison := fees.Comparison{
			Attorneys: []fees.AttorneyComparison{
				{
					AttorneyName:       "Vance",
					Hours:              15,
					BilledRate:         533.3333333333,
					BenchmarkRate:      585,
					BilledTotal:        8000,
					BenchmarkTotal:     8775,
					AtOrBelowBenchmark: true,
				},
			},
			TotalBilled:        8000,
			TotalBenchmark:     8775,
			Difference:         775,
			AtOrBelowBenchmark: true,
		}

		Convey("When building the report", func() {
			report := fees.BuildReport(comparison)

			Convey("Then the header matches the presentation contract", func() {
				So(report.Table.Header, ShouldResemble, []string{
					"Attorney", "Hours", "Billed Rate", "Benchmark Rate", "Billed Total", "Benchmark Total",
				})
			})

			Convey("Then rows format hours to one decimal and currency to two", func() {
				So(report.Table.Rows, ShouldHaveLength, 2)
				So(report.Table.Rows[0], ShouldResemble, []string{
					"Vance", "15.0", "$533.33", "$585.00", "$8000.00", "$8775.00",
				})
			})

			Convey("Then the trailing totals row carries the aggregate amounts", func() {
				totals := report.Table.Rows[len(report.Table.Rows)-1]
				So(totals[0], ShouldEqual, "Total")
				So(totals[1], ShouldEqual, "15.0")
				So(totals[4], ShouldEqual, "$8000.00")
				So(totals[5], ShouldEqual, "$8775.00")
			})

			Convey("Then the narrative states billing is below benchmark by the difference", func() {
				So(report.Sentences, ShouldHaveLength, 2)
				So(report.Sentences[1], ShouldContainSubstring, "at or below the benchmark")
				So(report.Sentences[1], ShouldContainSubstring, "$775.00")
			})
		})
	})

	Convey("Given a comparison over benchmark", t, func() {
		comparison := fees.Comparison{
			Attorneys: []fees.AttorneyComparison{
				{AttorneyName: "Okafor", Hours: 10, BilledRate: 800, BenchmarkRate: 742, BilledTotal: 8000, BenchmarkTotal: 7420},
			},
			TotalBilled:        8000,
			TotalBenchmark:     7420,
			Difference:         -580,
			AtOrBelowBenchmark: false,
		}

		Convey("When building the report", func() {
			report := fees.BuildReport(comparison)

			Convey("Then the narrative uses the market-consistency framing", func() {
				So(report.Sentences[1], ShouldContainSubstring, "consistent with prevailing market rates")
				So(report.Sentences[1], ShouldNotContainSubstring, "below")
			})
		})
	})

	Convey("Given an empty comparison", t, func() {
		report := fees.BuildReport(fees.Comparison{AtOrBelowBenchmark: true})

		Convey("Then only the totals row is produced", func() {
			So(report.Table.Rows, ShouldHaveLength, 1)
			So(report.Table.Rows[0][0], ShouldEqual, "Total")
			So(report.Table.Rows[0][4], ShouldEqual, "$0.00")
		})
	})
}
