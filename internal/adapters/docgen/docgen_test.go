package docgen_test

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/trialworks/lemonaid/internal/adapters/docgen"
	"github.com/trialworks/lemonaid/internal/domain/fees"
	"github.com/trialworks/lemonaid/internal/domain/model"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestRenderMotion(t *testing.T) {
	Convey("Given a case with repair visits and a fee report", t, func() {
		c := model.Case{
			ClientName:   "Dana Whitfield",
			VehicleYear:  2022,
			VehicleMake:  "Chevrolet",
			VehicleModel: "Bolt",
			VIN:          "1G1ZD5ST8NF100001",
		}
		visits := []model.RepairVisit{
			{
				DateIn:           day("2025-03-02"),
				DateOut:          day("2025-03-09"),
				Odometer:         8211,
				Complaint:        "battery warning light",
				WorkPerformed:    "replaced battery module",
				DaysOutOfService: 7,
			},
			{
				DateIn:           day("2025-05-14"),
				DateOut:          day("2025-05-16"),
				Odometer:         10480,
				Complaint:        "same warning | intermittent",
				WorkPerformed:    "reflashed BMS",
				DaysOutOfService: 2,
			},
		}
		report := fees.BuildReport(fees.Comparison{
			Attorneys: []fees.AttorneyComparison{
				{
					AttorneyName:       "R. Alvarez",
					Hours:              10,
					BilledRate:         400,
					BenchmarkRate:      742,
					BilledTotal:        4000,
					BenchmarkTotal:     7420,
					AtOrBelowBenchmark: true,
				},
			},
			TotalBilled:        4000,
			TotalBenchmark:     7420,
			Difference:         3420,
			AtOrBelowBenchmark: true,
		})

		Convey("When rendering the motion", func() {
			md := docgen.RenderMotion(c, visits, report)

			Convey("Then it leads with the default title and caption", func() {
				So(md, ShouldStartWith, "# Motion for Attorney's Fees and Costs\n")
				So(md, ShouldContainSubstring, "Dana Whitfield")
				So(md, ShouldContainSubstring, "2022 Chevrolet Bolt, VIN 1G1ZD5ST8NF100001")
			})

			Convey("Then the chronology totals visits and days out", func() {
				So(md, ShouldContainSubstring, "presented for repair 2 time(s)")
				So(md, ShouldContainSubstring, "out of service for 9 day(s)")
			})

			Convey("Then pipe characters in complaints are escaped", func() {
				So(md, ShouldContainSubstring, `same warning \| intermittent`)
				row := findLine(md, "same warning")
				So(strings.Count(row, " | "), ShouldEqual, 5)
			})

			Convey("Then the fee section embeds the report verbatim", func() {
				So(md, ShouldContainSubstring, "## Reasonableness of Attorney's Fees")
				So(md, ShouldContainSubstring, "| R. Alvarez | 10.0 | $400.00 | $742.00 | $4000.00 | $7420.00 |")
				for _, s := range report.Sentences {
					So(md, ShouldContainSubstring, s)
				}
			})
		})

		Convey("When rendering with no repair visits", func() {
			md := docgen.RenderMotion(c, nil, report)

			Convey("Then the chronology states the absence instead of an empty table", func() {
				So(md, ShouldContainSubstring, "No repair visits are on record")
				So(md, ShouldNotContainSubstring, "Date In")
			})
		})

		Convey("When overriding the title", func() {
			md := docgen.RenderMotion(c, visits, report, docgen.WithTitle("Fee Application"))

			Convey("Then the custom title is used", func() {
				So(md, ShouldStartWith, "# Fee Application\n")
			})
		})
	})
}

func findLine(s, substr string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
