// Package docgen renders motion drafts as Markdown. The draft is a starting
// point for counsel, not a filing: every number in it comes from stored case
// data and the fee calculator, never from free-form generation.
package docgen

import (
	"fmt"
	"strings"

	"github.com/trialworks/lemonaid/internal/domain/fees"
	"github.com/trialworks/lemonaid/internal/domain/model"
)

type options struct {
	title string
}

// Option configures rendering.
type Option func(*options)

// WithTitle overrides the default motion title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

const defaultTitle = "Motion for Attorney's Fees and Costs"

// RenderMotion assembles the Markdown draft: caption, vehicle summary,
// repair chronology, and the fee-reasonableness section.
func RenderMotion(c model.Case, visits []model.RepairVisit, report fees.Report, opts ...Option) string {
	o := options{title: defaultTitle}
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", o.title)
	fmt.Fprintf(&b, "**Matter:** %s\n\n", c.ClientName)
	fmt.Fprintf(&b, "**Vehicle:** %d %s %s, VIN %s\n\n", c.VehicleYear, c.VehicleMake, c.VehicleModel, c.VIN)

	writeChronology(&b, visits)
	writeFeeSection(&b, report)

	return b.String()
}

var chronologyHeader = []string{"Date In", "Date Out", "Odometer", "Complaint", "Work Performed", "Days Out"}

func writeChronology(b *strings.Builder, visits []model.RepairVisit) {
	b.WriteString("## Repair Chronology\n\n")
	if len(visits) == 0 {
		b.WriteString("No repair visits are on record for this matter.\n\n")
		return
	}

	rows := make([][]string, 0, len(visits))
	var daysOut int
	for _, v := range visits {
		daysOut += v.DaysOutOfService
		rows = append(rows, []string{
			v.DateIn.Format("2006-01-02"),
			v.DateOut.Format("2006-01-02"),
			fmt.Sprintf("%d", v.Odometer),
			v.Complaint,
			v.WorkPerformed,
			fmt.Sprintf("%d", v.DaysOutOfService),
		})
	}
	writeTable(b, chronologyHeader, rows)
	fmt.Fprintf(b, "The vehicle was presented for repair %d time(s) and was out of service for %d day(s).\n\n",
		len(visits), daysOut)
}

func writeFeeSection(b *strings.Builder, report fees.Report) {
	b.WriteString("## Reasonableness of Attorney's Fees\n\n")
	writeTable(b, report.Table.Header, report.Table.Rows)
	for _, sentence := range report.Sentences {
		b.WriteString(sentence)
		b.WriteString("\n\n")
	}
}

// writeTable renders a Markdown pipe table. Cell text is escaped so a
// complaint narrative containing "|" cannot break the layout.
func writeTable(b *strings.Builder, header []string, rows [][]string) {
	writeRow(b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range rows {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
