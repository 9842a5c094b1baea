package fees

import "fmt"

// Table is the tabular structure handed to the document-rendering layer.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Report pairs the fee table with the narrative sentences a motion embeds.
type Report struct {
	Sentences []string `json:"sentences"`
	Table     Table    `json:"table"`
}

// reportHeader is the presentation contract the document layer depends on.
var reportHeader = []string{"Attorney", "Hours", "Billed Rate", "Benchmark Rate", "Billed Total", "Benchmark Total"}

// BuildReport formats a comparison into the table and sentences embedded in
// the fee-reasonableness section of a motion. Hours render with one decimal,
// currency with two. This is a deterministic transform with no numeric
// computation of its own.
func BuildReport(c Comparison) Report {
	rows := make([][]string, 0, len(c.Attorneys)+1)
	var totalHours float64
	for _, att := range c.Attorneys {
		totalHours += att.Hours
		rows = append(rows, []string{
			att.AttorneyName,
			formatHours(att.Hours),
			formatCurrency(att.BilledRate),
			formatCurrency(att.BenchmarkRate),
			formatCurrency(att.BilledTotal),
			formatCurrency(att.BenchmarkTotal),
		})
	}
	rows = append(rows, []string{
		"Total",
		formatHours(totalHours),
		"",
		"",
		formatCurrency(c.TotalBilled),
		formatCurrency(c.TotalBenchmark),
	})

	sentences := []string{
		fmt.Sprintf("Counsel billed %s hours for total fees of %s against a Laffey Matrix benchmark of %s.",
			formatHours(totalHours), formatCurrency(c.TotalBilled), formatCurrency(c.TotalBenchmark)),
	}
	if c.AtOrBelowBenchmark {
		sentences = append(sentences, fmt.Sprintf(
			"The fees billed are at or below the benchmark by %s, supporting the reasonableness of the requested award.",
			formatCurrency(c.Difference)))
	} else {
		sentences = append(sentences,
			"The rates billed are consistent with prevailing market rates for attorneys of comparable experience.")
	}

	return Report{
		Sentences: sentences,
		Table:     Table{Header: reportHeader, Rows: rows},
	}
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
