package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/stats"
)

// printer groups large counts (populations) in British style.
var printer = message.NewPrinter(language.BritishEnglish)

// WriteMissingTable renders a missing-value report. Columns with zero
// missing values never appear in the input.
func WriteMissingTable(out io.Writer, report []dataset.MissingColumn) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tMISSING\tAREAS")
	for _, mc := range report {
		fmt.Fprintf(w, "%s\t%d\t%s\n", mc.Column, mc.Count, strings.Join(mc.Areas, ", "))
	}
	return w.Flush()
}

// WriteSummaryTable renders per-column descriptive statistics.
func WriteSummaryTable(out io.Writer, summaries []stats.ColumnSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tN\tMISSING\tMEAN\tSD\tMIN\tMEDIAN\tMAX")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n",
			s.Column, s.N, s.Missing, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	}
	return w.Flush()
}

// WriteCountryTable renders observation counts per constituent country,
// in a fixed country order.
func WriteCountryTable(out io.Writer, counts map[dataset.Country]int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tAUTHORITIES")
	for _, c := range []dataset.Country{dataset.England, dataset.NorthernIreland, dataset.Scotland, dataset.Wales} {
		if n, ok := counts[c]; ok {
			fmt.Fprintf(w, "%s\t%s\n", c, printer.Sprintf("%d", n))
		}
	}
	return w.Flush()
}

// WriteDictionaryTable renders the data dictionary, one row per
// documented column.
func WriteDictionaryTable(out io.Writer, d *dataset.Dictionary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tDESCRIPTION\tUNIT\tSOURCE\tYEAR")
	for _, f := range d.Fields {
		year := ""
		if f.Year != 0 {
			year = fmt.Sprintf("%d", f.Year)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Column, f.Description, f.Unit, f.Source, year)
	}
	return w.Flush()
}

// WriteModelTable renders a fitted model as a coefficient table followed
// by the goodness-of-fit summary.
func WriteModelTable(out io.Writer, m *stats.Model) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Model: %s ~ %s\n\n", m.Response, m.Predictor)
	fmt.Fprintln(w, "TERM\tESTIMATE\tSTD ERROR")
	fmt.Fprintf(w, "%s\t%.6g\t%.6g\n", stats.InterceptName, m.Intercept, m.InterceptStdErr)
	fmt.Fprintf(w, "%s\t%.6g\t%.6g\n", m.Predictor, m.Slope, m.SlopeStdErr)
	fmt.Fprintf(w, "\nr_squared\t%.4f\nn_observations\t%d\n", m.RSquared, m.N)
	return w.Flush()
}
