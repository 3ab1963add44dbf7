// Package report renders fitted models, missing-value reports, and
// column summaries as human-readable text.
package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/ids-analytics/pubstats/internal/stats"
)

// sigFigs is the number of significant figures reported for coefficient
// magnitudes.
const sigFigs = 3

// Magnitude renders |estimate × scale| to three significant figures as a
// plain decimal string, never scientific notation. Rounding is decimal
// round-half-to-even (strconv's correctly rounded formatting). The sign
// is dropped here and narrated separately via Direction, so
// "decreases by 3.4" reads naturally.
func Magnitude(estimate, scale float64) string {
	v := math.Abs(estimate * scale)
	if v == 0 {
		return "0"
	}

	// Round in the decimal domain, then expand the exponent form to a
	// plain decimal. Rescaling by powers of ten in binary floating point
	// would corrupt the trailing digits.
	sci := strconv.FormatFloat(v, 'e', sigFigs-1, 64)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mantissa, ".", "", 1)

	var s string
	switch {
	case exp >= len(digits)-1:
		s = digits + strings.Repeat("0", exp-len(digits)+1)
	case exp >= 0:
		s = digits[:exp+1] + "." + digits[exp+1:]
	default:
		s = "0." + strings.Repeat("0", -exp-1) + digits
	}

	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Direction narrates the sign of a coefficient estimate.
func Direction(estimate float64) string {
	if estimate < 0 {
		return "decreases"
	}
	return "increases"
}

// Coefficient resolves a coefficient from the fitted model by name and
// renders its rescaled magnitude. An unknown coefficient name is a
// lookup error from the model, surfaced unchanged.
func Coefficient(m *stats.Model, name string, scale float64) (string, error) {
	est, err := m.Coefficient(name)
	if err != nil {
		return "", err
	}
	return Magnitude(est, scale), nil
}
