// Package stats fits ordinary-least-squares models and computes
// descriptive summaries over dataset columns. All computations are
// closed-form over mean-centred sums of squares.
package stats

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/ids-analytics/pubstats/internal/dataset"
)

// InterceptName is the coefficient name for the fitted intercept. The
// slope is addressed by the predictor column's name.
const InterceptName = "intercept"

// Fit errors. A failed fit is surfaced to the caller; no degenerate model
// is ever returned.
var (
	ErrTooFewObservations = eris.New("stats: fewer than 2 usable observations")
	ErrZeroVariance       = eris.New("stats: predictor has zero variance")
	ErrUnknownCoefficient = eris.New("stats: unknown coefficient")
)

// Model is a fitted simple linear regression of one response column on
// one predictor column.
type Model struct {
	Response        dataset.Column `json:"response"`
	Predictor       dataset.Column `json:"predictor"`
	Intercept       float64        `json:"intercept"`
	Slope           float64        `json:"slope"`
	InterceptStdErr float64        `json:"intercept_std_error"`
	SlopeStdErr     float64        `json:"slope_std_error"`
	RSquared        float64        `json:"r_squared"`
	N               int            `json:"n_observations"`
}

// Fit computes the OLS model response = intercept + slope*predictor over
// the rows of obs where both columns are present. Rows with either value
// missing are excluded from the fit, never imputed. The input set is not
// modified.
//
// Fit fails with ErrTooFewObservations when fewer than two usable rows
// remain, and with ErrZeroVariance when the predictor is constant among
// usable rows (singular normal equations). With exactly two usable rows
// the fit is exact and both standard errors are zero.
func Fit(obs []dataset.Observation, response, predictor dataset.Column) (*Model, error) {
	xs, ys, err := usableRows(obs, response, predictor)
	if err != nil {
		return nil, err
	}

	n := len(xs)
	if n < 2 {
		return nil, eris.Wrapf(ErrTooFewObservations, "stats: fit %s ~ %s: %d usable rows", response, predictor, n)
	}

	// Mean-centred sum of squares for the singularity check; the naive
	// raw-moment form cancels catastrophically for near-constant columns.
	xMean := stat.Mean(xs, nil)
	var sxx float64
	for _, x := range xs {
		d := x - xMean
		sxx += d * d
	}
	if sxx == 0 {
		return nil, eris.Wrapf(ErrZeroVariance, "stats: fit %s ~ %s", response, predictor)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	// Residual sum of squares and total sum of squares about the mean.
	yMean := stat.Mean(ys, nil)
	var ssr, sst float64
	for i, x := range xs {
		r := ys[i] - (intercept + slope*x)
		ssr += r * r
		d := ys[i] - yMean
		sst += d * d
	}

	// A constant response is fitted exactly by slope 0.
	r2 := 1.0
	if sst > 0 {
		r2 = 1 - ssr/sst
	}

	// Coefficient standard errors from the residual variance. With n == 2
	// the fit is exact (zero residuals, zero degrees of freedom) and the
	// errors are reported as zero.
	var seSlope, seIntercept float64
	if n > 2 {
		s2 := ssr / float64(n-2)
		seSlope = math.Sqrt(s2 / sxx)
		seIntercept = math.Sqrt(s2 * (1/float64(n) + xMean*xMean/sxx))
	}

	m := &Model{
		Response:        response,
		Predictor:       predictor,
		Intercept:       intercept,
		Slope:           slope,
		InterceptStdErr: seIntercept,
		SlopeStdErr:     seSlope,
		RSquared:        r2,
		N:               n,
	}

	zap.L().Debug("stats: model fitted",
		zap.String("response", string(response)),
		zap.String("predictor", string(predictor)),
		zap.Float64("slope", slope),
		zap.Float64("r_squared", r2),
		zap.Int("n", n),
	)

	return m, nil
}

// usableRows extracts aligned predictor/response vectors for the rows
// where both columns are present.
func usableRows(obs []dataset.Observation, response, predictor dataset.Column) (xs, ys []float64, err error) {
	for _, o := range obs {
		y, yOK, err := dataset.NumericValue(o, response)
		if err != nil {
			return nil, nil, err
		}
		x, xOK, err := dataset.NumericValue(o, predictor)
		if err != nil {
			return nil, nil, err
		}
		if !xOK || !yOK {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

// Predict evaluates the fitted line at x.
func (m *Model) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// Coefficient resolves a coefficient estimate by name: InterceptName for
// the intercept, or the predictor column's name for the slope. An
// unrecognized name is a lookup error, surfaced immediately.
func (m *Model) Coefficient(name string) (float64, error) {
	switch name {
	case InterceptName:
		return m.Intercept, nil
	case string(m.Predictor):
		return m.Slope, nil
	default:
		return 0, eris.Wrapf(ErrUnknownCoefficient, "stats: coefficient %q (model has %q and %q)", name, InterceptName, m.Predictor)
	}
}
