package cashflow

import (
	"time"

	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// regressionMinPoints is the snapshot history size at which the 30-day
// projection switches from single-period extrapolation to least-squares
// smoothing over the whole history.
const regressionMinPoints = 3

// Analyze derives a snapshot from period totals and prior snapshot history.
// It is a pure function: identical inputs yield bit-identical snapshots,
// which makes snapshot computation idempotent and reproducible.
//
// history must be ordered by date ascending and contain only snapshots dated
// before asOf; summation and regression iterate in that order so repeated
// calls sum in the same order.
func Analyze(
	asOf time.Time,
	openingBalance decimal.Decimal,
	totalIncome decimal.Decimal,
	totalExpenses decimal.Decimal,
	periodDays int,
	history []Snapshot,
) (*Snapshot, error) {
	if periodDays <= 0 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Snapshot period must cover at least one day")
	}

	closing := openingBalance.Add(totalIncome).Sub(totalExpenses)

	// Burn rate is zero for a period with no outflow. Reversals contribute
	// negatively to totalExpenses, so a period that only unwinds prior
	// expenses reports a negative daily figure rather than hiding it.
	days := decimal.NewFromInt(int64(periodDays))
	burnRate := decimal.Zero
	if !totalExpenses.IsZero() {
		burnRate = totalExpenses.Div(days)
	}

	projection := projectThirtyDays(asOf, closing, totalIncome, totalExpenses, days, history)

	return &Snapshot{
		BaseEntity:       shared.NewBaseEntity(),
		Date:             asOf,
		OpeningBalance:   openingBalance,
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		ClosingBalance:   closing,
		PeriodDays:       periodDays,
		BurnRate:         burnRate,
		Projection30Days: projection,
	}, nil
}

// projectThirtyDays extrapolates the closing balance 30 days forward.
// With fewer than regressionMinPoints historical snapshots it uses the
// single-period net daily flow; otherwise it fits closing balance against
// elapsed days across the history plus the new point and evaluates the fit
// 30 days past asOf.
func projectThirtyDays(
	asOf time.Time,
	closing decimal.Decimal,
	totalIncome decimal.Decimal,
	totalExpenses decimal.Decimal,
	periodDays decimal.Decimal,
	history []Snapshot,
) decimal.Decimal {
	if len(history) < regressionMinPoints {
		netDaily := totalIncome.Sub(totalExpenses).Div(periodDays)
		return closing.Add(netDaily.Mul(decimal.NewFromInt(30)))
	}

	origin := history[0].Date
	n := len(history) + 1
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := range history {
		xs = append(xs, elapsedDays(origin, history[i].Date))
		ys = append(ys, history[i].ClosingBalance.InexactFloat64())
	}
	xs = append(xs, elapsedDays(origin, asOf))
	ys = append(ys, closing.InexactFloat64())

	slope, intercept := leastSquares(xs, ys)
	predicted := intercept + slope*(xs[len(xs)-1]+30)

	return decimal.NewFromFloat(predicted).Round(4)
}

// leastSquares fits y = intercept + slope*x by ordinary least squares.
// Sums accumulate in slice order so the result is deterministic for a given
// input ordering. A degenerate x spread yields a flat line through the mean.
func leastSquares(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i := range xs {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	slope = num / den
	intercept = meanY - slope*meanX
	return slope, intercept
}

func elapsedDays(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
