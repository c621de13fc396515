package cashflow

import (
	"testing"
	"time"

	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestAnalyze(t *testing.T) {
	t.Run("derives closing balance and burn rate", func(t *testing.T) {
		snap, err := Analyze(
			day(30),
			decimal.NewFromInt(100),
			decimal.NewFromInt(500),
			decimal.NewFromInt(200),
			30,
			nil,
		)
		require.NoError(t, err)

		assert.True(t, snap.ClosingBalance.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, 30, snap.PeriodDays)

		// 200 expenses over 30 days
		expectedBurn := decimal.NewFromInt(200).Div(decimal.NewFromInt(30))
		assert.True(t, snap.BurnRate.Equal(expectedBurn))
	})

	t.Run("zero expenses yields zero burn rate", func(t *testing.T) {
		snap, err := Analyze(day(30), decimal.Zero, decimal.NewFromInt(100), decimal.Zero, 30, nil)
		require.NoError(t, err)
		assert.True(t, snap.BurnRate.IsZero())
	})

	t.Run("a reversal-only period reports a negative burn rate", func(t *testing.T) {
		// Reversals carry negative signed amounts, so a period that only
		// unwinds prior expenses nets to negative outflow.
		snap, err := Analyze(day(30), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(-90), 30, nil)
		require.NoError(t, err)

		assert.True(t, snap.ClosingBalance.Equal(decimal.NewFromInt(190)))
		assert.True(t, snap.BurnRate.Equal(decimal.NewFromInt(-3)), "got %s", snap.BurnRate)
	})

	t.Run("rejects non-positive periods", func(t *testing.T) {
		_, err := Analyze(day(0), decimal.Zero, decimal.Zero, decimal.Zero, 0, nil)
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PERIOD", de.Code)
	})

	t.Run("is deterministic for identical inputs", func(t *testing.T) {
		history := []Snapshot{
			{Date: day(10), ClosingBalance: decimal.NewFromInt(100)},
			{Date: day(20), ClosingBalance: decimal.NewFromInt(200)},
			{Date: day(30), ClosingBalance: decimal.NewFromInt(300)},
		}
		first, err := Analyze(day(40), decimal.NewFromInt(300), decimal.NewFromInt(150), decimal.NewFromInt(50), 10, history)
		require.NoError(t, err)
		second, err := Analyze(day(40), decimal.NewFromInt(300), decimal.NewFromInt(150), decimal.NewFromInt(50), 10, history)
		require.NoError(t, err)

		assert.True(t, first.ClosingBalance.Equal(second.ClosingBalance))
		assert.True(t, first.BurnRate.Equal(second.BurnRate))
		assert.True(t, first.Projection30Days.Equal(second.Projection30Days))
	})
}

func TestProjection(t *testing.T) {
	t.Run("short history extrapolates the period's net daily flow", func(t *testing.T) {
		snap, err := Analyze(
			day(30),
			decimal.NewFromInt(100),
			decimal.NewFromInt(500),
			decimal.NewFromInt(200),
			30,
			nil,
		)
		require.NoError(t, err)

		// net daily flow = (500-200)/30 = 10; 400 + 10*30 = 700
		assert.True(t, snap.Projection30Days.Equal(decimal.NewFromInt(700)),
			"got %s", snap.Projection30Days)
	})

	t.Run("long history fits a regression over closing balances", func(t *testing.T) {
		// Perfectly linear history climbing 10 per day.
		history := []Snapshot{
			{Date: day(0), ClosingBalance: decimal.NewFromInt(0)},
			{Date: day(10), ClosingBalance: decimal.NewFromInt(100)},
			{Date: day(20), ClosingBalance: decimal.NewFromInt(200)},
		}
		snap, err := Analyze(day(30), decimal.NewFromInt(200), decimal.NewFromInt(150), decimal.NewFromInt(50), 10, history)
		require.NoError(t, err)

		// Closing lands on the same line (300 at day 30); the fit predicts
		// 600 at day 60.
		diff := snap.Projection30Days.Sub(decimal.NewFromInt(600)).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "got %s", snap.Projection30Days)
	})

	t.Run("flat history projects the mean", func(t *testing.T) {
		history := []Snapshot{
			{Date: day(0), ClosingBalance: decimal.NewFromInt(500)},
			{Date: day(10), ClosingBalance: decimal.NewFromInt(500)},
			{Date: day(20), ClosingBalance: decimal.NewFromInt(500)},
		}
		snap, err := Analyze(day(30), decimal.NewFromInt(500), decimal.NewFromInt(100), decimal.NewFromInt(100), 10, history)
		require.NoError(t, err)

		diff := snap.Projection30Days.Sub(decimal.NewFromInt(500)).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "got %s", snap.Projection30Days)
	})
}

func TestLeastSquares(t *testing.T) {
	t.Run("recovers a perfect line", func(t *testing.T) {
		slope, intercept := leastSquares([]float64{0, 1, 2, 3}, []float64{5, 7, 9, 11})
		assert.InDelta(t, 2.0, slope, 1e-9)
		assert.InDelta(t, 5.0, intercept, 1e-9)
	})

	t.Run("degenerate x spread falls back to the mean", func(t *testing.T) {
		slope, intercept := leastSquares([]float64{3, 3, 3}, []float64{1, 2, 3})
		assert.Zero(t, slope)
		assert.InDelta(t, 2.0, intercept, 1e-9)
	})
}
