package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendify/spendify/internal/forecast"
	"github.com/spendify/spendify/internal/statement"
)

// flatResult builds a forecast where every LSTM point equals income and
// every ARIMA point equals expense, so the plan's means are exact.
func flatResult(income, expense float64, days int) *forecast.Result {
	res := &forecast.Result{}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		res.Points = append(res.Points, forecast.Point{
			Date:  start.AddDate(0, 0, i),
			ARIMA: expense,
			LSTM:  income,
		})
	}
	return res
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name            string
		income, expense float64
		wantRatio       float64
		wantSavings     float64
		wantEssential   float64
		wantNonEssent   float64
	}{
		{
			name:   "expense pressure tightens savings",
			income: 10000, expense: 9000,
			wantRatio:     0.10,
			wantSavings:   1000,
			wantEssential: 6300,
			wantNonEssent: 2700,
		},
		{
			name:   "comfortable margin keeps normal savings",
			income: 10000, expense: 5000,
			wantRatio:     0.20,
			wantSavings:   2000,
			wantEssential: 3500,
			wantNonEssent: 1500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Derive(flatResult(tt.income, tt.expense, 30))
			require.NoError(t, err)

			assert.InDelta(t, tt.income, plan.PredictedIncome, 1e-9)
			assert.InDelta(t, tt.expense, plan.PredictedExpense, 1e-9)
			assert.Equal(t, tt.wantRatio, plan.SavingsRatio)
			assert.InDelta(t, tt.wantSavings, plan.DynamicSavings, 1e-9)
			assert.InDelta(t, tt.wantEssential, plan.EssentialExpense, 1e-9)
			assert.InDelta(t, tt.wantNonEssent, plan.NonEssentialExpense, 1e-9)
		})
	}
}

func TestDeriveBoundary(t *testing.T) {
	// Exactly 80% of income is not over the threshold.
	plan, err := Derive(flatResult(10000, 8000, 30))
	require.NoError(t, err)
	assert.Equal(t, 0.20, plan.SavingsRatio)
}

func TestDeriveSplitsSumToExpense(t *testing.T) {
	plan, err := Derive(flatResult(12345.67, 7654.32, 14))
	require.NoError(t, err)
	assert.InDelta(t, plan.PredictedExpense, plan.EssentialExpense+plan.NonEssentialExpense, 1e-9)
}

func TestDeriveRequiresForecast(t *testing.T) {
	for _, res := range []*forecast.Result{nil, {}} {
		_, err := Derive(res)
		require.Error(t, err)
		assert.True(t, statement.IsKind(err, statement.ErrNoForecast),
			"error = %v, want kind %s", err, statement.ErrNoForecast)
	}
}
