// Package budget turns a balance forecast into a monthly spending plan.
package budget

import (
	"github.com/spendify/spendify/internal/forecast"
	"github.com/spendify/spendify/internal/statement"
)

const (
	// tightSavingsRatio applies when predicted expense crowds out income.
	tightSavingsRatio = 0.10
	// normalSavingsRatio applies otherwise.
	normalSavingsRatio = 0.20

	// expensePressureThreshold is the expense-to-income fraction above
	// which the tighter savings ratio kicks in.
	expensePressureThreshold = 0.80

	essentialShare = 0.70
)

// Plan is a derived budget for the forecast period.
type Plan struct {
	PredictedIncome     float64 `json:"predicted_income"`
	PredictedExpense    float64 `json:"predicted_expense"`
	SavingsRatio        float64 `json:"savings_ratio"`
	DynamicSavings      float64 `json:"dynamic_savings"`
	EssentialExpense    float64 `json:"essential_expense"`
	NonEssentialExpense float64 `json:"non_essential_expense"`
}

// Derive builds a plan from a forecast result. Predicted income is the mean
// of the LSTM projections and predicted expense the mean of the ARIMA
// projections; the savings ratio tightens to 10% when expense exceeds 80%
// of income and stays at 20% otherwise.
func Derive(res *forecast.Result) (*Plan, error) {
	if res == nil || len(res.Points) == 0 {
		return nil, statement.Errorf(statement.ErrNoForecast,
			"budget derivation requires a completed forecast")
	}

	var incomeSum, expenseSum float64
	for _, p := range res.Points {
		incomeSum += p.LSTM
		expenseSum += p.ARIMA
	}
	n := float64(len(res.Points))
	income := incomeSum / n
	expense := expenseSum / n

	ratio := normalSavingsRatio
	if expense > expensePressureThreshold*income {
		ratio = tightSavingsRatio
	}

	essential := expense * essentialShare
	return &Plan{
		PredictedIncome:     income,
		PredictedExpense:    expense,
		SavingsRatio:        ratio,
		DynamicSavings:      income * ratio,
		EssentialExpense:    essential,
		NonEssentialExpense: expense - essential,
	}, nil
}
