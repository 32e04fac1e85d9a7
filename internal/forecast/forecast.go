// Package forecast projects a ledger's daily closing balance forward with
// two models, a drift ARIMA and a small LSTM, trained per request on the
// ledger's own history.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendify/spendify/internal/statement"
)

// HorizonPolicy decides what happens to horizons beyond the maximum.
type HorizonPolicy string

const (
	// HorizonReject fails requests above the maximum horizon.
	HorizonReject HorizonPolicy = "reject"
	// HorizonClamp silently caps them at the maximum.
	HorizonClamp HorizonPolicy = "clamp"
)

const (
	// DefaultMaxHorizonDays bounds how far ahead a forecast may reach.
	DefaultMaxHorizonDays = 90
	// DefaultMinHistoryDays is the shortest usable balance history.
	DefaultMinHistoryDays = 10
	// DefaultSeed keeps model initialization reproducible across runs.
	DefaultSeed = 42
)

// Options tune horizon handling and model determinism.
type Options struct {
	MaxHorizonDays int
	MinHistoryDays int
	Policy         HorizonPolicy
	Seed           int64
}

// DefaultOptions returns the standard forecasting configuration.
func DefaultOptions() Options {
	return Options{
		MaxHorizonDays: DefaultMaxHorizonDays,
		MinHistoryDays: DefaultMinHistoryDays,
		Policy:         HorizonReject,
		Seed:           DefaultSeed,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxHorizonDays <= 0 {
		o.MaxHorizonDays = DefaultMaxHorizonDays
	}
	if o.MinHistoryDays <= 0 {
		o.MinHistoryDays = DefaultMinHistoryDays
	}
	if o.Policy == "" {
		o.Policy = HorizonReject
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// Point is one forecast day with both model outputs.
type Point struct {
	Date  time.Time `json:"date"`
	ARIMA float64   `json:"arima"`
	LSTM  float64   `json:"lstm"`
}

// Result is a completed forecast over a contiguous date range beginning the
// day after the ledger's last transaction.
type Result struct {
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Points         []Point         `json:"points"`
}

// Forecast projects the ledger's closing balance horizonDays ahead.
//
// Non-positive horizons are always rejected. Horizons above the maximum are
// rejected or clamped according to the policy. Ledgers whose daily history
// spans fewer than MinHistoryDays observations are rejected.
func Forecast(l *statement.Ledger, horizonDays int, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if horizonDays <= 0 {
		return nil, statement.Errorf(statement.ErrInvalidHorizon,
			"forecast horizon must be positive, got %d", horizonDays)
	}
	if horizonDays > opts.MaxHorizonDays {
		if opts.Policy != HorizonClamp {
			return nil, statement.Errorf(statement.ErrInvalidHorizon,
				"forecast horizon %d exceeds maximum of %d days", horizonDays, opts.MaxHorizonDays)
		}
		horizonDays = opts.MaxHorizonDays
	}

	series := BuildDailySeries(l)
	if len(series.Values) < opts.MinHistoryDays {
		return nil, statement.Errorf(statement.ErrInsufficientHistory,
			"forecasting needs at least %d days of history, ledger has %d",
			opts.MinHistoryDays, len(series.Values))
	}

	arima := fitARIMA(series.Values)
	arimaOut := arima.forecast(horizonDays)

	lstm := trainLSTM(series.Values, opts.Seed)
	lstmOut := lstm.forecast(series.Values, horizonDays)

	points := make([]Point, horizonDays)
	for i := range points {
		points[i] = Point{
			Date:  series.End().AddDate(0, 0, i+1),
			ARIMA: arimaOut[i],
			LSTM:  lstmOut[i],
		}
	}

	return &Result{
		CurrentBalance: l.CurrentBalance(),
		Points:         points,
	}, nil
}
