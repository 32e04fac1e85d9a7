package forecast

import (
	"time"

	"github.com/spendify/spendify/internal/statement"
)

// Series is the daily-aggregated closing balance history: one value per
// calendar day from Start, gaps carried forward from the previous day.
// This is the single place ledger decimals become model floats.
type Series struct {
	Start  time.Time
	Values []float64
}

// End returns the date of the last observation.
func (s Series) End() time.Time {
	if len(s.Values) == 0 {
		return s.Start
	}
	return s.Start.AddDate(0, 0, len(s.Values)-1)
}

// BuildDailySeries collapses a ledger into its daily balance history. The
// last transaction of each day defines that day's balance; days without
// transactions keep the previous day's balance.
func BuildDailySeries(l *statement.Ledger) Series {
	if l == nil || len(l.Transactions) == 0 {
		return Series{}
	}

	byDay := make(map[string]float64)
	for _, tx := range l.Transactions {
		// Ledger is date-ascending, so the last write per day wins.
		byDay[tx.Date.Format(statement.DateFormat)] = tx.Balance.InexactFloat64()
	}

	first := truncateDay(l.Transactions[0].Date)
	last := truncateDay(l.Transactions[len(l.Transactions)-1].Date)

	s := Series{Start: first}
	prev := 0.0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if v, ok := byDay[d.Format(statement.DateFormat)]; ok {
			prev = v
		}
		s.Values = append(s.Values, prev)
	}
	return s
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
